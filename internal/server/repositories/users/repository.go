// Package users persists account rows. The repository is the single source
// of truth for username/email uniqueness: the schema carries UNIQUE
// constraints and Create translates their violations back into the same
// errors the pre-validation checks produce, so concurrent signups racing past
// the pre-check still fail cleanly.
package users

import (
	"context"

	"github.com/avolkovs/accountd/internal/server/models"
)

type Repository interface {
	// Create inserts a fully populated user row.
	Create(ctx context.Context, user *models.User) error

	// GetByIdentifier looks a user up by username or email; the same value
	// is tried against both columns.
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)

	// GetByAuthKey looks a user up by its auth key.
	GetByAuthKey(ctx context.Context, authKey string) (*models.User, error)

	// EmailExists reports whether a row with this email exists.
	EmailExists(ctx context.Context, email string) (bool, error)

	// UsernameExists reports whether a row with this username exists.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// SetVerificationCode stores a pending verification code, overwriting
	// any earlier one.
	SetVerificationCode(ctx context.Context, authKey, code string) error

	// Confirm marks the user confirmed and clears the pending code.
	Confirm(ctx context.Context, authKey string) error
}

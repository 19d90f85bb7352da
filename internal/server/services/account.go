// Package services contains the server-side business logic: account signup
// and login (AccountService) and the email-ownership confirmation flow
// (VerificationService).
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avolkovs/accountd/internal/common"
	"github.com/avolkovs/accountd/internal/cryptox"
	"github.com/avolkovs/accountd/internal/logging"
	"github.com/avolkovs/accountd/internal/server/models"
	"github.com/avolkovs/accountd/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// AccountService handles registration and credential verification. The
// returned auth key is the caller's bearer credential; it is assigned at
// signup and never rotated.
type AccountService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewAccountService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *AccountService {
	return &AccountService{
		db:     db,
		repos:  repos,
		logger: logger.With("module", "accounts"),
	}
}

// newToken issues an opaque random 128-bit identifier in canonical form.
// Two independent tokens are issued per signup: the account id and the
// auth key.
func newToken() string {
	return uuid.NewString()
}

// Signup validates the candidate fields, hashes the password, and inserts
// the new account. The pre-validation uniqueness checks give precise errors;
// the insert itself still translates constraint violations to the same
// errors, so races between concurrent signups cannot slip through.
func (s *AccountService) Signup(ctx context.Context, name, email, username, password string) (string, error) {
	repo := s.repos.Users(s.db)

	if err := s.validateSignup(ctx, repo, name, email, username, password); err != nil {
		return "", err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return "", err
	}

	user := &models.User{
		ID:           newToken(),
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		AuthKey:      newToken(),
	}

	if err := repo.Create(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info(ctx, "user registered", "username", username)
	return user.AuthKey, nil
}

// Login verifies the password for the account matching identifier, which may
// be a username or an email address. Unknown identifier and wrong password
// yield the same error, never revealing which was wrong.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (string, error) {
	repo := s.repos.Users(s.db)

	user, err := repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", err
	}

	ok, err := cryptox.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", common.ErrInvalidCredentials
	}

	s.logger.Info(ctx, "user logged in", "username", user.Username)
	return user.AuthKey, nil
}

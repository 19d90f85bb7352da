// Package models holds the persisted row types shared by repositories and
// services.
package models

import (
	"database/sql"
	"time"
)

// User is one account row. ID and AuthKey are opaque random identifiers
// assigned at creation and never changed; AuthKey doubles as the bearer
// session credential. Confirmed transitions false to true exactly once.
// VerificationCode is set only while a confirmation is pending and cleared
// when the code is matched. TwoFactor is reserved and not acted on.
type User struct {
	ID               string
	Name             string
	Username         string
	Email            string
	PasswordHash     string
	Confirmed        bool
	TwoFactor        bool
	VerificationCode sql.NullString
	AuthKey          string
	CreatedAt        time.Time
}

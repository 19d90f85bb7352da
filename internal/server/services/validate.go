package services

import (
	"context"
	"regexp"

	"github.com/avolkovs/accountd/internal/common"
	"github.com/avolkovs/accountd/internal/server/repositories/users"
)

// Local part, domain, and a 2-63 letter TLD.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,63}$`)

const maxUsernameLen = 16

// validateSignup checks the candidate fields in a fixed order (email,
// password, username, name) and stops at the first violation. The order is
// preserved for caller compatibility: it determines which error multiply
// invalid input reports.
func (s *AccountService) validateSignup(ctx context.Context, repo users.Repository, name, email, username, password string) error {
	if err := validateEmail(ctx, repo, email); err != nil {
		return err
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	if err := validateUsername(ctx, repo, username); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}
	return nil
}

func validateEmail(ctx context.Context, repo users.Repository, email string) error {
	if email == "" {
		return common.EmptyParam("Email")
	}
	if !emailPattern.MatchString(email) {
		return common.ErrInvalidEmail
	}

	taken, err := repo.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return common.ErrEmailTaken
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return common.EmptyParam("Password")
	}
	if len(password) < 7 {
		return common.ErrWeakPassword
	}

	var hasDigit, hasUpper, hasLower, hasSpecial bool
	for _, b := range []byte(password) {
		switch {
		case b >= '0' && b <= '9':
			hasDigit = true
		case b >= 'A' && b <= 'Z':
			hasUpper = true
		case b >= 'a' && b <= 'z':
			hasLower = true
		default:
			hasSpecial = true
		}
	}

	if !hasDigit || !hasUpper || !hasLower || !hasSpecial {
		return common.ErrWeakPassword
	}
	return nil
}

func validateUsername(ctx context.Context, repo users.Repository, username string) error {
	if username == "" {
		return common.EmptyParam("Username")
	}
	if len(username) > maxUsernameLen {
		return common.ErrInvalidUsername
	}

	taken, err := repo.UsernameExists(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return common.ErrUsernameTaken
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return common.EmptyParam("Name")
	}
	return nil
}

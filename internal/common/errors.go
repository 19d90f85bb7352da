// Package common defines the shared error taxonomy used across the service.
// Every failure a caller can observe is an *Error carrying a machine-readable
// Kind and a human-readable message; callers match with errors.Is against the
// exported sentinels (matching is by Kind, so wrapped errors still compare).
package common

import (
	"errors"
	"fmt"
)

// Kind tags an error with its place in the taxonomy.
type Kind string

const (
	// Validation kinds: user-correctable, safe to expose verbatim.
	KindInvalidEmail    Kind = "invalid_email"
	KindEmailTaken      Kind = "email_taken"
	KindUsernameTaken   Kind = "username_taken"
	KindInvalidUsername Kind = "invalid_username"
	KindWeakPassword    Kind = "weak_password"
	KindEmptyParam      Kind = "empty_param"

	// Auth kinds.
	KindInvalidCredentials      Kind = "invalid_credentials"
	KindInvalidAuthKey          Kind = "invalid_auth_key"
	KindInvalidVerificationCode Kind = "invalid_verification_code"

	// Infrastructure kinds: internal, non-actionable for the user.
	KindDatabaseError      Kind = "database_error"
	KindEncryptionError    Kind = "encryption_error"
	KindMissingEnvVariable Kind = "missing_env_variable"
	KindInvalidEnvVariable Kind = "invalid_env_variable"
	KindInternalEmailError Kind = "internal_email_error"
)

// Error is a tagged error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches by Kind, so errors.Is(err, ErrEmailTaken) holds for any
// EmailTaken error regardless of message or wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrInvalidEmail    = &Error{Kind: KindInvalidEmail, Message: "Invalid Email"}
	ErrEmailTaken      = &Error{Kind: KindEmailTaken, Message: "Email already in use"}
	ErrUsernameTaken   = &Error{Kind: KindUsernameTaken, Message: "Username already exists"}
	ErrInvalidUsername = &Error{Kind: KindInvalidUsername, Message: "Username too long"}
	ErrWeakPassword    = &Error{Kind: KindWeakPassword, Message: "Password does not meet strength requirements"}

	ErrInvalidCredentials      = &Error{Kind: KindInvalidCredentials, Message: "Invalid credentials"}
	ErrInvalidAuthKey          = &Error{Kind: KindInvalidAuthKey, Message: "Invalid auth key"}
	ErrInvalidVerificationCode = &Error{Kind: KindInvalidVerificationCode, Message: "Invalid verification code"}

	// ErrNotFound is a repository-level sentinel; services translate it into
	// the auth kind appropriate for the lookup that failed.
	ErrNotFound = errors.New("not found")
)

// EmptyParam reports a required field that was left empty.
func EmptyParam(field string) *Error {
	return &Error{Kind: KindEmptyParam, Message: fmt.Sprintf("%s is empty", field)}
}

// DatabaseError wraps a storage failure.
func DatabaseError(err error) *Error {
	return &Error{Kind: KindDatabaseError, Message: fmt.Sprintf("Internal database error: %v", err)}
}

// EncryptionError wraps a password-hashing failure.
func EncryptionError(err error) *Error {
	return &Error{Kind: KindEncryptionError, Message: fmt.Sprintf("Internal encryption error: %v", err)}
}

// MissingEnvVariable reports an absent environment variable.
func MissingEnvVariable(name string) *Error {
	return &Error{Kind: KindMissingEnvVariable, Message: fmt.Sprintf("Missing environment variable: %s", name)}
}

// InvalidEnvVariable reports an environment variable whose value cannot be used.
func InvalidEnvVariable(name string) *Error {
	return &Error{Kind: KindInvalidEnvVariable, Message: fmt.Sprintf("Invalid environment variable: %s", name)}
}

// EmailError wraps a mail-transport failure.
func EmailError(err error) *Error {
	return &Error{Kind: KindInternalEmailError, Message: fmt.Sprintf("Internal email error: %v", err)}
}

// Internal reports whether err belongs to the infrastructure tier. The HTTP
// layer uses it to pick the log level; validation and auth failures are
// normal traffic.
func Internal(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return true
	}
	switch e.Kind {
	case KindDatabaseError, KindEncryptionError, KindMissingEnvVariable,
		KindInvalidEnvVariable, KindInternalEmailError:
		return true
	}
	return false
}

// Package cryptox handles one-way password hashing. Digests are
// self-describing bcrypt strings, so the work factor travels with the digest
// and can be raised later without invalidating stored credentials.
package cryptox

import (
	"errors"

	"github.com/avolkovs/accountd/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a bcrypt digest at the default cost.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", common.EncryptionError(err)
	}
	return string(digest), nil
}

// VerifyPassword recomputes the digest and compares. A mismatch is a normal
// false result; only a malformed or truncated digest is an error.
func VerifyPassword(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, common.EncryptionError(err)
}

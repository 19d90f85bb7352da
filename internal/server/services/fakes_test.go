package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avolkovs/accountd/internal/common"
	"github.com/avolkovs/accountd/internal/dbx"
	"github.com/avolkovs/accountd/internal/logging"
	"github.com/avolkovs/accountd/internal/server/mail"
	"github.com/avolkovs/accountd/internal/server/models"
	usersrepo "github.com/avolkovs/accountd/internal/server/repositories/users"
)

// --- shared test fakes ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// memRepo is a stateful in-memory users.Repository enforcing the same
// uniqueness rules as the schema.
type memRepo struct {
	users []*models.User

	createErr error
	getErr    error
}

func (r *memRepo) Create(_ context.Context, u *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, e := range r.users {
		if e.Email == u.Email {
			return common.ErrEmailTaken
		}
		if e.Username == u.Username {
			return common.ErrUsernameTaken
		}
	}
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *memRepo) GetByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, e := range r.users {
		if e.Username == identifier || e.Email == identifier {
			return e, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memRepo) GetByAuthKey(_ context.Context, authKey string) (*models.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, e := range r.users {
		if e.AuthKey == authKey {
			return e, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, e := range r.users {
		if e.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, e := range r.users {
		if e.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) SetVerificationCode(_ context.Context, authKey, code string) error {
	for _, e := range r.users {
		if e.AuthKey == authKey {
			e.VerificationCode = sql.NullString{String: code, Valid: true}
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *memRepo) Confirm(_ context.Context, authKey string) error {
	for _, e := range r.users {
		if e.AuthKey == authKey {
			e.Confirmed = true
			e.VerificationCode = sql.NullString{}
			return nil
		}
	}
	return common.ErrNotFound
}

// memManager hands the same repo out for any DBTX, pooled or transactional.
type memManager struct {
	repo *memRepo
}

func (m *memManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memManager) Users(dbx.DBTX) usersrepo.Repository          { return m.repo }

// fakeSender records dispatched messages and can fail on demand.
type fakeSender struct {
	sent    []mail.Message
	sendErr error

	lastHadDeadline bool
}

func (f *fakeSender) Send(ctx context.Context, msg mail.Message) error {
	_, f.lastHadDeadline = ctx.Deadline()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

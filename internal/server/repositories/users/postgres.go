package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avolkovs/accountd/internal/common"
	"github.com/avolkovs/accountd/internal/dbx"
	"github.com/avolkovs/accountd/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names from 00001_create_users.sql.
const (
	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {

	query :=
		`INSERT INTO users (id, name, username, email, password_hash, confirmed, two_factor, verification_code, auth_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Username, user.Email, user.PasswordHash,
		user.Confirmed, user.TwoFactor, user.VerificationCode, user.AuthKey)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case emailConstraint:
				return common.ErrEmailTaken
			case usernameConstraint:
				return common.ErrUsernameTaken
			}
		}
		return common.DatabaseError(err)
	}

	return nil
}

func (r *PostgresRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	query :=
		`SELECT id, name, username, email, password_hash, confirmed, two_factor, verification_code, auth_key, created_at
		 FROM users
		 WHERE username = $1 OR email = $2
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, identifier, identifier))
}

func (r *PostgresRepository) GetByAuthKey(ctx context.Context, authKey string) (*models.User, error) {
	query :=
		`SELECT id, name, username, email, password_hash, confirmed, two_factor, verification_code, auth_key, created_at
		 FROM users
		 WHERE auth_key = $1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, authKey))
}

func (r *PostgresRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE email = $1`, email)
}

func (r *PostgresRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE username = $1`, username)
}

func (r *PostgresRepository) SetVerificationCode(ctx context.Context, authKey, code string) error {
	query :=
		`UPDATE users SET verification_code = $1
		 WHERE auth_key = $2
		 `

	res, err := r.db.ExecContext(ctx, query, code, authKey)
	if err != nil {
		return common.DatabaseError(err)
	}
	return r.checkAffected(res)
}

func (r *PostgresRepository) Confirm(ctx context.Context, authKey string) error {
	query :=
		`UPDATE users SET confirmed = TRUE, verification_code = NULL
		 WHERE auth_key = $1
		 `

	res, err := r.db.ExecContext(ctx, query, authKey)
	if err != nil {
		return common.DatabaseError(err)
	}
	return r.checkAffected(res)
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Username, &user.Email,
		&user.PasswordHash, &user.Confirmed, &user.TwoFactor,
		&user.VerificationCode, &user.AuthKey, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.DatabaseError(err)
	}

	return user, nil
}

func (r *PostgresRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&count); err != nil {
		return false, common.DatabaseError(err)
	}
	return count > 0, nil
}

func (r *PostgresRepository) checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return common.DatabaseError(err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

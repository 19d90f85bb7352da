package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/avolkovs/accountd/internal/common"
	"github.com/avolkovs/accountd/internal/dbx"
	"github.com/avolkovs/accountd/internal/logging"
	"github.com/avolkovs/accountd/internal/server/mail"
	"github.com/avolkovs/accountd/internal/server/repositories/repomanager"
)

const (
	codeLength      = 6
	verifySubject   = "Verify your account"
	defaultSendWait = 15 * time.Second
)

// VerificationService runs the email-ownership state machine: Unverified ->
// PendingVerification (code stored) -> Confirmed (terminal). Codes are only
// persisted after the transport accepts the message, so a failed send leaves
// the user's state untouched.
type VerificationService struct {
	db          *sql.DB
	repos       repomanager.RepositoryManager
	sender      mail.Sender
	sendTimeout time.Duration
	logger      logging.Logger
}

func NewVerificationService(db *sql.DB, repos repomanager.RepositoryManager, sender mail.Sender, sendTimeout time.Duration, logger logging.Logger) *VerificationService {
	if sendTimeout <= 0 {
		sendTimeout = defaultSendWait
	}
	return &VerificationService{
		db:          db,
		repos:       repos,
		sender:      sender,
		sendTimeout: sendTimeout,
		logger:      logger.With("module", "verification"),
	}
}

// generateCode produces a 6-digit code, each digit drawn uniformly from 1-9.
// The code guards proof of email ownership, so it comes from crypto/rand.
func generateCode() (string, error) {
	digits := make([]byte, codeLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(9))
		if err != nil {
			return "", common.EmailError(err)
		}
		digits[i] = byte('1' + n.Int64())
	}
	return string(digits), nil
}

// Send generates a fresh code, mails it to the account's address, and
// persists it on transport success, overwriting any earlier pending code.
// The send attempt is bounded by the configured timeout.
func (s *VerificationService) Send(ctx context.Context, authKey string) error {
	repo := s.repos.Users(s.db)

	user, err := repo.GetByAuthKey(ctx, authKey)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidAuthKey
		}
		return err
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	msg := mail.Message{
		ToName:    user.Name,
		ToAddress: user.Email,
		Subject:   verifySubject,
		Body:      fmt.Sprintf("your verification code is %s", code),
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.sender.Send(sendCtx, msg); err != nil {
		return err
	}

	if err := repo.SetVerificationCode(ctx, authKey, code); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidAuthKey
		}
		return err
	}

	s.logger.Info(ctx, "verification code sent", "username", user.Username)
	return nil
}

// Confirm compares the submitted code with the pending one and, on match,
// marks the account confirmed and clears the code. The compare-and-clear runs
// in one transaction, so a code can be consumed only once.
func (s *VerificationService) Confirm(ctx context.Context, authKey, submitted string) error {
	var username string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		user, err := repo.GetByAuthKey(ctx, authKey)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrInvalidAuthKey
			}
			return err
		}
		username = user.Username

		// No pending code: never sent, or already confirmed.
		if !user.VerificationCode.Valid || user.VerificationCode.String != submitted {
			return common.ErrInvalidVerificationCode
		}

		return repo.Confirm(ctx, authKey)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "email confirmed", "username", username)
	return nil
}

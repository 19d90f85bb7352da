// Package httpapi is the thin HTTP edge of the service. It maps requests
// onto the account and verification services and serializes their results;
// all rules live below it.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avolkovs/accountd/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Accounts is the signup/login surface the handlers call.
type Accounts interface {
	Signup(ctx context.Context, name, email, username, password string) (string, error)
	Login(ctx context.Context, identifier, password string) (string, error)
}

// Verification is the email-ownership surface the handlers call.
type Verification interface {
	Send(ctx context.Context, authKey string) error
	Confirm(ctx context.Context, authKey, code string) error
}

type Server struct {
	address        string
	requestTimeout time.Duration
	accounts       Accounts
	verification   Verification
	logger         logging.Logger
}

func NewServer(address string, requestTimeout time.Duration, accounts Accounts, verification Verification, logger logging.Logger) *Server {
	return &Server{
		address:        address,
		requestTimeout: requestTimeout,
		accounts:       accounts,
		verification:   verification,
		logger:         logger.With("module", "httpapi"),
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Get("/login", s.handleLogin)
		r.Route("/verify", func(r chi.Router) {
			r.Post("/send", s.handleSend)
			r.Post("/confirm", s.handleConfirm)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

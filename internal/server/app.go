// Package server initializes and runs the account server. It opens the
// database, applies migrations, wires the services together and starts the
// HTTP endpoint, shutting everything down cleanly on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/avolkovs/accountd/internal/logging"
	"github.com/avolkovs/accountd/internal/server/config"
	"github.com/avolkovs/accountd/internal/server/httpapi"
	"github.com/avolkovs/accountd/internal/server/mail"
	"github.com/avolkovs/accountd/internal/server/repositories/repomanager"
	"github.com/avolkovs/accountd/internal/server/services"
)

type App struct {
	config              *config.Config
	logger              logging.Logger
	db                  *sql.DB
	accountService      *services.AccountService
	verificationService *services.VerificationService
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	mailConfig, err := mail.LoadConfig()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("mail config error: %w", err)
	}
	sender := mail.NewSMTPSender(mailConfig, logger)

	as := services.NewAccountService(db, repos, logger)
	vs := services.NewVerificationService(db, repos, sender, c.MailSendTimeout, logger)

	return &App{config: c, logger: logger, db: db, accountService: as, verificationService: vs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.config.RequestTimeout,
		app.accountService, app.verificationService, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}

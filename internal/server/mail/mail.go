// Package mail dispatches messages over SMTP. Transport settings come from
// the environment; account credentials (EMAIL_USERNAME / EMAIL_PASSWORD) are
// looked up on every send so a credential rotation does not require a
// restart. The connection always negotiates STARTTLS.
package mail

import (
	"context"
	"os"
	"unicode/utf8"

	"github.com/avolkovs/accountd/internal/common"
	"github.com/avolkovs/accountd/internal/logging"
	"github.com/caarlos0/env/v6"
	gomail "github.com/wneessen/go-mail"
)

const (
	envEmailUsername = "EMAIL_USERNAME"
	envEmailPassword = "EMAIL_PASSWORD"
)

// Config holds the SMTP relay settings.
type Config struct {
	Host string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port int    `env:"SMTP_PORT" envDefault:"587"`
}

// LoadConfig reads the relay settings from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, common.InvalidEnvVariable(err.Error())
	}
	return cfg, nil
}

// Message is one outbound mail.
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	Body      string
}

// Sender dispatches a message through an external transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends mail through an SMTP relay with PLAIN auth over STARTTLS.
type SMTPSender struct {
	cfg    Config
	logger logging.Logger
}

func NewSMTPSender(cfg Config, logger logging.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, logger: logger.With("module", "mail")}
}

// Send dispatches msg. The caller bounds the attempt through ctx; transport
// failures surface as InternalEmailError and leave nothing persisted.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	username, password, err := credentials()
	if err != nil {
		return err
	}

	m := gomail.NewMsg()
	if err := m.From(username); err != nil {
		return common.EmailError(err)
	}
	if err := m.AddToFormat(msg.ToName, msg.ToAddress); err != nil {
		return common.EmailError(err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return common.EmailError(err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		s.logger.Error(ctx, "smtp send failed", "host", s.cfg.Host, "error", err)
		return common.EmailError(err)
	}

	s.logger.Info(ctx, "mail dispatched", "to", msg.ToAddress, "subject", msg.Subject)
	return nil
}

// credentials resolves the SMTP account from the environment. Absent
// variables map to MissingEnvVariable; values that are not valid UTF-8 map
// to InvalidEnvVariable.
func credentials() (string, string, error) {
	username, ok := os.LookupEnv(envEmailUsername)
	if !ok {
		return "", "", common.MissingEnvVariable(envEmailUsername)
	}
	if !utf8.ValidString(username) {
		return "", "", common.InvalidEnvVariable(envEmailUsername)
	}

	password, ok := os.LookupEnv(envEmailPassword)
	if !ok {
		return "", "", common.MissingEnvVariable(envEmailPassword)
	}
	if !utf8.ValidString(password) {
		return "", "", common.InvalidEnvVariable(envEmailPassword)
	}

	return username, password, nil
}

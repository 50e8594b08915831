// Package mailer delivers the briefing over an authenticated SMTP session
// upgraded with STARTTLS.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	mail "gopkg.in/mail.v2"
)

const (
	DefaultHost = "smtp.gmail.com"
	DefaultPort = 587

	// Delivered is reported when the server accepted the message.
	Delivered     = "Email enviado com sucesso!"
	failureFormat = "Falha ao enviar e-mail. Erro: %v"
)

// ErrNoSender is returned when no sender address is configured.
var ErrNoSender = errors.New("sender address is empty")

// SMTPConfig describes the relay and the credentials used to log in.
// The sender address doubles as the login username.
type SMTPConfig struct {
	Host     string
	Port     int
	Password string
	Timeout  time.Duration
}

// Message is a single plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender transmits composed messages. *mail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*mail.Message) error
}

// DialerFunc builds a Sender for the given login.
type DialerFunc func(cfg SMTPConfig, username string) Sender

// Option configures a Mailer.
type Option func(*Mailer)

// WithDialer overrides how SMTP sessions are opened (primarily for tests).
func WithDialer(fn DialerFunc) Option {
	return func(m *Mailer) {
		m.dial = fn
	}
}

// Mailer sends messages through one SMTP relay. It never retries.
type Mailer struct {
	cfg    SMTPConfig
	dial   DialerFunc
	logger *zap.Logger
}

// New builds a Mailer. Zero host and port fall back to the Gmail relay.
func New(cfg SMTPConfig, logger *zap.Logger, opts ...Option) *Mailer {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Mailer{
		cfg:    cfg,
		dial:   newDialer,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func newDialer(cfg SMTPConfig, username string) Sender {
	d := mail.NewDialer(cfg.Host, cfg.Port, username, cfg.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	if cfg.Timeout > 0 {
		d.Timeout = cfg.Timeout
	}
	return d
}

// Send logs in as msg.From and transmits msg. Cancelling ctx returns
// immediately; the abandoned session still ends within the dial timeout.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		return ErrNoSender
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sender := m.dial(m.cfg, msg.From)
	composed := Compose(msg)

	done := make(chan error, 1)
	go func() {
		done <- sender.DialAndSend(composed)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send via %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send via %s:%d: %w", m.cfg.Host, m.cfg.Port, ctx.Err())
	}
}

// Deliver sends msg and reports the outcome as a user-facing sentence.
func (m *Mailer) Deliver(ctx context.Context, msg Message) string {
	if err := m.Send(ctx, msg); err != nil {
		m.logger.Error("failed to send email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return fmt.Sprintf(failureFormat, err)
	}

	m.logger.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return Delivered
}

// Compose converts msg into a plain-text MIME message.
func Compose(msg Message) *mail.Message {
	out := mail.NewMessage()
	out.SetHeader("From", msg.From)
	out.SetHeader("To", msg.To)
	out.SetHeader("Subject", msg.Subject)
	out.SetBody("text/plain", msg.Body)
	return out
}

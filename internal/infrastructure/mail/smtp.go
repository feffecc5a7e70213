package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"

	"EdTechDigest/internal/config"
	"EdTechDigest/internal/domain"
	"EdTechDigest/internal/ports"
)

// ErrMissingCredential is returned when a send is attempted without GMAIL_APP_PASSWORD.
var ErrMissingCredential = errors.New("mail credential is not set (GMAIL_APP_PASSWORD)")

// SMTPMailer sends digests through an authenticated SMTP relay over implicit TLS.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password config.Secret
	timeout  time.Duration
	logger   *slog.Logger

	// tlsConfig replaces go-mail's default (ServerName = host) when set.
	tlsConfig *tls.Config
}

var _ ports.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer registers relay settings and credentials.
func NewSMTPMailer(cfg config.MailConfig, log *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		timeout:  cfg.Timeout,
		logger:   log,
	}
}

// Ready checks the relay settings and credential without dialing.
func (m *SMTPMailer) Ready() error {
	if m.password == "" {
		return ErrMissingCredential
	}
	if m.host == "" || m.port <= 0 {
		return fmt.Errorf("smtp mailer misconfigured")
	}
	return nil
}

// Send opens one session, delivers one message and closes the session.
func (m *SMTPMailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	if err := m.Ready(); err != nil {
		return err
	}

	message, err := buildMessage(msg)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(m.port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.username),
		gomail.WithPassword(m.password.Reveal()),
	}
	if m.timeout > 0 {
		opts = append(opts, gomail.WithTimeout(m.timeout))
	}
	if m.tlsConfig != nil {
		opts = append(opts, gomail.WithTLSConfig(m.tlsConfig))
	}

	client, err := gomail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if m.logger != nil {
		m.logger.Info("sending digest", "host", m.host, "port", m.port, "to", msg.To)
	}
	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("smtp send via %s:%d: %w", m.host, m.port, err)
	}

	return nil
}

// buildMessage renders a multipart/alternative message with a plain-text part and the HTML digest.
func buildMessage(msg domain.EmailMessage) (*gomail.Msg, error) {
	message := gomail.NewMsg()
	if err := message.From(msg.From); err != nil {
		return nil, fmt.Errorf("sender address: %w", err)
	}
	if err := message.To(msg.To); err != nil {
		return nil, fmt.Errorf("recipient address: %w", err)
	}
	message.Subject(msg.Subject)
	message.SetDate()

	if msg.TextBody != "" {
		message.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
		message.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLBody)
	} else {
		message.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
	}

	return message, nil
}

package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/mail"
	"net/smtp"
	"time"

	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
)

// ErrNoStartTLS релей не предлагает STARTTLS, а без шифрования отправка запрещена.
var ErrNoStartTLS = errors.New("smtp server does not support STARTTLS")

const defaultDialTimeout = 10 * time.Second

// Transport открывает аутентифицированные сессии с релеем из config.SMTP.
type Transport struct {
	addr       string
	host       string
	auth       smtp.Auth
	from       mail.Address
	requireTLS bool
	timeout    time.Duration
	log        *slog.Logger
}

// NewTransport создает транспорт. Без smtp_user сессия открывается без AUTH,
// так работают локальные релеи вроде MailHog.
func NewTransport(cfg config.SMTP, log *slog.Logger) *Transport {
	t := &Transport{
		addr:       net.JoinHostPort(cfg.SMTPHost, cfg.SMTPPort),
		host:       cfg.SMTPHost,
		from:       mail.Address{Name: cfg.SMTPFrom, Address: cfg.SMTPUser},
		requireTLS: cfg.SMTPRequireTLS,
		timeout:    cfg.SMTPDialTimeout,
		log:        log,
	}
	if cfg.SMTPSender != "" {
		t.from.Address = cfg.SMTPSender
	}
	if t.timeout <= 0 {
		t.timeout = defaultDialTimeout
	}
	if cfg.SMTPUser != "" {
		t.auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return t
}

// From адрес и отображаемое имя отправителя.
func (t *Transport) From() mail.Address {
	return t.from
}

// Connect устанавливает соединение, поднимает TLS и проходит аутентификацию.
// Дедлайн ctx распространяется на весь обмен с сервером.
func (t *Transport) Connect(ctx context.Context) (Client, error) {
	const op = "smtp.Connect"
	log := t.log.With(slog.String("op", op), slog.String("addr", t.addr))

	dialer := net.Dialer{Timeout: t.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		log.Error("failed to dial SMTP server", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		_ = conn.Close()
		log.Error("failed to create SMTP client", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := t.handshake(client); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			log.Error("failed to close client", sl.Err(closeErr))
		}
		log.Error("smtp handshake failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return client, nil
}

func (t *Transport) handshake(c *smtp.Client) error {
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: t.host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("start tls: %w", err)
		}
	} else if t.requireTLS {
		return ErrNoStartTLS
	}

	if t.auth == nil {
		return nil
	}
	if ok, _ := c.Extension("AUTH"); !ok {
		return errors.New("smtp server does not support AUTH")
	}
	if err := c.Auth(t.auth); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

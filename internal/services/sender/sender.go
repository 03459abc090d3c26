// Package sender доставляет письма из очереди почты по SMTP.
package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/lib/smtp"
	"github.com/magabrotheeeer/storefront/internal/metrics"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// ErrMalformed сообщение из очереди не удалось разобрать; повторять бессмысленно.
var ErrMalformed = errors.New("malformed email message")

// SenderService рендерит письма и отправляет их через SMTP-транспорт.
type SenderService struct {
	transport smtp.Connector
	log       *slog.Logger
	metrics   *metrics.Metrics
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.Connector, m *metrics.Metrics) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
		metrics:   m,
	}
}

// Handle обрабатывает одно сообщение из очереди почты.
func (s *SenderService) Handle(ctx context.Context, body []byte) error {
	const op = "sender.Handle"

	var email models.Email
	if err := json.Unmarshal(body, &email); err != nil {
		s.log.Error("failed to unmarshal message body", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w: %v", op, ErrMalformed, err)
	}
	if email.To == "" {
		return fmt.Errorf("%s: %w: empty recipient", op, ErrMalformed)
	}

	l, err := render(email, s.transport.From().Name)
	if err != nil {
		s.log.Error("failed to render email", slog.String("op", op), slog.String("kind", string(email.Kind)), sl.Err(err))
		return fmt.Errorf("%s: %w: %v", op, ErrMalformed, err)
	}

	if err := s.sendEmail(ctx, []string{email.To}, l); err != nil {
		s.metrics.Notification(string(email.Kind), "smtp_failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Notification(string(email.Kind), "delivered")
	return nil
}

func (s *SenderService) sendEmail(ctx context.Context, to []string, l letter) error {
	sender := s.transport.From()
	from := sender.String()

	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", l.subject),
		"MIME-Version: 1.0",
		"Content-Type: " + l.contentType,
		"",
		l.body,
	}, "\r\n")

	client, err := s.transport.Connect(ctx)
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(sender.Address); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", sender.Address), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}

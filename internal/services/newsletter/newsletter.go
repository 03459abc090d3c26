// Package newsletter содержит подписку на рассылку и её отправку подписчикам.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

var (
	errAlreadySubscribed = common.E(common.ErrAlreadyExists, "User is already subscribed")
	errEmailRequired     = common.E(common.ErrValidation, "Email is required")
	errSubjectContent    = common.E(common.ErrValidation, "Subject and content required")
)

// Repository описывает контракт хранилища подписчиков.
type Repository interface {
	CreateSubscriber(ctx context.Context, email string) (*models.Subscriber, error)
	ListSubscribers(ctx context.Context) ([]models.Subscriber, error)
}

// Publisher публикует письмо в очередь почты.
type Publisher interface {
	Publish(ctx context.Context, message any) error
}

// Service управляет рассылкой.
type Service struct {
	repo      Repository
	publisher Publisher
	log       *slog.Logger
}

// New создаёт сервис рассылки.
func New(repo Repository, publisher Publisher, log *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, log: log}
}

// Subscribe добавляет адрес в список рассылки.
func (s *Service) Subscribe(ctx context.Context, email string) error {
	const op = "newsletter.Subscribe"
	if email == "" {
		return fmt.Errorf("%s: %w", op, errEmailRequired)
	}
	if _, err := s.repo.CreateSubscriber(ctx, email); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			err = errAlreadySubscribed
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Send ставит письмо в очередь для каждого подписчика и возвращает число
// поставленных писем. Ошибки публикации не прерывают рассылку, а
// возвращаются вместе после обхода всех подписчиков.
func (s *Service) Send(ctx context.Context, subject, content string) (int, error) {
	const op = "newsletter.Send"
	if subject == "" || content == "" {
		return 0, fmt.Errorf("%s: %w", op, errSubjectContent)
	}

	subscribers, err := s.repo.ListSubscribers(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var (
		sent int
		errs []error
	)
	for _, sub := range subscribers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		err := s.publisher.Publish(ctx, models.Email{
			Kind:    models.EmailNewsletter,
			To:      sub.Email,
			Subject: subject,
			Content: content,
		})
		if err != nil {
			s.log.Error("failed to publish newsletter", slog.String("to", sub.Email), sl.Err(err))
			errs = append(errs, err)
			continue
		}
		sent++
	}
	s.log.Info("newsletter queued", slog.Int("sent", sent), slog.Int("subscribers", len(subscribers)))

	if len(errs) > 0 {
		return sent, fmt.Errorf("%s: %w", op, errors.Join(errs...))
	}
	return sent, nil
}

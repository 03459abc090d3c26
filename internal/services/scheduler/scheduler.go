// Package scheduler периодически запускает рассылку письма всем подписчикам.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
)

// Broadcaster ставит письмо в очередь для всех подписчиков.
type Broadcaster interface {
	Send(ctx context.Context, subject, content string) (int, error)
}

// SchedulerService раз в interval рассылает письмо с темой subject и текстом content.
type SchedulerService struct {
	broadcaster Broadcaster
	log         *slog.Logger
	interval    time.Duration
	subject     string
	content     string
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(b Broadcaster, log *slog.Logger, interval time.Duration, subject, content string) *SchedulerService {
	return &SchedulerService{
		broadcaster: b,
		log:         log,
		interval:    interval,
		subject:     subject,
		content:     content,
	}
}

// Run блокируется до отмены ctx. Первая рассылка уходит через interval после старта.
func (s *SchedulerService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("newsletter scheduler started", slog.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcast(ctx)
		}
	}
}

func (s *SchedulerService) broadcast(ctx context.Context) {
	s.log.Info("starting scheduled newsletter")
	sent, err := s.broadcaster.Send(ctx, s.subject, s.content)
	if err != nil {
		s.log.Error("scheduled newsletter failed", slog.Int("sent", sent), sl.Err(err))
		return
	}
	s.log.Info("scheduled newsletter queued", slog.Int("sent", sent))
}

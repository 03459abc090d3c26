// Package notification доставляет письма в брокер в фоне, не блокируя запросы.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/metrics"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Publisher отправляет сообщение в брокер.
type Publisher interface {
	Publish(ctx context.Context, message any) error
}

// Options настройки диспетчера.
type Options struct {
	QueueSize  int
	Workers    int
	MaxRetries uint64
	RetryDelay time.Duration
}

// Dispatcher ограниченная очередь писем с пулом воркеров.
// Переполнение очереди приводит к потере письма, запрос при этом не блокируется.
type Dispatcher struct {
	publisher Publisher
	log       *slog.Logger
	metrics   *metrics.Metrics
	opts      Options

	mu     sync.RWMutex
	closed bool
	queue  chan models.Email

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher создаёт диспетчер и запускает воркеры.
func NewDispatcher(publisher Publisher, log *slog.Logger, m *metrics.Metrics, opts Options) *Dispatcher {
	if opts.QueueSize < 1 {
		opts.QueueSize = 1
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		publisher: publisher,
		log:       log.With(slog.String("component", "notification")),
		metrics:   m,
		opts:      opts,
		queue:     make(chan models.Email, opts.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}

	for range opts.Workers {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Enqueue ставит письмо в очередь. Возвращает false, если письмо отброшено.
func (d *Dispatcher) Enqueue(email models.Email) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("dispatcher closed, email dropped", slog.String("kind", string(email.Kind)))
		d.metrics.Notification(string(email.Kind), "dropped")
		return false
	}

	select {
	case d.queue <- email:
		d.metrics.QueueDepth(len(d.queue))
		return true
	default:
		d.log.Warn("notification queue is full, email dropped", slog.String("kind", string(email.Kind)))
		d.metrics.Notification(string(email.Kind), "dropped")
		return false
	}
}

// Close перестаёт принимать письма и ждёт, пока воркеры разберут очередь.
// Если ctx истекает раньше, оставшиеся попытки прерываются.
func (d *Dispatcher) Close(ctx context.Context) error {
	const op = "notification.Dispatcher.Close"

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for email := range d.queue {
		d.metrics.QueueDepth(len(d.queue))
		d.deliver(email)
	}
}

func (d *Dispatcher) deliver(email models.Email) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = d.opts.RetryDelay
	policy.MaxElapsedTime = 0

	attempt := 0
	operation := func() error {
		attempt++
		return d.publisher.Publish(d.ctx, email)
	}
	notify := func(err error, next time.Duration) {
		d.log.Warn("publish failed, retrying",
			slog.String("kind", string(email.Kind)),
			slog.Int("attempt", attempt),
			slog.Duration("next", next),
			sl.Err(err))
	}

	err := backoff.RetryNotify(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, d.opts.MaxRetries), d.ctx), notify)
	if err != nil {
		d.log.Error("email not delivered to broker", slog.String("kind", string(email.Kind)), sl.Err(err))
		d.metrics.Notification(string(email.Kind), "failed")
		return
	}
	d.metrics.Notification(string(email.Kind), "published")
}

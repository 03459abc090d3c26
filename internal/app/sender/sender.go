// Package sender собирает потребителя очереди почты.
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/lib/smtp"
	"github.com/magabrotheeeer/storefront/internal/metrics"
	senderservice "github.com/magabrotheeeer/storefront/internal/services/sender"
)

// Handler обрабатывает тело одного сообщения.
type Handler interface {
	Handle(ctx context.Context, body []byte) error
}

// App читает очередь почты и отправляет письма по SMTP.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService Handler
	metricsServer *http.Server
	workers       int
	logger        *slog.Logger
}

// New подключается к брокеру и готовит SMTP-транспорт.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.sender.New"

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetMailQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.NewSenderService(logger, transport, m)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		metricsServer: &http.Server{Addr: cfg.SenderMetrics, Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		workers:       cfg.NotifyWorkers,
		logger:        logger,
	}, nil
}

// Run потребляет очередь до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", sl.Err(err))
		}
	}()

	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.MailQueue.QueueName, a.workers, a.handle)
	if err != nil {
		a.logger.Error("failed to start mail consumer", sl.Err(err))
		a.close()
		return err
	}

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")
	a.close()
	return nil
}

// deliveryTimeout ограничивает обмен с SMTP-релеем для одного письма.
const deliveryTimeout = time.Minute

// handle подтверждает битые сообщения, чтобы они не возвращались в очередь.
func (a *App) handle(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	err := a.senderService.Handle(ctx, body)
	if errors.Is(err, senderservice.ErrMalformed) {
		a.logger.Warn("dropping malformed message", sl.Err(err))
		return nil
	}
	return err
}

func (a *App) close() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("failed to stop metrics server", sl.Err(err))
	}
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}

// Package storefront собирает HTTP-приложение магазина из хранилища, кэша,
// брокера сообщений и сервисов предметной области.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/lib/jwt"
	"github.com/magabrotheeeer/storefront/internal/lib/password"
	"github.com/magabrotheeeer/storefront/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/metrics"
	"github.com/magabrotheeeer/storefront/internal/migrations"
	"github.com/magabrotheeeer/storefront/internal/paymentprovider"
	adminservice "github.com/magabrotheeeer/storefront/internal/services/admin"
	authservice "github.com/magabrotheeeer/storefront/internal/services/auth"
	cartservice "github.com/magabrotheeeer/storefront/internal/services/cart"
	catalogservice "github.com/magabrotheeeer/storefront/internal/services/catalog"
	newsletterservice "github.com/magabrotheeeer/storefront/internal/services/newsletter"
	"github.com/magabrotheeeer/storefront/internal/services/notification"
	paymentservice "github.com/magabrotheeeer/storefront/internal/services/payment"
	"github.com/magabrotheeeer/storefront/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер магазина и ресурсы, которые нужно закрыть при остановке.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	cache      *cache.Cache
	conn       *amqp.Connection
	ch         *amqp.Channel
	dispatcher *notification.Dispatcher
}

// New подключается к зависимостям, применяет миграции и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "storefront.New"

	db, err := repository.New(cfg.StorageConnectionString, cfg.StorageQueryTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetMailQueues())
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	publisher := rabbitmq.NewPublisher(ch, rabbitmq.MailExchange, rabbitmq.MailQueue.RoutingKey)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	dispatcher := notification.NewDispatcher(publisher, logger, m, notification.Options{
		QueueSize:  cfg.NotifyQueueSize,
		Workers:    cfg.NotifyWorkers,
		MaxRetries: cfg.NotifyMaxRetries,
		RetryDelay: cfg.NotifyRetryDelay,
	})

	authService := authservice.NewService(authservice.Deps{
		Users:    db,
		Cache:    cacheRedis,
		Hasher:   password.Hasher{},
		Tokens:   jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL),
		Notifier: dispatcher,
		Log:      logger,
		Metrics:  m,
	}, cfg.AuthPolicy)

	services := Services{
		Auth:       authService,
		Admin:      adminservice.New(db, cacheRedis, logger),
		Catalog:    catalogservice.New(db, cacheRedis, logger),
		Cart:       cartservice.New(db),
		Newsletter: newsletterservice.New(db, publisher, logger),
		Payment: paymentservice.New(db,
			paymentprovider.NewClient(cfg.PaymentAPIURL, cfg.PaymentSecretKey),
			cacheRedis, logger, cfg.ClientURL, cfg.PaymentCurrency),
		Users:   db,
		Storage: db.DB,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, m, reg, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		cache:      cacheRedis,
		conn:       conn,
		ch:         ch,
		dispatcher: dispatcher,
	}, nil
}

// Run обслуживает запросы до отмены ctx, затем дожидается активных запросов
// и писем в очереди.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
		a.logger.Info("shutting down HTTP server gracefully")
		runErr = a.server.Shutdown(timeoutCtx)
	}

	if err := a.dispatcher.Close(timeoutCtx); err != nil {
		a.logger.Warn("notification queue was not drained", sl.Err(err))
	}
	a.close()
	return runErr
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}

package storefront

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация спецификации swagger.
	_ "github.com/magabrotheeeer/storefront/docs"

	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/admin/admins"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/admin/assignadmin"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/admin/ban"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/admin/deletesubscriber"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/admin/revokeadmin"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/admin/users"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/deleteaccount"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/forgotpassword"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/verifyotp"
	cartadd "github.com/magabrotheeeer/storefront/internal/http/handlers/cart/add"
	cartget "github.com/magabrotheeeer/storefront/internal/http/handlers/cart/get"
	cartremove "github.com/magabrotheeeer/storefront/internal/http/handlers/cart/remove"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/health"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/newsletter/send"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/newsletter/subscribe"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/payment/checkout"
	productadd "github.com/magabrotheeeer/storefront/internal/http/handlers/product/add"
	productlist "github.com/magabrotheeeer/storefront/internal/http/handlers/product/list"
	productpopular "github.com/magabrotheeeer/storefront/internal/http/handlers/product/popular"
	productremove "github.com/magabrotheeeer/storefront/internal/http/handlers/product/remove"
	productupdate "github.com/magabrotheeeer/storefront/internal/http/handlers/product/update"
	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/metrics"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/payment"
)

// AuthService операции жизненного цикла учётных данных.
type AuthService interface {
	middlewarectx.Authenticator
	register.Service
	login.Service
	forgotpassword.Service
	verifyotp.Service
	resetpassword.Service
	deleteaccount.Service
}

// AdminService управление ролями, пользователями и подписчиками.
type AdminService interface {
	assignadmin.Service
	revokeadmin.Service
	ban.Service
	users.Service
	admins.Service
	deletesubscriber.Service
}

// CatalogService операции каталога товаров.
type CatalogService interface {
	productlist.Service
	productadd.Service
	productupdate.Service
	productremove.Service
	productpopular.Service
}

// CartService операции корзины.
type CartService interface {
	cartget.Service
	cartadd.Service
	cartremove.Service
	me.Service
}

// NewsletterService подписка и рассылка.
type NewsletterService interface {
	subscribe.Service
	send.Service
}

// PaymentService оформление оплаты.
type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, userID string, in payment.CheckoutInput) (string, error)
}

// UserReader читает актуальную роль пользователя из хранилища.
type UserReader interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Services набор сервисов, за которыми стоят маршруты.
type Services struct {
	Auth       AuthService
	Admin      AdminService
	Catalog    CatalogService
	Cart       CartService
	Newsletter NewsletterService
	Payment    PaymentService
	Users      UserReader
	Storage    health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, m *metrics.Metrics,
	gatherer prometheus.Gatherer, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware(m),
		middlewarectx.RateLimitMiddleware(logger, cfg.RequestLimit, cfg.RequestBurst),
	)

	secure := cfg.SecureCookie
	authenticated := middlewarectx.JWTMiddleware(s.Auth, logger)
	adminOnly := middlewarectx.AdminOnly(s.Users, logger)

	r.Get("/", health.Root)
	r.Get("/health", health.New(logger, s.Storage).ServeHTTP)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", register.New(logger, s.Auth, secure).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth, secure).ServeHTTP)
		r.Post("/forgot-password", forgotpassword.New(logger, s.Auth).ServeHTTP)
		r.Post("/verify-otp", verifyotp.New(logger, s.Auth).ServeHTTP)
		r.Post("/reset-password", resetpassword.New(logger, s.Auth).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Delete("/delete", deleteaccount.New(logger, s.Auth, secure).ServeHTTP)
			r.Get("/me", me.New(logger, s.Cart).ServeHTTP)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticated, adminOnly)
		r.Post("/assign-admin", assignadmin.New(logger, s.Admin).ServeHTTP)
		r.Post("/revoke-admin", revokeadmin.New(logger, s.Admin).ServeHTTP)
		r.Post("/ban", ban.New(logger, s.Admin).ServeHTTP)
		r.Get("/users", users.New(logger, s.Admin).ServeHTTP)
		r.Get("/admins", admins.New(logger, s.Admin).ServeHTTP)
		r.Delete("/delete-subscriber", deletesubscriber.New(logger, s.Admin).ServeHTTP)
	})

	r.Route("/product", func(r chi.Router) {
		r.Get("/", productlist.New(logger, s.Catalog).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(authenticated, adminOnly)
			r.Post("/add", productadd.New(logger, s.Catalog).ServeHTTP)
			r.Put("/update/{id}", productupdate.New(logger, s.Catalog).ServeHTTP)
			r.Delete("/delete/{id}", productremove.New(logger, s.Catalog).ServeHTTP)
			r.Post("/popular/{id}", productpopular.New(logger, s.Catalog).ServeHTTP)
		})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", cartget.New(logger, s.Cart).ServeHTTP)
		r.Post("/add", cartadd.New(logger, s.Cart).ServeHTTP)
		r.Delete("/{cartItemId}", cartremove.New(logger, s.Cart).ServeHTTP)
	})

	r.Route("/payment", func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/create-checkout-session", checkout.New(logger, s.Payment).ServeHTTP)
	})

	r.Route("/newsletter", func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/subscribe", subscribe.New(logger, s.Newsletter).ServeHTTP)
		r.With(adminOnly).Post("/send-newsletter", send.New(logger, s.Newsletter).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

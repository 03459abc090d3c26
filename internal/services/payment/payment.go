// Package payment оформляет оплату корзины через платёжного провайдера.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/paymentprovider"
)

var (
	errUserNotFound = common.E(common.ErrNotFound, "User not found")
	errNoItems      = common.E(common.ErrValidation, "items are required")
)

// UserRepository читает пользователя и сохраняет ссылку на клиента провайдера.
type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	SetPaymentCustomerID(ctx context.Context, id, customerID string) error
}

// Provider платёжный провайдер.
type Provider interface {
	CreateCustomer(ctx context.Context, p paymentprovider.CustomerParams) (*paymentprovider.Customer, error)
	CreateCheckoutSession(ctx context.Context, p paymentprovider.CheckoutSessionParams) (*paymentprovider.CheckoutSession, error)
}

// Cache сбрасывает закэшированную запись пользователя.
type Cache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// CheckoutInput содержимое заказа.
type CheckoutInput struct {
	CustomerEmail string
	Items         []models.CheckoutItem
}

// Service создаёт страницы оплаты.
type Service struct {
	repo      UserRepository
	provider  Provider
	cache     Cache
	log       *slog.Logger
	clientURL string
	currency  string
}

// New создаёт платёжный сервис. clientURL — адрес витрины для возврата после оплаты.
func New(repo UserRepository, provider Provider, cache Cache, log *slog.Logger, clientURL, currency string) *Service {
	if currency == "" {
		currency = "usd"
	}
	return &Service{
		repo:      repo,
		provider:  provider,
		cache:     cache,
		log:       log,
		clientURL: strings.TrimRight(clientURL, "/"),
		currency:  currency,
	}
}

// CreateCheckoutSession при необходимости заводит клиента у провайдера и
// возвращает URL страницы оплаты.
func (s *Service) CreateCheckoutSession(ctx context.Context, userID string, in CheckoutInput) (string, error) {
	const op = "payment.CreateCheckoutSession"

	if len(in.Items) == 0 {
		return "", fmt.Errorf("%s: %w", op, errNoItems)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			err = errUserNotFound
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if user.PaymentCustomerID == nil || *user.PaymentCustomerID == "" {
		customer, err := s.provider.CreateCustomer(ctx, paymentprovider.CustomerParams{
			Email:  user.Email,
			Name:   user.Name,
			UserID: user.ID,
		})
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if err := s.repo.SetPaymentCustomerID(ctx, user.ID, customer.ID); err != nil {
			// клиент у провайдера уже создан, оплату не блокируем
			s.log.Error("failed to save payment customer id",
				slog.String("op", op), slog.String("user_id", user.ID), sl.Err(err))
		} else if err := s.cache.Invalidate(ctx, cache.UserKey(user.ID)); err != nil {
			s.log.Warn("failed to invalidate user cache",
				slog.String("op", op), slog.String("user_id", user.ID), sl.Err(err))
		}
	}

	items := make([]paymentprovider.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, paymentprovider.LineItem{Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}

	session, err := s.provider.CreateCheckoutSession(ctx, paymentprovider.CheckoutSessionParams{
		Items:         items,
		Currency:      s.currency,
		CustomerEmail: in.CustomerEmail,
		SuccessURL:    s.clientURL + "/success",
		CancelURL:     s.clientURL + "/cancel",
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("checkout session created", slog.String("op", op), slog.String("user_id", user.ID))
	return session.URL, nil
}

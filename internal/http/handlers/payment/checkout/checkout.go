// Package checkout обрабатывает создание сессии оплаты корзины.
package checkout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/payment"
)

// Service создаёт сессию оплаты у провайдера.
type Service interface {
	CreateCheckoutSession(ctx context.Context, userID string, in payment.CheckoutInput) (string, error)
}

// Request представляет запрос на оформление заказа.
type Request struct {
	CustomerEmail string                `json:"customerEmail" validate:"omitempty,email"`
	Items         []models.CheckoutItem `json:"items" validate:"required,min=1,dive"`
}

// Handler обрабатывает запросы на создание сессии оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Создать сессию оплаты
// @Description Создает Stripe Checkout Session для переданных позиций и возвращает ссылку на оплату
// @Tags payment
// @Accept  json
// @Produce  json
// @Param request body Request true "Позиции заказа"
// @Success 200 {object} map[string]any "Ссылка на оплату"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка платежного провайдера"
// @Router /payment/create-checkout-session [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.checkout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, log, err)
		return
	}

	url, err := h.service.CreateCheckoutSession(r.Context(), userID, payment.CheckoutInput{
		CustomerEmail: req.CustomerEmail,
		Items:         req.Items,
	})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	log.Info("checkout session created", slog.String("user_id", userID))

	render.JSON(w, r, response.OK("").With("url", url))
}

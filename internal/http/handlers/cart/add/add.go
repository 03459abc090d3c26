// Package add содержит обработчик добавления товара в корзину.
package add

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
)

// Service добавляет позицию в корзину.
type Service interface {
	Add(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error)
}

// Request тело запроса.
type Request struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// Handler обрабатывает POST /cart/add.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Добавление товара в корзину
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Товар и количество"
// @Success 201 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /cart/add [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.add"

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

	item, err := h.service.Add(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	log.Info("item added to cart", slog.String("user_id", userID), slog.String("product_id", req.ProductID))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OK("Product added to cart").With("item", item))
}

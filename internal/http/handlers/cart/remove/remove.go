// Package remove содержит обработчик удаления позиции из корзины.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/response"
)

// Service удаляет позицию корзины.
type Service interface {
	Remove(ctx context.Context, userID, itemID string) error
}

// Handler обрабатывает DELETE /cart/{cartItemId}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление позиции из корзины
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param cartItemId path string true "ID позиции"
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /cart/{cartItemId} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.remove"

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

	itemID := chi.URLParam(r, "cartItemId")
	if err := h.service.Remove(r.Context(), userID, itemID); err != nil {
		response.Fail(w, r, log, err)
		return
	}
	log.Info("cart item removed", slog.String("user_id", userID), slog.String("item_id", itemID))

	render.JSON(w, r, response.OK("Product removed from cart"))
}

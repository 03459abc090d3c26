// Package me содержит обработчик получения текущего пользователя.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Service читает корзину пользователя. Пустая корзина возвращается пустым списком.
type Service interface {
	Items(ctx context.Context, userID string) ([]models.CartItem, error)
}

// Handler обрабатывает GET /auth/me. Пользователя кладёт JWTMiddleware.
type Handler struct {
	log   *slog.Logger
	carts Service
}

// New создаёт обработчик.
func New(log *slog.Logger, carts Service) *Handler {
	return &Handler{log: log, carts: carts}
}

// ServeHTTP godoc
// @Summary Текущий пользователь и его корзина
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFrom(r.Context())
	if !ok {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	items, err := h.carts.Items(r.Context(), user.ID)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	render.JSON(w, r, response.OK("").With("user", user).With("cart", items))
}

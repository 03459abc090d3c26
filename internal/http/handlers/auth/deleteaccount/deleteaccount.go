// Package deleteaccount содержит обработчик удаления собственного аккаунта.
package deleteaccount

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/http/cookie"
	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/response"
)

// Service удаляет аккаунт.
type Service interface {
	DeleteAccount(ctx context.Context, userID string) error
}

// Handler обрабатывает DELETE /auth/delete. Требует JWTMiddleware.
type Handler struct {
	log          *slog.Logger
	service      Service
	secureCookie bool
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service, secureCookie bool) *Handler {
	return &Handler{log: log, service: service, secureCookie: secureCookie}
}

// ServeHTTP godoc
// @Summary Удаление аккаунта
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auth/delete [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.deleteaccount"

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

	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		response.Fail(w, r, log, err)
		return
	}
	log.Info("account deleted", slog.String("user_id", userID))

	cookie.Clear(w, h.secureCookie)
	render.JSON(w, r, response.OK("User successfully deleted"))
}

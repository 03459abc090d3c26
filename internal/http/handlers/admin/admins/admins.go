// Package admins содержит обработчик получения списка администраторов.
package admins

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Service возвращает список пользователей.
type Service interface {
	Admins(ctx context.Context) ([]models.PublicUser, error)
}

// Handler обрабатывает GET /admin/admins.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список администраторов
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/admins [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.admins"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.service.Admins(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	log.Info("listed", slog.Int("count", len(list)))

	render.JSON(w, r, response.OK("").With("admins", list))
}

// Package assignadmin содержит обработчик назначения пользователя администратором.
package assignadmin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Service меняет роль пользователя.
type Service interface {
	AssignAdmin(ctx context.Context, email string) (*models.PublicUser, error)
}

// Request — email пользователя
type Request struct {
	Email string `json:"email" validate:"required"`
}

// Handler обрабатывает POST /admin/assign-admin.
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
// @Summary Назначение администратора
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Email пользователя"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/assign-admin [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.assignadmin"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, log, err)
		return
	}

	user, err := h.service.AssignAdmin(r.Context(), req.Email)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	log.Info("role changed", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))

	render.JSON(w, r, response.OK("User role updated to ADMIN").With("user", user))
}

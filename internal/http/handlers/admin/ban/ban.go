// Package ban содержит обработчик бана (удаления) пользователя администратором.
package ban

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/response"
)

// Service выполняет операцию по email.
type Service interface {
	Ban(ctx context.Context, email string) error
}

// Request — email
type Request struct {
	Email string `json:"email" validate:"required"`
}

// Handler обрабатывает POST /admin/ban.
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
// @Summary Бан пользователя
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Email"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/ban [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.ban"

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

	if err := h.service.Ban(r.Context(), req.Email); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	render.JSON(w, r, response.OK("User successfully deleted"))
}

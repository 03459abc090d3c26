// Package subscribe содержит обработчик подписки на рассылку.
package subscribe

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

// Service оформляет подписку.
type Service interface {
	Subscribe(ctx context.Context, email string) error
}

// Request тело запроса.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Handler обрабатывает POST /newsletter/subscribe.
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
// @Summary Подписка на рассылку
// @Tags newsletter
// @Accept json
// @Produce json
// @Param request body Request true "Email подписчика"
// @Success 201 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /newsletter/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.newsletter.subscribe"

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

	if err := h.service.Subscribe(r.Context(), req.Email); err != nil {
		response.Fail(w, r, log, err)
		return
	}
	log.Info("subscriber added")

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OK("User successfully subscribed"))
}

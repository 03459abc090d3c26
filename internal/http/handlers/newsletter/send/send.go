// Package send содержит обработчик ручной рассылки письма подписчикам.
package send

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
)

// Service ставит рассылку в очередь.
type Service interface {
	Send(ctx context.Context, subject, content string) (int, error)
}

// Request тело запроса.
type Request struct {
	Subject string `json:"subject" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// Handler обрабатывает POST /newsletter/send-newsletter. Доступен только администраторам.
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
// @Summary Рассылка письма подписчикам
// @Tags newsletter
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Тема и текст"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /newsletter/send-newsletter [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.newsletter.send"

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

	sent, err := h.service.Send(r.Context(), req.Subject, req.Content)
	if err != nil && sent == 0 {
		response.Fail(w, r, log, err)
		return
	}
	if err != nil {
		// часть писем ушла, остальные уже залогированы сервисом
		log.Warn("newsletter partially queued", slog.Int("sent", sent), sl.Err(err))
	}

	render.JSON(w, r, response.OK("Newsletter sent successfully").With("sent", sent))
}

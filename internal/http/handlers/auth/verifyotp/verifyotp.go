// Package verifyotp содержит обработчик проверки одноразового кода.
package verifyotp

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

// Service проверяет код и выдаёт разовый токен сброса пароля.
type Service interface {
	VerifyOTP(ctx context.Context, userID, code string) (string, error)
}

// Request — пользователь и присланный ему код
type Request struct {
	UserID string `json:"userId" validate:"required"`
	OTP    string `json:"otp" validate:"required"`
}

// Handler обрабатывает POST /auth/verify-otp.
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
// @Summary Проверка кода сброса пароля
// @Tags auth
// @Accept json
// @Produce json
// @Param request body Request true "ID пользователя и код"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auth/verify-otp [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verifyotp"

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

	grant, err := h.service.VerifyOTP(r.Context(), req.UserID, req.OTP)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	render.JSON(w, r, response.OK("OTP verified successfully").With("resetToken", grant))
}

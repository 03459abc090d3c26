// Package resetpassword содержит обработчик установки нового пароля.
package resetpassword

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/services/auth"
)

// Service меняет пароль по токену сброса или коду.
type Service interface {
	ResetPassword(ctx context.Context, in auth.ResetInput) error
}

// Request — новый пароль и подтверждение права на сброс: resetToken из
// verify-otp или сам код.
type Request struct {
	UserID     string `json:"userId" validate:"required"`
	Password   string `json:"password" validate:"required"`
	ResetToken string `json:"resetToken,omitempty"`
	OTP        string `json:"otp,omitempty"`
}

// Handler обрабатывает POST /auth/reset-password.
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
// @Summary Сброс пароля
// @Tags auth
// @Accept json
// @Produce json
// @Param request body Request true "Новый пароль"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auth/reset-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetpassword"

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

	err := h.service.ResetPassword(r.Context(), auth.ResetInput{
		UserID:     req.UserID,
		Password:   req.Password,
		ResetToken: req.ResetToken,
		OTP:        req.OTP,
	})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	log.Info("password reset", slog.String("user_id", req.UserID))

	render.JSON(w, r, response.OK("Password reset successfully"))
}

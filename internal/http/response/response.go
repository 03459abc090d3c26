// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков и отображения доменных ошибок
// на HTTP-статусы.
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
)

// Body успешный ответ: статус, сообщение и произвольные поля верхнего уровня,
// например {"status":"OK","message":"...","token":"..."}.
type Body map[string]any

// ErrorResponse — структура ошибки для Swagger-документации и ответов с ошибкой.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// MessageResponse — успешный ответ с одним сообщением, для Swagger-документации.
type MessageResponse struct {
	Status  string `json:"status" example:"OK"`
	Message string `json:"message" example:"done"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"

	internalMessage = "internal error"
)

// OK возвращает успешный ответ с сообщением.
func OK(message string) Body {
	b := Body{"status": StatusOK}
	if message != "" {
		b["message"] = message
	}
	return b
}

// With добавляет поле верхнего уровня.
func (b Body) With(key string, value any) Body {
	b[key] = value
	return b
}

// Error возвращает ответ с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ответ с ошибкой на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s characters long", err.Field(), err.Param()))
		case "numeric":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "len":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be exactly %s characters long", err.Field(), err.Param()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return ErrorResponse{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

var statuses = []struct {
	kind   error
	status int
}{
	{common.ErrValidation, http.StatusBadRequest},
	{common.ErrAlreadyExists, http.StatusBadRequest},
	{common.ErrInvalidCredentials, http.StatusBadRequest},
	{common.ErrExpired, http.StatusBadRequest},
	{common.ErrInvalidCode, http.StatusBadRequest},
	{common.ErrInvalidGrant, http.StatusBadRequest},
	{common.ErrMissingToken, http.StatusBadRequest},
	{common.ErrNotFound, http.StatusNotFound},
	{common.ErrRateLimited, http.StatusTooManyRequests},
	{common.ErrInvalidToken, http.StatusUnauthorized},
	{common.ErrUnauthorized, http.StatusUnauthorized},
	{common.ErrForbidden, http.StatusForbidden},
}

// StatusFor возвращает HTTP-статус и сообщение для клиента.
// Неизвестные ошибки дают 500 без подробностей.
func StatusFor(err error) (int, string) {
	for _, s := range statuses {
		if !errors.Is(err, s.kind) {
			continue
		}
		var de *common.DomainError
		if errors.As(err, &de) && de.Msg != "" {
			return s.status, de.Msg
		}
		return s.status, s.kind.Error()
	}
	return http.StatusInternalServerError, internalMessage
}

// Fail логирует ошибку и отвечает клиенту статусом из StatusFor.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, msg := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", status), sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// InvalidBody отвечает 400 на тело запроса, которое не удалось разобрать.
func InvalidBody(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Info("failed to decode request body", sl.Err(err))
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, Error("invalid request body"))
}

// Invalid отвечает 400 с описанием ошибок валидации.
func Invalid(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Info("validation failed", sl.Err(err))
	render.Status(r, http.StatusBadRequest)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		render.JSON(w, r, ValidationError(verrs))
		return
	}
	render.JSON(w, r, Error("invalid request"))
}

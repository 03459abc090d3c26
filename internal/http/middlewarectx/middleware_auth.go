// Package middlewarectx содержит HTTP middleware: проверку токена сессии,
// проверку роли администратора, ограничение частоты запросов и метрики.
//
// JWTMiddleware берёт токен из заголовка Authorization: Bearer или из cookie
// token, проверяет его и существование пользователя и кладёт пользователя в
// контекст запроса. Ошибки отображаются на статусы через response.StatusFor:
// нет токена - 400, токен невалиден - 401, пользователь удалён - 404.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/storefront/internal/http/cookie"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserID — ключ для ID пользователя в контексте
	UserID Key = "user_id"
	// User — ключ для публичной проекции пользователя в контексте
	User Key = "user"
)

// Authenticator проверяет токен и возвращает его владельца.
type Authenticator interface {
	Identify(ctx context.Context, token string) (*models.PublicUser, error)
}

// JWTMiddleware возвращает middleware, пропускающий только запросы с валидным токеном.
func JWTMiddleware(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, err := auth.Identify(r.Context(), cookie.Token(r))
			if err != nil {
				response.Fail(w, r, log, err)
				return
			}
			ctx := context.WithValue(r.Context(), UserID, user.ID)
			ctx = context.WithValue(ctx, User, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom возвращает ID пользователя, положенный JWTMiddleware.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserID).(string)
	return id, ok && id != ""
}

// UserFrom возвращает пользователя, положенного JWTMiddleware.
func UserFrom(ctx context.Context) (*models.PublicUser, bool) {
	u, ok := ctx.Value(User).(*models.PublicUser)
	return u, ok && u != nil
}

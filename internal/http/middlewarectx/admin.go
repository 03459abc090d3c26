package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// RoleReader читает актуального пользователя из хранилища.
type RoleReader interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// AdminOnly пропускает только ADMIN и OWNER. Роль перечитывается из хранилища,
// кэшированной проекции не доверяем. Ставится после JWTMiddleware.
func AdminOnly(users RoleReader, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminOnly"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			userID, ok := UserIDFrom(r.Context())
			if !ok {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					response.Fail(w, r, log, common.E(common.ErrNotFound, "user not found"))
					return
				}
				response.Fail(w, r, log, err)
				return
			}

			if !user.Role.AtLeast(models.RoleAdmin) {
				log.Info("admin access denied", slog.String("user_id", userID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

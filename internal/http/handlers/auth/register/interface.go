package register

import (
	"context"
	"time"

	"github.com/magabrotheeeer/storefront/internal/services/auth"
)

// Service регистрирует пользователя и выдаёт ему токен.
type Service interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.AuthResult, error)
	TokenTTL() time.Duration
}

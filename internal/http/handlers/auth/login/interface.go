package login

import (
	"context"
	"time"

	"github.com/magabrotheeeer/storefront/internal/services/auth"
)

// Service проверяет учётные данные и выдаёт токен.
type Service interface {
	Login(ctx context.Context, email, password string) (*auth.AuthResult, error)
	TokenTTL() time.Duration
}

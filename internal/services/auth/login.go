package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/common"
)

// Login проверяет пароль и выдаёт новый токен.
//
// Неизвестный email и неверный пароль дают одну и ту же ошибку. После
// MaxFailedLogins неудач подряд вход блокируется на FailedLoginWindow, и хэшер не вызывается.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "auth.Login"

	if email == "" || password == "" {
		return nil, fmt.Errorf("%s: %w", op, common.E(common.ErrValidation, "email and password are required"))
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.Compare(s.dummy(), password)
			s.metrics.AuthEvent("login", "invalid_credentials")
			return nil, fmt.Errorf("%s: %w", op, common.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	failedKey := cache.FailedLoginKey(user.ID)
	failed, err := s.cache.Counter(ctx, failedKey)
	if err != nil {
		s.warnCache(op, failedKey, err)
	}
	if failed >= s.policy.MaxFailedLogins {
		s.metrics.AuthEvent("login", "rate_limited")
		return nil, fmt.Errorf("%s: %w", op, common.ErrRateLimited)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		if _, err := s.cache.Hit(ctx, failedKey, s.policy.FailedLoginWindow); err != nil {
			s.warnCache(op, failedKey, err)
		}
		s.metrics.AuthEvent("login", "invalid_credentials")
		return nil, fmt.Errorf("%s: %w", op, common.ErrInvalidCredentials)
	}

	s.invalidate(ctx, op, failedKey)

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, cache.UserKey(user.ID))

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, cache.SessionKey(user.ID), token, s.policy.SessionCacheTTL); err != nil {
		s.warnCache(op, cache.SessionKey(user.ID), err)
	}

	now := s.now()
	user.LastLoginAt = &now

	s.log.Info("user logged in", slog.String("op", op), slog.String("user_id", user.ID))
	s.metrics.AuthEvent("login", "success")
	return &AuthResult{Token: token, User: user.Public()}, nil
}

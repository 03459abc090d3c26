package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Authenticate проверяет подпись и срок токена и возвращает ID субъекта.
// Существование субъекта проверяют вызывающие операции.
func (s *Service) Authenticate(token string) (string, error) {
	const op = "auth.Authenticate"
	if token == "" {
		return "", fmt.Errorf("%s: %w", op, common.ErrMissingToken)
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return claims.UserID, nil
}

// Identify проверяет токен и текущее существование его субъекта.
func (s *Service) Identify(ctx context.Context, token string) (*models.PublicUser, error) {
	const op = "auth.Identify"
	userID, err := s.Authenticate(token)
	if err != nil {
		return nil, err
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Me возвращает публичную проекцию пользователя, по возможности из кэша.
func (s *Service) Me(ctx context.Context, userID string) (*models.PublicUser, error) {
	const op = "auth.Me"

	key := cache.UserKey(userID)
	var cached models.PublicUser
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.warnCache(op, key, err)
	}
	if found && err == nil {
		return &cached, nil
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, lookupErr(err))
	}
	public := user.Public()
	if err := s.cache.Set(ctx, key, public, s.policy.UserCacheTTL); err != nil {
		s.warnCache(op, key, err)
	}
	return &public, nil
}

// DeleteAccount удаляет аккаунт владельца токена и сбрасывает все его записи в кэше.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	const op = "auth.DeleteAccount"

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, lookupErr(err))
	}
	if err := s.users.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, append(cache.UserKeys(user.ID, user.Email), cache.FailedLoginKey(user.ID))...)

	s.log.Info("account deleted", slog.String("op", op), slog.String("user_id", user.ID))
	s.metrics.AuthEvent("delete_account", "success")
	return nil
}

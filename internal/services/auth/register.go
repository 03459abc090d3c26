package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Register создаёт аккаунт и выдаёт токен.
//
// Порядок проверок: валидация, существующий аккаунт (кэш, затем хранилище),
// защёлка частоты регистраций. Уникальный индекс хранилища остаётся окончательным арбитром.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	const op = "auth.Register"

	if err := s.validatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%s: %w", op, common.E(common.ErrValidation, "email and name are required"))
	}

	exists, err := s.cache.Exists(ctx, cache.EmailKey(in.Email))
	if err != nil {
		s.warnCache(op, cache.EmailKey(in.Email), err)
	}
	if exists {
		s.metrics.AuthEvent("register", "conflict")
		return nil, fmt.Errorf("%s: %w", op, errUserExists)
	}
	_, err = s.users.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		s.metrics.AuthEvent("register", "conflict")
		return nil, fmt.Errorf("%s: %w", op, errUserExists)
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	throttled, err := s.cache.Exists(ctx, cache.RegistrationKey(in.Email))
	if err != nil {
		s.warnCache(op, cache.RegistrationKey(in.Email), err)
	}
	if throttled {
		s.metrics.AuthEvent("register", "rate_limited")
		return nil, fmt.Errorf("%s: %w", op, common.ErrRateLimited)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, models.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			s.metrics.AuthEvent("register", "conflict")
			return nil, fmt.Errorf("%s: %w", op, errUserExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	public := user.Public()
	if err := s.cache.Set(ctx, cache.UserKey(user.ID), public, s.policy.UserCacheTTL); err != nil {
		s.warnCache(op, cache.UserKey(user.ID), err)
	}
	if err := s.cache.Set(ctx, cache.EmailKey(user.Email), user.ID, s.policy.UserCacheTTL); err != nil {
		s.warnCache(op, cache.EmailKey(user.Email), err)
	}
	if _, err := s.cache.Acquire(ctx, cache.RegistrationKey(user.Email), s.policy.RegistrationInterval); err != nil {
		s.warnCache(op, cache.RegistrationKey(user.Email), err)
	}

	s.notify(models.Email{Kind: models.EmailWelcome, To: user.Email, Name: user.Name})

	s.log.Info("user registered", slog.String("op", op), slog.String("user_id", user.ID))
	s.metrics.AuthEvent("register", "success")
	return &AuthResult{Token: token, User: public}, nil
}

func (s *Service) validatePassword(password string) error {
	if utf8.RuneCountInString(password) < s.policy.MinPasswordLength {
		return common.E(common.ErrValidation,
			fmt.Sprintf("password must be at least %d characters long", s.policy.MinPasswordLength))
	}
	return nil
}

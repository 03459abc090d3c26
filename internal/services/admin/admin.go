// Package admin содержит операции администратора над пользователями и подписчиками.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/models"
)

var (
	errUserNotFound       = common.E(common.ErrNotFound, "User not found")
	errAlreadyAdmin       = common.E(common.ErrValidation, "User is already admin")
	errHigherRole         = common.E(common.ErrValidation, "User has higher role than admin")
	errNotAdmin           = common.E(common.ErrValidation, "User is not admin")
	errRevokeOwner        = common.E(common.ErrValidation, "You can't revoke owner")
	errBanOwner           = common.E(common.ErrUnauthorized, "You can't ban the owner")
	errUsersNotFound      = common.E(common.ErrNotFound, "Users not found")
	errAdminsNotFound     = common.E(common.ErrNotFound, "Admins not found")
	errSubscriberNotFound = common.E(common.ErrNotFound, "Subscriber not found")
	errEmailRequired      = common.E(common.ErrValidation, "Email is required")
)

// Repository описывает контракт хранилища для операций администратора.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, role models.Role) ([]models.User, error)
	DeleteSubscriber(ctx context.Context, email string) error
}

// Cache сбрасывает закэшированные записи пользователя.
type Cache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Service выполняет операции администратора.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создаёт сервис администрирования.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// AssignAdmin повышает пользователя до ADMIN.
func (s *Service) AssignAdmin(ctx context.Context, email string) (*models.PublicUser, error) {
	const op = "admin.AssignAdmin"

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	switch user.Role {
	case models.RoleAdmin:
		return nil, fmt.Errorf("%s: %w", op, errAlreadyAdmin)
	case models.RoleOwner:
		return nil, fmt.Errorf("%s: %w", op, errHigherRole)
	}
	return s.setRole(ctx, op, user, models.RoleAdmin)
}

// RevokeAdmin понижает администратора до USER.
func (s *Service) RevokeAdmin(ctx context.Context, email string) (*models.PublicUser, error) {
	const op = "admin.RevokeAdmin"

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	switch user.Role {
	case models.RoleOwner:
		return nil, fmt.Errorf("%s: %w", op, errRevokeOwner)
	case models.RoleAdmin:
	default:
		return nil, fmt.Errorf("%s: %w", op, errNotAdmin)
	}
	return s.setRole(ctx, op, user, models.RoleUser)
}

// Ban удаляет пользователя. Владельца удалить нельзя.
func (s *Service) Ban(ctx context.Context, email string) error {
	const op = "admin.Ban"

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.Role == models.RoleOwner {
		return fmt.Errorf("%s: %w", op, errBanOwner)
	}
	if err := s.repo.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("%s: %w", op, notFound(err, errUserNotFound))
	}
	s.invalidate(ctx, op, user)

	s.log.Info("user banned", slog.String("op", op), slog.String("user_id", user.ID))
	return nil
}

// Users возвращает всех пользователей.
func (s *Service) Users(ctx context.Context) ([]models.PublicUser, error) {
	const op = "admin.Users"
	users, err := s.list(ctx, "", errUsersNotFound)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// Admins возвращает пользователей с ролью ADMIN.
func (s *Service) Admins(ctx context.Context) ([]models.PublicUser, error) {
	const op = "admin.Admins"
	admins, err := s.list(ctx, models.RoleAdmin, errAdminsNotFound)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return admins, nil
}

// DeleteSubscriber удаляет подписчика рассылки.
func (s *Service) DeleteSubscriber(ctx context.Context, email string) error {
	const op = "admin.DeleteSubscriber"
	if email == "" {
		return fmt.Errorf("%s: %w", op, errEmailRequired)
	}
	if err := s.repo.DeleteSubscriber(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", op, notFound(err, errSubscriberNotFound))
	}
	return nil
}

func (s *Service) userByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, errEmailRequired
	}
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err, errUserNotFound)
	}
	return user, nil
}

func (s *Service) setRole(ctx context.Context, op string, user *models.User, role models.Role) (*models.PublicUser, error) {
	updated, err := s.repo.UpdateRole(ctx, user.ID, role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(err, errUserNotFound))
	}
	s.invalidate(ctx, op, user)

	s.log.Info("user role updated",
		slog.String("op", op), slog.String("user_id", user.ID), slog.String("role", string(role)))
	public := updated.Public()
	return &public, nil
}

func (s *Service) list(ctx context.Context, role models.Role, empty error) ([]models.PublicUser, error) {
	users, err := s.repo.ListUsers(ctx, role)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, empty
	}
	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

// invalidate сбрасывает кэш синхронно: следующий запрос увидит новую роль.
func (s *Service) invalidate(ctx context.Context, op string, user *models.User) {
	keys := cache.UserKeys(user.ID, user.Email)
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Error("failed to invalidate cache",
			slog.String("op", op), slog.Any("keys", keys), slog.Any("err", err))
	}
}

func notFound(err, domain error) error {
	if errors.Is(err, common.ErrNotFound) {
		return domain
	}
	return err
}

// Package auth содержит жизненный цикл учётных данных: регистрацию, вход,
// восстановление пароля по одноразовому коду и удаление аккаунта.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/lib/jwt"
	"github.com/magabrotheeeer/storefront/internal/metrics"
	"github.com/magabrotheeeer/storefront/internal/models"
)

var (
	errUserExists   = common.E(common.ErrAlreadyExists, "user already exists")
	errUserNotFound = common.E(common.ErrNotFound, "user not found")
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error
	ConsumeResetCode(ctx context.Context, id, code, grantHash string, now, grantExpiresAt time.Time) (bool, error)
	ResetPassword(ctx context.Context, id, grantHash, passwordHash string, now time.Time) (bool, error)
	DeleteUser(ctx context.Context, id string) error
}

// Cache мягкий кэш и счётчики ограничений. Ошибки трактуются как промах.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Invalidate(ctx context.Context, keys ...string) error
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
	Counter(ctx context.Context, key string) (int64, error)
	Acquire(ctx context.Context, key string, window time.Duration) (bool, error)
}

// Hasher хэширует и проверяет пароли.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// Notifier ставит письмо в фоновую очередь.
type Notifier interface {
	Enqueue(email models.Email) bool
}

// Deps зависимости сервиса.
type Deps struct {
	Users    UserRepository
	Cache    Cache
	Hasher   Hasher
	Tokens   jwt.Maker
	Notifier Notifier
	Log      *slog.Logger
	Metrics  *metrics.Metrics
}

// Service оркестрирует хранилище, кэш, хэшер, выпуск токенов и уведомления.
type Service struct {
	users    UserRepository
	cache    Cache
	hasher   Hasher
	tokens   jwt.Maker
	notifier Notifier
	log      *slog.Logger
	metrics  *metrics.Metrics
	policy   config.AuthPolicy
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewService создаёт сервис аутентификации.
func NewService(deps Deps, policy config.AuthPolicy) *Service {
	return &Service{
		users:    deps.Users,
		cache:    deps.Cache,
		hasher:   deps.Hasher,
		tokens:   deps.Tokens,
		notifier: deps.Notifier,
		log:      deps.Log,
		metrics:  deps.Metrics,
		policy:   policy,
		now:      time.Now,
	}
}

// AuthResult выданный токен и пользователь, которому он принадлежит.
type AuthResult struct {
	Token string
	User  models.PublicUser
}

// RegisterInput данные регистрации.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// ResetInput данные сброса пароля. Нужен ResetToken из VerifyOTP либо OTP,
// который тогда проверяется в рамках этого же вызова.
type ResetInput struct {
	UserID     string
	Password   string
	ResetToken string
	OTP        string
}

// TokenTTL срок жизни выдаваемых токенов.
func (s *Service) TokenTTL() time.Duration {
	if m, ok := s.tokens.(interface{ TTL() time.Duration }); ok {
		return m.TTL()
	}
	return jwt.DefaultTTL
}

// warnCache логирует сбой кэша и продолжает работу.
func (s *Service) warnCache(op, key string, err error) {
	s.log.Warn("cache unavailable, falling back to store",
		slog.String("op", op), slog.String("key", key), slog.Any("err", err))
	s.metrics.CacheError(op)
}

func (s *Service) invalidate(ctx context.Context, op string, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Error("failed to invalidate cache",
			slog.String("op", op), slog.Any("keys", keys), slog.Any("err", err))
		s.metrics.CacheError(op)
	}
}

func (s *Service) notify(email models.Email) {
	if s.notifier == nil {
		return
	}
	s.notifier.Enqueue(email)
}

// dummy хэш для сравнения при неизвестном email, чтобы время ответа не выдавало наличие аккаунта.
func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("storefront-dummy-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

// lookupErr подменяет ErrNotFound хранилища ошибкой с сообщением для клиента.
func lookupErr(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return errUserNotFound
	}
	return err
}

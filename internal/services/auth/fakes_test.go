package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/lib/jwt"
	"github.com/magabrotheeeer/storefront/internal/lib/password"
	"github.com/magabrotheeeer/storefront/internal/metrics"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// memUsers хранилище пользователей в памяти с теми же условными обновлениями, что и PostgreSQL.
type memUsers struct {
	mu    sync.Mutex
	byID  map[string]*models.User
	reads int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*models.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.byID[user.ID] = &user
	cp := user
	return &cp, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (m *memUsers) SetResetCode(_ context.Context, id, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	u.ResetCode = &code
	u.ResetCodeExpiresAt = &expiresAt
	return nil
}

func (m *memUsers) ConsumeResetCode(_ context.Context, id, code, grantHash string, now, grantExpiresAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || u.ResetCode == nil || *u.ResetCode != code {
		return false, nil
	}
	if u.ResetCodeExpiresAt == nil || u.ResetCodeExpiresAt.Before(now) {
		return false, nil
	}
	u.ResetCode = nil
	u.ResetCodeExpiresAt = nil
	u.ResetGrantHash = &grantHash
	u.ResetGrantExpiresAt = &grantExpiresAt
	return true, nil
}

func (m *memUsers) ResetPassword(_ context.Context, id, grantHash, passwordHash string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || u.ResetGrantHash == nil || *u.ResetGrantHash != grantHash || !u.ResetGrantExpiresAt.After(now) {
		return false, nil
	}
	u.PasswordHash = passwordHash
	u.ResetGrantHash = nil
	u.ResetGrantExpiresAt = nil
	return true, nil
}

func (m *memUsers) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memUsers) get(id string) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.byID[id]
}

// capturingNotifier запоминает письма; accept=false имитирует переполненную очередь.
type capturingNotifier struct {
	mu     sync.Mutex
	emails []models.Email
	reject bool
}

func (n *capturingNotifier) Enqueue(email models.Email) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.reject {
		return false
	}
	n.emails = append(n.emails, email)
	return true
}

func (n *capturingNotifier) last() models.Email {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.emails[len(n.emails)-1]
}

type testEnv struct {
	svc      *Service
	users    *memUsers
	cache    *cache.Cache
	mr       *miniredis.Miniredis
	notifier *capturingNotifier
	clock    time.Time
}

func testPolicy() config.AuthPolicy {
	return config.AuthPolicy{
		MinPasswordLength:    4,
		MaxFailedLogins:      3,
		FailedLoginWindow:    300 * time.Second,
		OTPTTL:               600 * time.Second,
		OTPRequestInterval:   60 * time.Second,
		RegistrationInterval: 60 * time.Second,
		ResetGrantTTL:        10 * time.Minute,
		UserCacheTTL:         time.Hour,
		SessionCacheTTL:      24 * time.Hour,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.InitServer(context.Background(), config.RedisConnection{
		AddressRedis: mr.Addr(),
		MaxRetries:   -1,
		DialTimeout:  100 * time.Millisecond,
		TimeoutRedis: 100 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	env := &testEnv{
		users:    newMemUsers(),
		cache:    c,
		mr:       mr,
		notifier: &capturingNotifier{},
		clock:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	env.svc = NewService(Deps{
		Users:    env.users,
		Cache:    c,
		Hasher:   password.Hasher{},
		Tokens:   jwt.NewJWTMaker("test-secret", 0),
		Notifier: env.notifier,
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:  metrics.New(prometheus.NewRegistry()),
	}, testPolicy())
	env.svc.now = func() time.Time { return env.clock }
	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.clock = e.clock.Add(d)
}

func (e *testEnv) register(t *testing.T, email, name, pass string) *AuthResult {
	t.Helper()
	res, err := e.svc.Register(context.Background(), RegisterInput{Email: email, Name: name, Password: pass})
	require.NoError(t, err)
	return res
}

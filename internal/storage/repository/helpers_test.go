//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/storefront/internal/migrations"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его ID
func (f *TestDataFactory) CreateUser(t *testing.T, email, name string, role models.Role) string {
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO users (email, name, password_hash, role)
		VALUES ($1, $2, 'hashedpassword', $3) RETURNING id`, email, name, role).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateProduct создает тестовый товар и возвращает его ID
func (f *TestDataFactory) CreateProduct(t *testing.T, name string, price float64) string {
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO products (name, price, images, categories)
		VALUES ($1, $2, '{a.png}', '{shoes}') RETURNING id`, name, price).Scan(&id)
	require.NoError(t, err)
	return id
}

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции
func setupTestDatabase(t *testing.T) *Storage {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(connStr, 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB))
	require.NoError(t, CheckDatabaseReady(ctx, storage))

	t.Cleanup(func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return storage
}

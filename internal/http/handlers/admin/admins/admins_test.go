package admins

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Admins(ctx context.Context) ([]models.PublicUser, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.PublicUser)
	return users, args.Error(1)
}

func TestAdminsHandler(t *testing.T) {
	t.Run("lists admins", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Admins", mock.Anything).Return([]models.PublicUser{{ID: "u1"}, {ID: "u2"}}, nil)

		rec := httptest.NewRecorder()
		New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/admins", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got struct {
			Admins []models.PublicUser `json:"admins"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Len(t, got.Admins, 2)
	})

	t.Run("empty", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Admins", mock.Anything).Return(nil, common.E(common.ErrNotFound, "Admins not found"))

		rec := httptest.NewRecorder()
		New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/admins", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

package assignadmin

import (
	"bytes"
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

func (m *ServiceMock) AssignAdmin(ctx context.Context, email string) (*models.PublicUser, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.PublicUser)
	return user, args.Error(1)
}

func TestAssignAdminHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		callService    bool
		mockUser       *models.PublicUser
		mockErr        error
		wantStatusCode int
		wantMessage    string
		wantError      string
	}{
		{
			name:           "promoted",
			body:           `{"email":"a@x.com"}`,
			callService:    true,
			mockUser:       &models.PublicUser{ID: "u1", Email: "a@x.com", Role: models.RoleAdmin},
			wantStatusCode: http.StatusOK,
			wantMessage:    "User role updated to ADMIN",
		},
		{
			name:           "already admin",
			body:           `{"email":"a@x.com"}`,
			callService:    true,
			mockErr:        common.E(common.ErrValidation, "User is already admin"),
			wantStatusCode: http.StatusBadRequest,
			wantError:      "User is already admin",
		},
		{
			name:           "unknown user",
			body:           `{"email":"a@x.com"}`,
			callService:    true,
			mockErr:        common.E(common.ErrNotFound, "User not found"),
			wantStatusCode: http.StatusNotFound,
			wantError:      "User not found",
		},
		{
			name:           "missing email",
			body:           `{}`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Email is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callService {
				svc.On("AssignAdmin", mock.Anything, "a@x.com").Return(tt.mockUser, tt.mockErr).Once()
			}
			h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/assign-admin", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, tt.wantMessage, got["message"])
				user, ok := got["user"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "ADMIN", user["role"])
			}
			svc.AssertExpectations(t)
		})
	}
}

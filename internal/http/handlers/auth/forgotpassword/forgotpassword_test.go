package forgotpassword

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
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func TestForgotPasswordHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		callService    bool
		mockErr        error
		wantStatusCode int
		wantBody       map[string]any
	}{
		{
			name:           "code sent",
			body:           `{"email":"a@x.com"}`,
			callService:    true,
			wantStatusCode: http.StatusOK,
			wantBody:       map[string]any{"status": "OK", "message": "OTP sent to your email"},
		},
		{
			name:           "unknown email",
			body:           `{"email":"a@x.com"}`,
			callService:    true,
			mockErr:        common.E(common.ErrNotFound, "user not found"),
			wantStatusCode: http.StatusNotFound,
			wantBody:       map[string]any{"status": "Error", "error": "user not found"},
		},
		{
			name:           "requested too often",
			body:           `{"email":"a@x.com"}`,
			callService:    true,
			mockErr:        common.ErrRateLimited,
			wantStatusCode: http.StatusTooManyRequests,
			wantBody:       map[string]any{"status": "Error", "error": common.ErrRateLimited.Error()},
		},
		{
			name:           "empty email",
			body:           `{}`,
			wantStatusCode: http.StatusBadRequest,
			wantBody:       map[string]any{"status": "Error", "error": "field Email is a required field"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callService {
				svc.On("ForgotPassword", mock.Anything, "a@x.com").Return(tt.mockErr).Once()
			}
			h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/forgot-password", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantBody, got)
			svc.AssertExpectations(t)
		})
	}
}

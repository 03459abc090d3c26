package resetpassword

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
	"github.com/magabrotheeeer/storefront/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ResetPassword(ctx context.Context, in auth.ResetInput) error {
	return m.Called(ctx, in).Error(0)
}

func TestResetPasswordHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantInput      *auth.ResetInput
		mockErr        error
		wantStatusCode int
		wantBody       map[string]any
	}{
		{
			name:           "reset with grant",
			body:           `{"userId":"u1","password":"newpass","resetToken":"g"}`,
			wantInput:      &auth.ResetInput{UserID: "u1", Password: "newpass", ResetToken: "g"},
			wantStatusCode: http.StatusOK,
			wantBody:       map[string]any{"status": "OK", "message": "Password reset successfully"},
		},
		{
			name:           "reset with otp",
			body:           `{"userId":"u1","password":"newpass","otp":"123456"}`,
			wantInput:      &auth.ResetInput{UserID: "u1", Password: "newpass", OTP: "123456"},
			wantStatusCode: http.StatusOK,
			wantBody:       map[string]any{"status": "OK", "message": "Password reset successfully"},
		},
		{
			name:           "used grant",
			body:           `{"userId":"u1","password":"newpass","resetToken":"g"}`,
			wantInput:      &auth.ResetInput{UserID: "u1", Password: "newpass", ResetToken: "g"},
			mockErr:        common.ErrInvalidGrant,
			wantStatusCode: http.StatusBadRequest,
			wantBody:       map[string]any{"status": "Error", "error": "invalid or expired reset token"},
		},
		{
			name:           "no proof of verification",
			body:           `{"userId":"u1","password":"newpass"}`,
			wantInput:      &auth.ResetInput{UserID: "u1", Password: "newpass"},
			mockErr:        common.E(common.ErrValidation, "resetToken or otp is required"),
			wantStatusCode: http.StatusBadRequest,
			wantBody:       map[string]any{"status": "Error", "error": "resetToken or otp is required"},
		},
		{
			name:           "missing user id",
			body:           `{"password":"newpass"}`,
			wantStatusCode: http.StatusBadRequest,
			wantBody:       map[string]any{"status": "Error", "error": "field UserID is a required field"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.wantInput != nil {
				svc.On("ResetPassword", mock.Anything, *tt.wantInput).Return(tt.mockErr).Once()
			}
			h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/reset-password", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantBody, got)
			svc.AssertExpectations(t)
		})
	}
}

package remove

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешно",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "p1").Return(&models.Product{ID: "p1"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"Product successfully deleted"`,
		},
		{
			name: "товар не найден",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "p1").Return(nil, common.E(common.ErrNotFound, "Product not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"Product not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodDelete, "/product/delete/p1", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "p1")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, req.WithContext(ctx))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

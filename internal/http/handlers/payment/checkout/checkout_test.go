package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/payment"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) CreateCheckoutSession(ctx context.Context, userID string, in payment.CheckoutInput) (string, error) {
	args := m.Called(ctx, userID, in)
	return args.String(0), args.Error(1)
}

func newRequest(t *testing.T, body any, userID string) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/payment/create-checkout-session", bytes.NewReader(raw))
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, userID))
	}
	return req
}

func TestCheckoutHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	items := []models.CheckoutItem{{Name: "Sneakers", Price: 99.9, Quantity: 1}}

	t.Run("returns payment url", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("CreateCheckoutSession", mock.Anything, "u1", payment.CheckoutInput{
			CustomerEmail: "a@x.com",
			Items:         items,
		}).Return("https://checkout.stripe.com/c/pay/cs_1", nil)

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, newRequest(t, Request{CustomerEmail: "a@x.com", Items: items}, "u1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_1", got["url"])
		svc.AssertExpectations(t)
	})

	t.Run("no items", func(t *testing.T) {
		svc := new(ServiceMock)

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, newRequest(t, Request{CustomerEmail: "a@x.com"}, "u1"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "field Items is a required field")
	})

	t.Run("item with zero quantity", func(t *testing.T) {
		svc := new(ServiceMock)
		bad := []models.CheckoutItem{{Name: "Sneakers", Price: 10}}

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, newRequest(t, Request{Items: bad}, "u1"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "field Quantity is a required field")
	})

	t.Run("provider failure is hidden", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("CreateCheckoutSession", mock.Anything, "u1", mock.Anything).
			Return("", errors.New("stripe: invalid api key sk_live_x"))

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, newRequest(t, Request{Items: items}, "u1"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "sk_live_x")
	})

	t.Run("no user in context", func(t *testing.T) {
		svc := new(ServiceMock)

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, newRequest(t, Request{Items: items}, ""))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

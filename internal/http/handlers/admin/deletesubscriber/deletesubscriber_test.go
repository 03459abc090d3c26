package deletesubscriber

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

func (m *ServiceMock) DeleteSubscriber(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func TestDeleteSubscriberHandler(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("DeleteSubscriber", mock.Anything, "a@x.com").Return(nil).Once()
	svc.On("DeleteSubscriber", mock.Anything, "b@x.com").Return(common.E(common.ErrNotFound, "Subscriber not found")).Once()
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/delete-subscriber", bytes.NewBufferString(`{"email":"a@x.com"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Subscriber successfully deleted", got["message"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/delete-subscriber", bytes.NewBufferString(`{"email":"b@x.com"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	svc.AssertExpectations(t)
}

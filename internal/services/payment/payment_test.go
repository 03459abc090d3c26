package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/paymentprovider"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockRepository) SetPaymentCustomerID(ctx context.Context, id, customerID string) error {
	return m.Called(ctx, id, customerID).Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Invalidate(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateCustomer(ctx context.Context, p paymentprovider.CustomerParams) (*paymentprovider.Customer, error) {
	args := m.Called(ctx, p)
	c, _ := args.Get(0).(*paymentprovider.Customer)
	return c, args.Error(1)
}

func (m *MockProvider) CreateCheckoutSession(ctx context.Context, p paymentprovider.CheckoutSessionParams) (*paymentprovider.CheckoutSession, error) {
	args := m.Called(ctx, p)
	s, _ := args.Get(0).(*paymentprovider.CheckoutSession)
	return s, args.Error(1)
}

var input = CheckoutInput{
	CustomerEmail: "buyer@x.com",
	Items:         []models.CheckoutItem{{Name: "Shirt", Price: 20, Quantity: 1}},
}

var wantSession = paymentprovider.CheckoutSessionParams{
	Items:         []paymentprovider.LineItem{{Name: "Shirt", Price: 20, Quantity: 1}},
	Currency:      "usd",
	CustomerEmail: "buyer@x.com",
	SuccessURL:    "http://shop/success",
	CancelURL:     "http://shop/cancel",
}

func newService() (*Service, *MockRepository, *MockProvider) {
	svc, repo, provider, _ := newServiceWithCache()
	return svc, repo, provider
}

func newServiceWithCache() (*Service, *MockRepository, *MockProvider, *MockCache) {
	repo := new(MockRepository)
	provider := new(MockProvider)
	c := new(MockCache)
	c.On("Invalidate", mock.Anything, mock.Anything).Return(nil).Maybe()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(repo, provider, c, log, "http://shop/", ""), repo, provider, c
}

func TestCreateCheckoutSession_CreatesCustomerOnce(t *testing.T) {
	svc, repo, provider := newService()
	repo.On("GetUserByID", mock.Anything, "u1").Return(&models.User{ID: "u1", Email: "a@x.com", Name: "A"}, nil)
	provider.On("CreateCustomer", mock.Anything, paymentprovider.CustomerParams{Email: "a@x.com", Name: "A", UserID: "u1"}).
		Return(&paymentprovider.Customer{ID: "cus_1"}, nil).Once()
	repo.On("SetPaymentCustomerID", mock.Anything, "u1", "cus_1").Return(nil).Once()
	provider.On("CreateCheckoutSession", mock.Anything, wantSession).
		Return(&paymentprovider.CheckoutSession{URL: "https://pay/cs_1"}, nil)

	url, err := svc.CreateCheckoutSession(context.Background(), "u1", input)
	require.NoError(t, err)
	assert.Equal(t, "https://pay/cs_1", url)
	repo.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestCreateCheckoutSession_InvalidatesCachedUser(t *testing.T) {
	repo := new(MockRepository)
	provider := new(MockProvider)
	c := new(MockCache)
	svc := New(repo, provider, c, slog.New(slog.NewTextHandler(io.Discard, nil)), "http://shop", "")

	repo.On("GetUserByID", mock.Anything, "u1").Return(&models.User{ID: "u1", Email: "a@x.com"}, nil)
	provider.On("CreateCustomer", mock.Anything, mock.Anything).Return(&paymentprovider.Customer{ID: "cus_1"}, nil)
	repo.On("SetPaymentCustomerID", mock.Anything, "u1", "cus_1").Return(nil)
	c.On("Invalidate", mock.Anything, []string{"user:u1"}).Return(nil).Once()
	provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&paymentprovider.CheckoutSession{URL: "https://pay/cs_1"}, nil)

	_, err := svc.CreateCheckoutSession(context.Background(), "u1", input)
	require.NoError(t, err)
	c.AssertExpectations(t)
}

func TestCreateCheckoutSession_ExistingCustomer(t *testing.T) {
	svc, repo, provider := newService()
	customer := "cus_1"
	repo.On("GetUserByID", mock.Anything, "u1").Return(&models.User{ID: "u1", PaymentCustomerID: &customer}, nil)
	provider.On("CreateCheckoutSession", mock.Anything, wantSession).
		Return(&paymentprovider.CheckoutSession{URL: "https://pay/cs_2"}, nil)

	url, err := svc.CreateCheckoutSession(context.Background(), "u1", input)
	require.NoError(t, err)
	assert.Equal(t, "https://pay/cs_2", url)
	provider.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
}

func TestCreateCheckoutSession_Errors(t *testing.T) {
	t.Run("no items", func(t *testing.T) {
		svc, repo, _ := newService()
		_, err := svc.CreateCheckoutSession(context.Background(), "u1", CheckoutInput{})
		assert.ErrorIs(t, err, common.ErrValidation)
		repo.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})

	t.Run("user gone", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetUserByID", mock.Anything, "u1").Return(nil, common.ErrNotFound)
		_, err := svc.CreateCheckoutSession(context.Background(), "u1", input)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("provider failure", func(t *testing.T) {
		svc, repo, provider := newService()
		customer := "cus_1"
		repo.On("GetUserByID", mock.Anything, "u1").Return(&models.User{ID: "u1", PaymentCustomerID: &customer}, nil)
		provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
			Return(nil, &paymentprovider.APIError{StatusCode: 402, Message: "card declined"})

		_, err := svc.CreateCheckoutSession(context.Background(), "u1", input)
		var apiErr *paymentprovider.APIError
		assert.True(t, errors.As(err, &apiErr))
	})

	t.Run("saving customer id is best effort", func(t *testing.T) {
		svc, repo, provider, c := newServiceWithCache()
		repo.On("GetUserByID", mock.Anything, "u1").Return(&models.User{ID: "u1", Email: "a@x.com"}, nil)
		provider.On("CreateCustomer", mock.Anything, mock.Anything).Return(&paymentprovider.Customer{ID: "cus_1"}, nil)
		repo.On("SetPaymentCustomerID", mock.Anything, "u1", "cus_1").Return(errors.New("db down"))
		provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
			Return(&paymentprovider.CheckoutSession{URL: "https://pay/cs_3"}, nil)

		url, err := svc.CreateCheckoutSession(context.Background(), "u1", input)
		require.NoError(t, err)
		assert.Equal(t, "https://pay/cs_3", url)
		c.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})
}

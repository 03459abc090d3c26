package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AddCartItem(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	item, _ := args.Get(0).(*models.CartItem)
	return item, args.Error(1)
}

func (m *MockRepository) ListCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]models.CartItem)
	return items, args.Error(1)
}

func (m *MockRepository) RemoveCartItem(ctx context.Context, userID, itemID string) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func TestGet(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListCart", mock.Anything, "u1").Return([]models.CartItem{{ID: "i1"}}, nil)
	repo.On("ListCart", mock.Anything, "u2").Return([]models.CartItem{}, nil)
	svc := New(repo)

	items, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.Get(context.Background(), "u2")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, err.Error(), "Cart is empty")
}

func TestItems_EmptyCartIsNotAnError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListCart", mock.Anything, "u1").Return([]models.CartItem{{ID: "i1"}}, nil)
	repo.On("ListCart", mock.Anything, "u2").Return(nil, nil)
	svc := New(repo)

	items, err := svc.Items(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = svc.Items(context.Background(), "u2")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		repoErr   error
		wantKind  error
		wantMsg   string
		callsRepo bool
	}{
		{name: "added", quantity: 2, callsRepo: true},
		{name: "zero quantity", quantity: 0, wantKind: common.ErrValidation, wantMsg: "quantity must be greater than 0"},
		{name: "unknown product", quantity: 1, repoErr: common.ErrNotFound, wantKind: common.ErrNotFound, wantMsg: "Product not found", callsRepo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			if tt.callsRepo {
				var item *models.CartItem
				if tt.repoErr == nil {
					item = &models.CartItem{ID: "i1", Quantity: tt.quantity}
				}
				repo.On("AddCartItem", mock.Anything, "u1", "p1", tt.quantity).Return(item, tt.repoErr)
			}

			item, err := New(repo).Add(context.Background(), "u1", "p1", tt.quantity)
			if tt.wantKind != nil {
				assert.ErrorIs(t, err, tt.wantKind)
				assert.Contains(t, err.Error(), tt.wantMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.quantity, item.Quantity)
			repo.AssertExpectations(t)
		})
	}
}

func TestRemove_ForeignItem(t *testing.T) {
	repo := new(MockRepository)
	repo.On("RemoveCartItem", mock.Anything, "u1", "i-of-u2").Return(common.ErrNotFound)

	err := New(repo).Remove(context.Background(), "u1", "i-of-u2")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, err.Error(), "Cart item not found")
}

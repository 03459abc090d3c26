// Package cart содержит операции с корзиной пользователя.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/models"
)

var (
	errCartEmpty       = common.E(common.ErrNotFound, "Cart is empty")
	errProductNotFound = common.E(common.ErrNotFound, "Product not found")
	errItemNotFound    = common.E(common.ErrNotFound, "Cart item not found")
	errQuantity        = common.E(common.ErrValidation, "quantity must be greater than 0")
)

// Repository описывает контракт хранилища корзин.
type Repository interface {
	AddCartItem(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error)
	ListCart(ctx context.Context, userID string) ([]models.CartItem, error)
	RemoveCartItem(ctx context.Context, userID, itemID string) error
}

// Service управляет корзинами.
type Service struct {
	repo Repository
}

// New создаёт сервис корзины.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get возвращает корзину пользователя. Пустая корзина даёт NotFound.
func (s *Service) Get(ctx context.Context, userID string) ([]models.CartItem, error) {
	const op = "cart.Get"
	items, err := s.repo.ListCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, errCartEmpty)
	}
	return items, nil
}

// Items возвращает содержимое корзины. Для пустой корзины это пустой список, не ошибка.
func (s *Service) Items(ctx context.Context, userID string) ([]models.CartItem, error) {
	const op = "cart.Items"
	items, err := s.repo.ListCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

// Add кладёт товар в корзину. Имя и цена берутся из каталога.
func (s *Service) Add(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error) {
	const op = "cart.Add"
	if quantity <= 0 {
		return nil, fmt.Errorf("%s: %w", op, errQuantity)
	}
	item, err := s.repo.AddCartItem(ctx, userID, productID, quantity)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			err = errProductNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// Remove удаляет позицию из корзины владельца.
func (s *Service) Remove(ctx context.Context, userID, itemID string) error {
	const op = "cart.Remove"
	if err := s.repo.RemoveCartItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			err = errItemNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

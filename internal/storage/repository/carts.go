package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/storefront/internal/models"
)

// AddCartItem кладёт товар в корзину, фиксируя его название и цену на момент добавления.
func (s *Storage) AddCartItem(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error) {
	const op = "storage.AddCartItem"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO cart_items (user_id, product_id, name, quantity, price)
			  SELECT $1, p.id, p.name, $3, p.price FROM products p WHERE p.id = $2
			  RETURNING id, user_id, product_id, name, quantity, price, created_at`
	var item models.CartItem
	err := s.DB.QueryRowContext(ctx, query, userID, productID, quantity).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Name, &item.Quantity, &item.Price, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &item, nil
}

// ListCart возвращает позиции корзины пользователя.
func (s *Storage) ListCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	const op = "storage.ListCart"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctx, `SELECT id, user_id, product_id, name, quantity, price, created_at
		FROM cart_items WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		if err = rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Name,
			&item.Quantity, &item.Price, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// RemoveCartItem удаляет позицию только из корзины её владельца.
func (s *Storage) RemoveCartItem(ctx context.Context, userID, itemID string) error {
	const op = "storage.RemoveCartItem"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	return affectedOne(op, res, err)
}

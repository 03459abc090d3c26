package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/storefront/internal/models"
)

// CreateSubscriber подписывает email на рассылку.
// Повторная подписка возвращает common.ErrAlreadyExists.
func (s *Storage) CreateSubscriber(ctx context.Context, email string) (*models.Subscriber, error) {
	const op = "storage.CreateSubscriber"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var sub models.Subscriber
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO subscribers (email) VALUES ($1) RETURNING id, email, created_at`, email).
		Scan(&sub.ID, &sub.Email, &sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &sub, nil
}

// DeleteSubscriber отписывает email от рассылки.
func (s *Storage) DeleteSubscriber(ctx context.Context, email string) error {
	const op = "storage.DeleteSubscriber"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx, `DELETE FROM subscribers WHERE email = $1`, email)
	return affectedOne(op, res, err)
}

// ListSubscribers возвращает всех подписчиков.
func (s *Storage) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	const op = "storage.ListSubscribers"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctx, `SELECT id, email, created_at FROM subscribers ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var subs []models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		if err = rows.Scan(&sub.ID, &sub.Email, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		subs = append(subs, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/storefront/internal/models"
)

const productColumns = `id, name, price, description, images, brand, categories, popular,
	created_at, updated_at`

func (s *Storage) scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description,
		s.types.SQLScanner(&p.Images), &p.Brand, s.types.SQLScanner(&p.Categories),
		&p.Popular, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct добавляет товар в каталог.
func (s *Storage) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "storage.CreateProduct"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	query := `INSERT INTO products (name, price, description, images, brand, categories)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + productColumns
	created, err := s.scanProduct(s.DB.QueryRowContext(ctx, query,
		p.Name, p.Price, p.Description, p.Images, p.Brand, p.Categories))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// GetProduct возвращает товар по ID.
func (s *Storage) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "storage.GetProduct"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.scanProduct(s.DB.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return p, nil
}

// ListProducts возвращает весь каталог.
func (s *Storage) ListProducts(ctx context.Context) ([]models.Product, error) {
	const op = "storage.ListProducts"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := s.scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// UpdateProduct применяет частичное обновление: меняются только переданные поля.
func (s *Storage) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	const op = "storage.UpdateProduct"
	if patch.Empty() {
		return s.GetProduct(ctx, id)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sets := make([]string, 0, 7)
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Images != nil {
		add("images", patch.Images)
	}
	if patch.Brand != nil {
		add("brand", *patch.Brand)
	}
	if patch.Categories != nil {
		add("categories", patch.Categories)
	}
	sets = append(sets, "updated_at = now()")

	query := `UPDATE products SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + productColumns
	p, err := s.scanProduct(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return p, nil
}

// MarkPopular помечает товар как популярный.
func (s *Storage) MarkPopular(ctx context.Context, id string) (*models.Product, error) {
	const op = "storage.MarkPopular"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.scanProduct(s.DB.QueryRowContext(ctx,
		`UPDATE products SET popular = true, updated_at = now()
		 WHERE id = $1 RETURNING `+productColumns, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return p, nil
}

// DeleteProduct удаляет товар и возвращает удалённую запись.
func (s *Storage) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "storage.DeleteProduct"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.scanProduct(s.DB.QueryRowContext(ctx,
		`DELETE FROM products WHERE id = $1 RETURNING `+productColumns, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return p, nil
}

// Package catalog содержит операции над товарами каталога.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/models"
)

const listTTL = 5 * time.Minute

var (
	errProductNotFound  = common.E(common.ErrNotFound, "Product not found")
	errProductsNotFound = common.E(common.ErrNotFound, "Products not found")
	errMissingFields    = common.E(common.ErrValidation, "Missing required fields")
)

// Repository описывает контракт хранилища товаров.
type Repository interface {
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	MarkPopular(ctx context.Context, id string) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) (*models.Product, error)
}

// Cache кэш списка товаров.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Service управляет каталогом.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создаёт сервис каталога.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// List возвращает все товары. Пустой каталог считается ошибкой NotFound.
func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	const op = "catalog.List"

	var products []models.Product
	found, err := s.cache.Get(ctx, cache.ProductsKey, &products)
	if err != nil {
		s.log.Warn("failed to read products from cache", slog.String("key", cache.ProductsKey), slog.Any("err", err))
	}
	if !found || err != nil {
		products, err = s.repo.ListProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := s.cache.Set(ctx, cache.ProductsKey, products, listTTL); err != nil {
			s.log.Warn("failed to cache products", slog.String("key", cache.ProductsKey), slog.Any("err", err))
		}
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%s: %w", op, errProductsNotFound)
	}
	return products, nil
}

// Add добавляет товар. Обязательны name, price, image и category.
func (s *Service) Add(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "catalog.Add"

	if p.Name == "" || p.Price <= 0 || len(p.Images) == 0 || len(p.Categories) == 0 {
		return nil, fmt.Errorf("%s: %w", op, errMissingFields)
	}
	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.dropList(ctx, op)
	return created, nil
}

// Update меняет только переданные поля товара.
func (s *Service) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	const op = "catalog.Update"

	if patch.Price != nil && *patch.Price <= 0 {
		return nil, fmt.Errorf("%s: %w", op, common.E(common.ErrValidation, "price must be greater than 0"))
	}
	p, err := s.repo.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, productErr(err))
	}
	s.dropList(ctx, op)
	return p, nil
}

// MarkPopular помечает товар популярным.
func (s *Service) MarkPopular(ctx context.Context, id string) (*models.Product, error) {
	const op = "catalog.MarkPopular"

	p, err := s.repo.MarkPopular(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, productErr(err))
	}
	s.dropList(ctx, op)
	return p, nil
}

// Delete удаляет товар и возвращает его последнее состояние.
func (s *Service) Delete(ctx context.Context, id string) (*models.Product, error) {
	const op = "catalog.Delete"

	p, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, productErr(err))
	}
	s.dropList(ctx, op)
	return p, nil
}

func (s *Service) dropList(ctx context.Context, op string) {
	if err := s.cache.Invalidate(ctx, cache.ProductsKey); err != nil {
		s.log.Error("failed to invalidate cache",
			slog.String("op", op), slog.String("key", cache.ProductsKey), slog.Any("err", err))
	}
}

func productErr(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return errProductNotFound
	}
	return err
}

package repository

import (
	"context"

	"storefront-service/internal/domain"
)

type ProductFilter struct {
	CategorySlug string
	ActiveOnly   bool
}

// ProductRepository.FindByID returns nil, nil when the product does not exist.
type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id uint64) error
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id uint64) error
}

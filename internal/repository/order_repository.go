package repository

import (
	"context"

	"storefront-service/internal/domain"
)

type OrderFilter struct {
	Status domain.OrderStatus
	Limit  int
}

// OrderRepository methods that change more than one row run in a single
// transaction. FindByID returns nil, nil when the order does not exist.
// UpdateStatusBulk returns the ids of the orders that exist and were updated.
type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error
	UpdateStatusBulk(ctx context.Context, ids []uint64, status domain.OrderStatus) ([]uint64, error)
	AddPaymentProof(ctx context.Context, proof *domain.PaymentProof) error
	Delete(ctx context.Context, id uint64) error
}

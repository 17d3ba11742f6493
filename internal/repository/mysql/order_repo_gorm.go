package mysql

import (
	"context"
	"errors"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultOrderListLimit = 50
	maxOrderListLimit     = 200
)

type orderRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewOrderRepository(db *gorm.DB, logger *zap.Logger) repository.OrderRepository {
	return &orderRepo{db: db, logger: logger}
}

// CreateWithItems inserts the order and all of its items, or nothing.
func (r *orderRepo) CreateWithItems(ctx context.Context, order *domain.Order) error {
	if len(order.Items) == 0 {
		return domain.NewValidationError("items: order must have at least 1 item")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureProductsExist(tx, order.Items); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		if order.ID == 0 {
			return errors.New("failed to assign order ID")
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		return tx.Omit(clause.Associations).Create(&order.Items).Error
	})
	if err != nil {
		order.ID = 0
		for i := range order.Items {
			order.Items[i].ID = 0
			order.Items[i].OrderID = 0
		}
		r.logger.Warn("order create rolled back", zap.Error(err))
		return err
	}

	r.logger.Info("order saved", zap.Uint64("order_id", order.ID), zap.Int("items", len(order.Items)))
	return nil
}

func ensureProductsExist(tx *gorm.DB, items []domain.OrderItem) error {
	seen := make(map[uint64]struct{}, len(items))
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	var existing []uint64
	if err := tx.Model(&domain.Product{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return err
	}
	found := make(map[uint64]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return domain.NotFound("product", id)
		}
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		Preload("PaymentProofs", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("FindByID failed", zap.Uint64("order_id", id), zap.Error(err))
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultOrderListLimit
	}
	if limit > maxOrderListLimit {
		limit = maxOrderListLimit
	}

	q := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var out []domain.Order
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdateStatusBulk ignores ids with no matching order and reports the ones
// it updated.
func (r *orderRepo) UpdateStatusBulk(ctx context.Context, ids []uint64, status domain.OrderStatus) ([]uint64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var updated []uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Order{}).
			Where("id IN ?", ids).
			Order("id").
			Pluck("id", &updated).Error; err != nil {
			return err
		}
		if len(updated) == 0 {
			return nil
		}
		return tx.Model(&domain.Order{}).
			Where("id IN ?", updated).
			Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddPaymentProof stores the proof and moves the order to PROOF_SENT,
// whatever its previous status was.
func (r *orderRepo) AddPaymentProof(ctx context.Context, proof *domain.PaymentProof) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOrder(tx, proof.OrderID); err != nil {
			return err
		}
		if err := tx.Create(proof).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Order{}).
			Where("id = ?", proof.OrderID).
			Update("status", domain.StatusProofSent).Error
	})
}

// Delete removes the order together with its items and payment proofs.
func (r *orderRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOrder(tx, id); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&domain.PaymentProof{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Order{}, id).Error
	})
}

func requireOrder(tx *gorm.DB, id uint64) error {
	var o domain.Order
	err := tx.Select("id").First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound("order", id)
	}
	return err
}

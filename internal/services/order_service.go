package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/infra/storage"
	"storefront-service/internal/outbound"
	"storefront-service/internal/repository"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var ErrOrderNotFound = fmt.Errorf("order %w", domain.ErrNotFound)

const paymentProofDir = "payment_proofs"

type CreateOrderInput struct {
	CustomerName string           `json:"customer_name" validate:"required,max=120"`
	Phone        string           `json:"phone" validate:"required,max=50"`
	Address      string           `json:"address"`
	Items        []OrderItemInput `json:"items" validate:"min=1,dive"`
}

type OrderItemInput struct {
	ProductID uint64 `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

type paymentProofInput struct {
	Note string `json:"note" validate:"max=255"`
}

type OrderService struct {
	orders      repository.OrderRepository
	products    repository.ProductRepository
	files       storage.Storage
	publisher   rabbitmq.PublisherInterface
	links       *outbound.LinkBuilder
	destination string
	validate    *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	files storage.Storage,
	publisher rabbitmq.PublisherInterface,
	links *outbound.LinkBuilder,
	destination string,
	logger *zap.Logger,
) *OrderService {
	if publisher == nil {
		publisher = rabbitmq.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:      orders,
		products:    products,
		files:       files,
		publisher:   publisher,
		links:       links,
		destination: destination,
		validate:    newValidator(),
		logger:      logger.Named("orders"),
		now:         time.Now,
	}
}

// CreateOrder snapshots the current product prices into a new UNPAID order
// and returns it together with the outbound link for the default destination.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, string, error) {
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, "", validationError(err)
	}

	ids := make([]uint64, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, "", err
	}

	lines := make([]domain.OrderLine, 0, len(in.Items))
	for _, it := range in.Items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, "", domain.NotFound("product", it.ProductID)
		}
		lines = append(lines, domain.OrderLine{Product: p, Quantity: it.Quantity})
	}

	order, err := domain.NewOrder(in.CustomerName, in.Phone, in.Address, lines)
	if err != nil {
		return nil, "", err
	}
	if err := s.orders.CreateWithItems(ctx, order); err != nil {
		return nil, "", err
	}

	s.logger.Info("order created",
		zap.Uint64("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.TotalAmount().StringFixed(2)),
	)
	s.publish(ctx, domain.EventOrderCreated, domain.OrderCreatedEvent{
		OrderID:     order.ID,
		ItemCount:   len(order.Items),
		TotalAmount: order.TotalAmount().StringFixed(2),
		CreatedAt:   order.CreatedAt,
	})

	return order, s.OutboundLink(order, ""), nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// OutboundLink falls back to the configured destination when none is given.
func (s *OrderService) OutboundLink(order *domain.Order, destination string) string {
	if destination == "" {
		destination = s.destination
	}
	return s.links.Build(order, destination)
}

// AttachPaymentProof stores the upload and moves the order to PROOF_SENT,
// whatever its previous status. The stored file is removed again when the
// proof cannot be saved.
func (s *OrderService) AttachPaymentProof(ctx context.Context, orderID uint64, file io.Reader, filename, note string) (*domain.PaymentProof, string, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, "", err
	}

	if file == nil {
		return nil, "", domain.NewValidationError("file is required")
	}
	if err := s.validate.StructCtx(ctx, paymentProofInput{Note: note}); err != nil {
		return nil, "", validationError(err)
	}

	ref, err := s.files.Store(ctx, file, paymentProofDir, filename)
	if err != nil {
		return nil, "", fmt.Errorf("store payment proof: %w", err)
	}

	proof := &domain.PaymentProof{OrderID: orderID, File: ref, Note: note}
	if err := s.orders.AddPaymentProof(ctx, proof); err != nil {
		if derr := s.files.Delete(ctx, ref); derr != nil {
			s.logger.Warn("orphaned payment proof file", zap.String("file", ref), zap.Error(derr))
		}
		return nil, "", err
	}

	s.logger.Info("payment proof attached", zap.Uint64("order_id", orderID), zap.Uint64("proof_id", proof.ID))
	s.publish(ctx, domain.EventOrderProofAttached, domain.OrderStatusChangedEvent{
		OrderID: orderID,
		Status:  domain.StatusProofSent,
		ProofID: proof.ID,
		At:      s.now(),
	})

	return proof, s.files.URL(ref), nil
}

// SetOrderStatus overwrites the status without checking the previous one.
func (s *OrderService) SetOrderStatus(ctx context.Context, id uint64, status string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, id, st); err != nil {
		return nil, err
	}
	order.Status = st

	s.logger.Info("order status set", zap.Uint64("order_id", id), zap.String("status", string(st)))
	s.publish(ctx, domain.EventOrderStatusChanged, domain.OrderStatusChangedEvent{
		OrderID: id,
		Status:  st,
		At:      s.now(),
	})
	return order, nil
}

// ListOrders returns the newest orders first. An empty status lists all.
func (s *OrderService) ListOrders(ctx context.Context, status string, limit int) ([]domain.Order, error) {
	filter := repository.OrderFilter{Limit: limit}
	if status != "" {
		st, err := domain.ParseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	return s.orders.List(ctx, filter)
}

func (s *OrderService) BulkSetStatus(ctx context.Context, ids []uint64, status string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.NewValidationError("ids: select at least one order")
	}
	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return 0, err
	}

	updated, err := s.orders.UpdateStatusBulk(ctx, ids, st)
	if err != nil {
		return 0, err
	}

	s.logger.Info("order status set in bulk",
		zap.Int("requested", len(ids)),
		zap.Int("updated", len(updated)),
		zap.String("status", string(st)),
	)
	at := s.now()
	for _, id := range updated {
		s.publish(ctx, domain.EventOrderStatusChanged, domain.OrderStatusChangedEvent{OrderID: id, Status: st, At: at})
	}
	return int64(len(updated)), nil
}

// DeleteOrder removes the order with its items and proofs, then the proof
// files it leaves behind.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint64) error {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}

	for _, p := range order.PaymentProofs {
		if err := s.files.Delete(ctx, p.File); err != nil {
			s.logger.Warn("payment proof file not removed", zap.String("file", p.File), zap.Error(err))
		}
	}
	s.logger.Info("order deleted", zap.Uint64("order_id", id))
	return nil
}

// publish never fails the caller; the order is already committed.
func (s *OrderService) publish(ctx context.Context, pattern string, evt any) {
	if err := s.publisher.Publish(ctx, pattern, evt); err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Debug("event not published", zap.String("pattern", pattern), zap.Error(err))
			return
		}
		s.logger.Error("failed to publish event", zap.String("pattern", pattern), zap.Error(err))
	}
}

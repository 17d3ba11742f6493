package domain

import "time"

const (
	EventOrderCreated       = "order.created"
	EventOrderProofAttached = "order.proof_attached"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderCreatedEvent struct {
	OrderID     uint64    `json:"orderId"`
	ItemCount   int       `json:"itemCount"`
	TotalAmount string    `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID uint64      `json:"orderId"`
	Status  OrderStatus `json:"status"`
	ProofID uint64      `json:"proofId,omitempty"`
	At      time.Time   `json:"at"`
}

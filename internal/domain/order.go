package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusUnpaid    OrderStatus = "UNPAID"
	StatusProofSent OrderStatus = "PROOF_SENT"
	StatusPaid      OrderStatus = "PAID"
	StatusDelivered OrderStatus = "DELIVERED"
)

var orderStatuses = map[OrderStatus]struct{}{
	StatusUnpaid:    {},
	StatusProofSent: {},
	StatusPaid:      {},
	StatusDelivered: {},
}

// AllowedStatuses returns every order status, sorted.
func AllowedStatuses() []string {
	out := make([]string, 0, len(orderStatuses))
	for s := range orderStatuses {
		out = append(out, string(s))
	}
	sort.Strings(out)
	return out
}

// ParseOrderStatus accepts only the exact upper-case status names.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if _, ok := orderStatuses[st]; !ok {
		return "", NewValidationError("Invalid status. Allowed: [%s]", strings.Join(AllowedStatuses(), ", "))
	}
	return st, nil
}

type Order struct {
	ID            uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	CustomerName  string         `json:"customerName" gorm:"size:120;not null"`
	Phone         string         `json:"phone" gorm:"size:50;not null"`
	Address       string         `json:"address" gorm:"type:text"`
	Status        OrderStatus    `json:"status" gorm:"size:20;not null;default:'UNPAID';index"`
	CreatedAt     time.Time      `json:"createdAt" gorm:"autoCreateTime;index"`
	Items         []OrderItem    `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaymentProofs []PaymentProof `json:"paymentProofs" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID     uint64          `json:"orderId" gorm:"not null;index"`
	ProductID   uint64          `json:"productId" gorm:"not null;index"`
	Product     *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	PriceAtTime decimal.Decimal `json:"priceAtTime" gorm:"type:decimal(12,2);not null"`
}

// OrderLine is a requested product and quantity, before it is priced.
type OrderLine struct {
	Product  *Product
	Quantity int
}

// NewOrder builds an unpaid order, copying each product's current price into
// the item so later price changes never affect it.
func NewOrder(customerName, phone, address string, lines []OrderLine) (*Order, error) {
	if strings.TrimSpace(customerName) == "" {
		return nil, NewValidationError("customer_name: this field may not be blank")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, NewValidationError("phone: this field may not be blank")
	}
	if len(lines) == 0 {
		return nil, NewValidationError("items: order must have at least 1 item")
	}

	order := &Order{
		CustomerName: customerName,
		Phone:        phone,
		Address:      address,
		Status:       StatusUnpaid,
		Items:        make([]OrderItem, 0, len(lines)),
	}
	for i, l := range lines {
		if l.Product == nil {
			return nil, NewValidationError("items[%d]: product is required", i)
		}
		if l.Quantity < 1 {
			return nil, NewValidationError("items[%d].quantity: ensure this value is greater than or equal to 1", i)
		}
		order.Items = append(order.Items, OrderItem{
			ProductID:   l.Product.ID,
			Product:     l.Product,
			Quantity:    l.Quantity,
			PriceAtTime: l.Product.Price,
		})
	}
	return order, nil
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalAmount is derived from the item snapshots and is never stored.
func (o *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total.Round(2)
}

type PaymentProof struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64    `json:"orderId" gorm:"not null;index"`
	File      string    `json:"file" gorm:"size:255;not null"`
	Note      string    `json:"note" gorm:"size:255;not null;default:''"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

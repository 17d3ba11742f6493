package services

import (
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/mocks"
	"storefront-service/internal/outbound"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	TestOrderID         = uint64(42)
	TestDestination     = "2348074000598"
	TestProductName     = "Paracetamol"
	TestProductPrice    = "500.00"
	TestCustomerName    = "Amina Bello"
	TestCustomerPhone   = "08030000000"
	TestCustomerAddress = "12 Broad St"
)

func CreateMockProduct(id uint64, name, price string) *domain.Product {
	return &domain.Product{
		ID:         id,
		CategoryID: 1,
		Name:       name,
		Slug:       "product-" + name,
		Price:      decimal.RequireFromString(price),
		Stock:      5,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
}

func CreateMockOrder(id uint64, status domain.OrderStatus, lines ...domain.OrderLine) *domain.Order {
	o, err := domain.NewOrder(TestCustomerName, TestCustomerPhone, TestCustomerAddress, lines)
	if err != nil {
		panic(err)
	}
	o.ID = id
	o.Status = status
	o.CreatedAt = time.Now()
	for i := range o.Items {
		o.Items[i].ID = uint64(i + 1)
		o.Items[i].OrderID = id
	}
	return o
}

type orderDeps struct {
	orders    *mocks.MockOrderRepository
	products  *mocks.MockProductRepository
	files     *mocks.MockStorage
	publisher *mocks.MockPublisher
}

func newOrderDeps() *orderDeps {
	return &orderDeps{
		orders:    new(mocks.MockOrderRepository),
		products:  new(mocks.MockProductRepository),
		files:     new(mocks.MockStorage),
		publisher: new(mocks.MockPublisher),
	}
}

func (d *orderDeps) service() *OrderService {
	links := outbound.NewLinkBuilder(outbound.DefaultBaseURL, outbound.DefaultCurrencySymbol)
	return NewOrderService(d.orders, d.products, d.files, d.publisher, links, TestDestination, zap.NewNop())
}

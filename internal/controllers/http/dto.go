package http

import (
	"time"

	"storefront-service/internal/domain"
)

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type BulkStatusRequest struct {
	IDs    []uint64 `json:"ids"`
	Status string   `json:"status"`
}

type CreateOrderResponse struct {
	OrderID     uint64 `json:"order_id"`
	WhatsAppURL string `json:"whatsapp_url"`
}

type OrderStatusResponse struct {
	ID     uint64             `json:"id"`
	Status domain.OrderStatus `json:"status"`
}

type BulkStatusResponse struct {
	Updated int64 `json:"updated"`
}

type OrderItemResponse struct {
	ID          uint64 `json:"id"`
	ProductID   uint64 `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	PriceAtTime string `json:"price_at_time"`
}

type OrderDetailResponse struct {
	ID           uint64              `json:"id"`
	CustomerName string              `json:"customer_name"`
	Phone        string              `json:"phone"`
	Address      string              `json:"address"`
	Status       domain.OrderStatus  `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	Items        []OrderItemResponse `json:"items"`
	TotalAmount  string              `json:"total_amount"`
	WhatsAppURL  string              `json:"whatsapp_url"`
}

type OrderSummaryResponse struct {
	ID           uint64             `json:"id"`
	CustomerName string             `json:"customer_name"`
	Phone        string             `json:"phone"`
	Status       domain.OrderStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	ItemCount    int                `json:"item_count"`
	TotalAmount  string             `json:"total_amount"`
}

type PaymentProofResponse struct {
	ID        uint64    `json:"id"`
	OrderID   uint64    `json:"order_id"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	FileURL   string    `json:"file_url"`
}

type CategoryResponse struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductResponse struct {
	ID          uint64            `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Price       string            `json:"price"`
	Stock       uint              `json:"stock"`
	Description string            `json:"description"`
	IsActive    bool              `json:"is_active"`
	Category    *CategoryResponse `json:"category"`
	ImageURL    string            `json:"image_url"`
	CreatedAt   time.Time         `json:"created_at"`
}

func toOrderDetail(o *domain.Order, whatsAppURL string) OrderDetailResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		name := ""
		if it.Product != nil {
			name = it.Product.Name
		}
		items = append(items, OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: name,
			Quantity:    it.Quantity,
			PriceAtTime: it.PriceAtTime.StringFixed(2),
		})
	}
	return OrderDetailResponse{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Address:      o.Address,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
		Items:        items,
		TotalAmount:  o.TotalAmount().StringFixed(2),
		WhatsAppURL:  whatsAppURL,
	}
}

func toOrderSummaries(list []domain.Order) []OrderSummaryResponse {
	out := make([]OrderSummaryResponse, 0, len(list))
	for i := range list {
		o := &list[i]
		out = append(out, OrderSummaryResponse{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			Phone:        o.Phone,
			Status:       o.Status,
			CreatedAt:    o.CreatedAt,
			ItemCount:    len(o.Items),
			TotalAmount:  o.TotalAmount().StringFixed(2),
		})
	}
	return out
}

func toCategory(c *domain.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func toCategories(list []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(list))
	for i := range list {
		out = append(out, *toCategory(&list[i]))
	}
	return out
}

// toProduct expects Image to already hold a public URL.
func toProduct(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		Description: p.Description,
		IsActive:    p.IsActive,
		Category:    toCategory(p.Category),
		ImageURL:    p.Image,
		CreatedAt:   p.CreatedAt,
	}
}

func toProducts(list []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for i := range list {
		out = append(out, toProduct(&list[i]))
	}
	return out
}

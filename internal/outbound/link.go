// Package outbound renders orders into WhatsApp deep links that a customer
// can open to send the order to the shop.
package outbound

import (
	"fmt"
	"net/url"
	"strings"

	"storefront-service/internal/domain"
)

const (
	DefaultBaseURL        = "https://wa.me"
	DefaultCurrencySymbol = "₦"
)

type LinkBuilder struct {
	baseURL        string
	currencySymbol string
}

func NewLinkBuilder(baseURL, currencySymbol string) *LinkBuilder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if currencySymbol == "" {
		currencySymbol = DefaultCurrencySymbol
	}
	return &LinkBuilder{
		baseURL:        strings.TrimRight(baseURL, "/"),
		currencySymbol: currencySymbol,
	}
}

// Build has no side effects; item lines follow order.Items.
func (b *LinkBuilder) Build(order *domain.Order, destination string) string {
	return fmt.Sprintf("%s/%s?text=%s", b.baseURL, url.PathEscape(destination), escape(b.Message(order)))
}

func (b *LinkBuilder) Message(order *domain.Order) string {
	lines := []string{
		"Hello, I want to place an order.",
		fmt.Sprintf("Order ID: %d", order.ID),
		"",
		"Items:",
	}

	for _, it := range order.Items {
		name := ""
		if it.Product != nil {
			name = it.Product.Name
		}
		lines = append(lines, fmt.Sprintf("- %s x%d = %s%s each", name, it.Quantity, b.currencySymbol, it.PriceAtTime.StringFixed(2)))
	}

	lines = append(lines,
		"",
		"Name: "+order.CustomerName,
		"Phone: "+order.Phone,
	)
	if addr := strings.TrimSpace(order.Address); addr != "" {
		lines = append(lines, "Address: "+addr)
	}
	lines = append(lines,
		"",
		"Payment: Bank transfer (I will send proof here).",
	)

	return strings.Join(lines, "\n")
}

// query escaping with %20 for spaces; slashes stay literal
func escape(s string) string {
	return strings.NewReplacer("+", "%20", "%2F", "/").Replace(url.QueryEscape(s))
}

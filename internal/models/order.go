package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// Status wire values are the Russian strings the backend stores.
// Transitions happen server-side only; the client renders them.
const (
	OrderStatusPlaced  OrderStatus = "оформлен"
	OrderStatusPaid    OrderStatus = "оплачен"
	OrderStatusShipped OrderStatus = "отправлен"
)

// Icon matches the badge the web UI showed for each status.
func (s OrderStatus) Icon() string {
	switch s {
	case OrderStatusPlaced:
		return "📋"
	case OrderStatusPaid:
		return "💰"
	case OrderStatusShipped:
		return "🚚"
	default:
		return "❓"
	}
}

type OrderItem struct {
	ID         int64           `json:"id"`
	Product    Product         `json:"product"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Order is a read-only historical record from the client's point of view.
type Order struct {
	ID              int64           `json:"id"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []OrderItem     `json:"items"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

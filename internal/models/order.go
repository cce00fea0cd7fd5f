package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a persisted order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderRequest is what the dialogue engine hands to the order sink when a
// user confirms. The cart is a snapshot taken at confirmation time.
type OrderRequest struct {
	Phone   string `json:"phone"`
	Cart    Cart   `json:"cart"`
	Address string `json:"address"`
}

// Total computes the order total from the cart snapshot.
func (r *OrderRequest) Total() decimal.Decimal {
	return r.Cart.Total()
}

// Order is a persisted order as read back for reporting.
type Order struct {
	ID              int             `json:"id" db:"id"`
	UserPhone       string          `json:"user_phone" db:"user_phone"`
	Items           []CartLine      `json:"items,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	DeliveryAddress string          `json:"delivery_address" db:"delivery_address"`
	Status          OrderStatus     `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	// Aggregates joined from the users table for reporting.
	OrderCount int             `json:"order_count,omitempty"`
	TotalSpent decimal.Decimal `json:"total_spent,omitempty"`
}

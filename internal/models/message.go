package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderNotification is published to the notifications fanout exchange after
// an order has been committed to the database.
type OrderNotification struct {
	OrderID     int             `json:"order_id"`
	UserPhone   string          `json:"user_phone"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Address     string          `json:"delivery_address"`
	ItemCount   int             `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewOrderNotification builds the notification for a committed order.
func NewOrderNotification(orderID int, req *OrderRequest, createdAt time.Time) *OrderNotification {
	return &OrderNotification{
		OrderID:     orderID,
		UserPhone:   req.Phone,
		TotalAmount: req.Total(),
		Address:     req.Address,
		ItemCount:   len(req.Cart),
		CreatedAt:   createdAt,
	}
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a customer identified by phone number. Order count and total spent
// are bumped by the order sink on every confirmed order.
type User struct {
	ID               int             `json:"id" db:"id"`
	Phone            string          `json:"phone_number" db:"phone_number"`
	FirstInteraction time.Time       `json:"first_interaction" db:"first_interaction"`
	LastInteraction  time.Time       `json:"last_interaction" db:"last_interaction"`
	OrderCount       int             `json:"order_count" db:"order_count"`
	TotalSpent       decimal.Decimal `json:"total_spent" db:"total_spent"`
}

package models

import "github.com/shopspring/decimal"

// MenuItem represents a single orderable item from the restaurant menu.
// Items are owned by the catalog and treated as immutable once loaded.
type MenuItem struct {
	ID          int             `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    string          `json:"category" db:"category"`
	Available   bool            `json:"available" db:"available"`
}

// MenuGroup is one menu category with its items in catalog order.
type MenuGroup struct {
	Category string     `json:"category"`
	Items    []MenuItem `json:"items"`
}

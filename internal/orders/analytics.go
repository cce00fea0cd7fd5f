package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"tasty-bites/internal/database"
)

// PopularItem is a menu item ranked by how often customers ordered it.
type PopularItem struct {
	Name         string `json:"name"`
	TotalOrdered int    `json:"total_ordered"`
}

// Analytics aggregates the reporting numbers the admin dashboard shows.
type Analytics struct {
	TotalOrders  int             `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalUsers   int             `json:"total_users"`
	PopularItems []PopularItem   `json:"popular_items"`
}

const popularItemsLimit = 10

// GetAnalytics computes order counts, revenue, and the most ordered items.
func (r *Repository) GetAnalytics(ctx context.Context) (*Analytics, error) {
	analytics := &Analytics{
		PopularItems: []PopularItem{},
	}

	if err := r.db.QueryRow(ctx, database.CountOrdersSQL).Scan(&analytics.TotalOrders); err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := r.db.QueryRow(ctx, database.GetRevenueSQL).Scan(&analytics.TotalRevenue); err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if err := r.db.QueryRow(ctx, database.CountUsersSQL).Scan(&analytics.TotalUsers); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := r.db.Query(ctx, database.GetPopularItemsSQL, popularItemsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item PopularItem
		if err := rows.Scan(&item.Name, &item.TotalOrdered); err != nil {
			return nil, fmt.Errorf("failed to scan popular item: %w", err)
		}
		analytics.PopularItems = append(analytics.PopularItems, item)
	}

	return analytics, rows.Err()
}

// Package orders persists confirmed orders and serves order reporting.
package orders

import (
	"context"
	"fmt"
	"time"

	"tasty-bites/internal/database"
	"tasty-bites/internal/logger"
	"tasty-bites/internal/messaging"
	"tasty-bites/internal/models"
)

// Repository is the order sink and the reporting read side. Create commits
// the order transactionally and then publishes a notification; reporting
// queries read the committed rows back.
type Repository struct {
	db        *database.DB
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewRepository creates an order repository. The publisher may be nil, in
// which case confirmed orders are not announced.
func NewRepository(db *database.DB, publisher *messaging.Publisher, log *logger.Logger) *Repository {
	return &Repository{
		db:        db,
		publisher: publisher,
		logger:    log,
	}
}

// Create durably records a confirmed order and returns its id. The order
// row, its items, the user stat bump, and the per-item frequency counters
// commit in one transaction.
func (r *Repository) Create(ctx context.Context, req *models.OrderRequest) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int
	var createdAt time.Time
	err = tx.QueryRow(ctx, database.InsertOrderSQL, req.Phone, req.Total(), req.Address).
		Scan(&orderID, &createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range req.Cart.Lines() {
		_, err = tx.Exec(ctx, database.InsertOrderItemSQL,
			orderID, line.ItemID, line.Name, line.Quantity, line.Price)
		if err != nil {
			return 0, fmt.Errorf("failed to insert order item: %w", err)
		}

		_, err = tx.Exec(ctx, database.UpsertOrderFrequencySQL,
			req.Phone, line.ItemID, line.Quantity)
		if err != nil {
			return 0, fmt.Errorf("failed to update order frequency: %w", err)
		}
	}

	_, err = tx.Exec(ctx, database.BumpUserStatsSQL, req.Total(), req.Phone)
	if err != nil {
		return 0, fmt.Errorf("failed to update user stats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}

	// The order is committed; a reporting notification must not fail it.
	if r.publisher != nil {
		notification := models.NewOrderNotification(orderID, req, createdAt)
		if err := r.publisher.PublishOrderNotification(ctx, notification); err != nil {
			r.logger.Error("notification_publish_failed",
				"Failed to publish order notification", "", err, map[string]interface{}{
					"order_id": orderID,
				})
		}
	}

	return orderID, nil
}

// TotalOrders returns the number of persisted orders.
func (r *Repository) TotalOrders(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, database.CountOrdersSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// List returns all orders, newest first, with the user aggregates joined.
func (r *Repository) List(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, database.ListOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.ID,
			&order.UserPhone,
			&order.TotalAmount,
			&order.DeliveryAddress,
			&order.Status,
			&order.CreatedAt,
			&order.OrderCount,
			&order.TotalSpent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// Get returns one order with its line items, or ErrNotFound.
func (r *Repository) Get(ctx context.Context, orderID int) (*models.Order, error) {
	var order models.Order
	err := r.db.QueryRow(ctx, database.GetOrderSQL, orderID).Scan(
		&order.ID,
		&order.UserPhone,
		&order.TotalAmount,
		&order.DeliveryAddress,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	rows, err := r.db.Query(ctx, database.GetOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line models.CartLine
		err := rows.Scan(&line.ItemID, &line.Name, &line.Quantity, &line.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}

	return &order, nil
}

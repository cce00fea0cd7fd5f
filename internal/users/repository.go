// Package users tracks customers by phone number.
package users

import (
	"context"
	"fmt"

	"tasty-bites/internal/database"
	"tasty-bites/internal/logger"
	"tasty-bites/internal/models"
)

// Repository persists customer records in PostgreSQL.
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a user repository.
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// GetOrCreate upserts the user for phone, bumping last_interaction for
// returning customers, and returns the stored record.
func (r *Repository) GetOrCreate(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, database.UpsertUserSQL, phone).Scan(
		&user.ID,
		&user.Phone,
		&user.FirstInteraction,
		&user.LastInteraction,
		&user.OrderCount,
		&user.TotalSpent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &user, nil
}

// Touch records contact from phone, creating the user on first sight.
func (r *Repository) Touch(ctx context.Context, phone string) error {
	_, err := r.GetOrCreate(ctx, phone)
	return err
}

// TotalUsers returns the number of known customers.
func (r *Repository) TotalUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, database.CountUsersSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

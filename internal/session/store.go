// Package session persists per-user dialogue sessions.
package session

import (
	"context"

	"tasty-bites/internal/models"
)

// Store persists dialogue sessions keyed by phone number. Implementations
// must provide atomic fetch-or-create and replace-on-write per key; callers
// own any cross-call serialization.
type Store interface {
	// Get returns the stored session for phone, creating the default
	// session on first contact.
	Get(ctx context.Context, phone string) (*models.Session, error)
	// Put replaces the stored session for phone.
	Put(ctx context.Context, phone string, sess *models.Session) error
}

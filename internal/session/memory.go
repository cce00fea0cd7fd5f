package session

import (
	"context"
	"sync"

	"tasty-bites/internal/models"
)

// MemoryStore keeps sessions in process memory. Sessions live for the
// lifetime of the process and are never evicted.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
	}
}

// Get returns a copy of the stored session, or the default session for a
// previously-unseen phone number.
func (s *MemoryStore) Get(ctx context.Context, phone string) (*models.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[phone]
	s.mu.RUnlock()

	if !ok {
		return models.NewSession(phone), nil
	}
	return sess.Clone(), nil
}

// Put replaces the stored session for phone.
func (s *MemoryStore) Put(ctx context.Context, phone string, sess *models.Session) error {
	clone := sess.Clone()

	s.mu.Lock()
	s.sessions[phone] = clone
	s.mu.Unlock()

	return nil
}

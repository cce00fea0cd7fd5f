package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tasty-bites/internal/models"
)

const (
	keyPrefix = "session:"
	// opTimeout bounds every Redis round trip so a slow store surfaces as
	// a retryable failure instead of hanging the conversation.
	opTimeout = 5 * time.Second
)

// RedisStore keeps sessions in Redis as JSON values, one key per phone
// number. Keys carry no TTL: sessions are never deleted.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a session store backed by the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the stored session for phone, or the default session when the
// key does not exist.
func (s *RedisStore) Get(ctx context.Context, phone string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, keyPrefix+phone).Bytes()
	if err == redis.Nil {
		return models.NewSession(phone), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if sess.Cart == nil {
		sess.Cart = models.Cart{}
	}
	return &sess, nil
}

// Put replaces the stored session for phone.
func (s *RedisStore) Put(ctx context.Context, phone string, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, keyPrefix+phone, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

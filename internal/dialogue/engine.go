// Package dialogue implements the per-session ordering conversation state
// machine.
package dialogue

import (
	"context"
	"fmt"
	"sync"

	"tasty-bites/internal/logger"
	"tasty-bites/internal/models"
	"tasty-bites/internal/session"
)

// Catalog resolves free-text tokens against the menu and lists it for
// display.
type Catalog interface {
	Resolve(token string) (models.MenuItem, bool)
	ByCategory() []models.MenuGroup
}

// OrderSink durably records confirmed orders and returns their ids. The
// engine invokes it at most once per confirmed transition.
type OrderSink interface {
	Create(ctx context.Context, req *models.OrderRequest) (int, error)
}

// Engine drives the ordering conversation. Messages from one phone number
// are serialized through a per-identity lock; different phone numbers
// proceed in parallel.
type Engine struct {
	catalog Catalog
	store   session.Store
	sink    OrderSink
	logger  *logger.Logger

	// Cancelling a pending order keeps the cart by default, matching the
	// long-standing product behavior. See ClearCartOnCancel.
	clearCartOnCancel bool

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures optional engine behavior.
type Option func(*Engine)

// ClearCartOnCancel makes a "no" at order confirmation empty the cart in
// addition to abandoning the order.
func ClearCartOnCancel() Option {
	return func(e *Engine) { e.clearCartOnCancel = true }
}

// NewEngine creates a dialogue engine.
func NewEngine(cat Catalog, store session.Store, sink OrderSink, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		catalog: cat,
		store:   store,
		sink:    sink,
		logger:  log,
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle processes one inbound message for phone and returns the reply.
// Session mutations are persisted only after any order-sink call succeeds,
// so a sink failure leaves the conversation exactly where it was.
func (e *Engine) Handle(ctx context.Context, phone, rawText string) (string, error) {
	lock := e.userLock(phone)
	lock.Lock()
	defer lock.Unlock()

	sess, err := e.store.Get(ctx, phone)
	if err != nil {
		return "", fmt.Errorf("failed to fetch session: %w", err)
	}

	next := sess.Clone()
	reply, orderReq := e.transition(next, rawText)

	if orderReq != nil {
		orderID, err := e.sink.Create(ctx, orderReq)
		if err != nil {
			// Nothing is persisted; the user stays at the
			// confirmation prompt and can retry.
			return "", fmt.Errorf("failed to create order: %w", err)
		}
		reply = orderConfirmedReply(orderID)

		e.logger.Info("order_confirmed", fmt.Sprintf("Order #%d confirmed", orderID), "", map[string]interface{}{
			"phone":        phone,
			"order_id":     orderID,
			"total_amount": orderReq.Total().String(),
		})
	}

	if err := e.store.Put(ctx, phone, next); err != nil {
		return "", fmt.Errorf("failed to persist session: %w", err)
	}

	return reply, nil
}

// userLock returns the serialization lock for one phone number.
func (e *Engine) userLock(phone string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.locks[phone]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[phone] = lock
	}
	return lock
}

package session

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"tasty-bites/internal/models"
)

func TestMemoryStore_GetCreatesDefault(t *testing.T) {
	store := NewMemoryStore()

	sess, err := store.Get(context.Background(), "+919876543210")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if sess.State != models.StateMenuBrowsing {
		t.Errorf("default state = %q, want %q", sess.State, models.StateMenuBrowsing)
	}
	if !sess.Cart.IsEmpty() {
		t.Errorf("default cart not empty")
	}
	if sess.Phone != "+919876543210" {
		t.Errorf("phone = %q", sess.Phone)
	}
}

func TestMemoryStore_PutGetRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := models.NewSession("+911111111111")
	sess.State = models.StateQuantityInput
	sess.PendingItem = &models.MenuItem{ID: 4, Name: "Chicken Biryani", Price: decimal.NewFromInt(350)}
	sess.Cart.AddOrIncrement(models.MenuItem{ID: 1, Name: "Chicken Wings", Price: decimal.NewFromInt(250)}, 2)

	if err := store.Put(ctx, sess.Phone, sess); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, err := store.Get(ctx, sess.Phone)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.State != models.StateQuantityInput {
		t.Errorf("state = %q, want %q", got.State, models.StateQuantityInput)
	}
	if got.PendingItem == nil || got.PendingItem.ID != 4 {
		t.Errorf("pending item not preserved: %+v", got.PendingItem)
	}
	if got.Cart[1].Quantity != 2 {
		t.Errorf("cart line quantity = %d, want 2", got.Cart[1].Quantity)
	}
}

func TestMemoryStore_ReturnsIsolatedCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := models.NewSession("+912222222222")
	sess.Cart.AddOrIncrement(models.MenuItem{ID: 1, Name: "Chicken Wings", Price: decimal.NewFromInt(250)}, 1)
	if err := store.Put(ctx, sess.Phone, sess); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	// Mutating the session we put or the one we got back must not leak
	// into the store.
	sess.Cart.AddOrIncrement(models.MenuItem{ID: 1, Name: "Chicken Wings", Price: decimal.NewFromInt(250)}, 5)

	got, _ := store.Get(ctx, sess.Phone)
	got.State = models.StateOrderConfirmation

	again, _ := store.Get(ctx, sess.Phone)
	if again.Cart[1].Quantity != 1 {
		t.Errorf("stored quantity mutated through caller reference: %d", again.Cart[1].Quantity)
	}
	if again.State != models.StateMenuBrowsing {
		t.Errorf("stored state mutated through caller reference: %q", again.State)
	}
}

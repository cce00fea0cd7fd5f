package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"tasty-bites/internal/models"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client)
}

func TestRedisStore_GetCreatesDefault(t *testing.T) {
	store := newTestRedisStore(t)

	sess, err := store.Get(context.Background(), "+919876543210")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if sess.State != models.StateMenuBrowsing {
		t.Errorf("default state = %q, want %q", sess.State, models.StateMenuBrowsing)
	}
	if sess.Cart == nil || !sess.Cart.IsEmpty() {
		t.Errorf("default cart not empty: %+v", sess.Cart)
	}
}

func TestRedisStore_PutGetRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	sess := models.NewSession("+911111111111")
	sess.State = models.StateOrderConfirmation
	sess.Location = "12 MG Road, Bangalore"
	sess.Cart.AddOrIncrement(models.MenuItem{ID: 4, Name: "Chicken Biryani", Price: decimal.NewFromInt(350)}, 2)

	if err := store.Put(ctx, sess.Phone, sess); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, err := store.Get(ctx, sess.Phone)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.State != models.StateOrderConfirmation {
		t.Errorf("state = %q, want %q", got.State, models.StateOrderConfirmation)
	}
	if got.Location != "12 MG Road, Bangalore" {
		t.Errorf("location = %q", got.Location)
	}
	line := got.Cart[4]
	if line.Quantity != 2 || !line.Price.Equal(decimal.NewFromInt(350)) {
		t.Errorf("cart line = %+v", line)
	}
	if !got.Cart.Total().Equal(decimal.NewFromInt(700)) {
		t.Errorf("total = %s, want 700", got.Cart.Total())
	}
}

func TestRedisStore_PutOverwrites(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	sess := models.NewSession("+913333333333")
	sess.State = models.StateLocationInput
	if err := store.Put(ctx, sess.Phone, sess); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	sess.State = models.StateMenuBrowsing
	sess.ClearCart()
	if err := store.Put(ctx, sess.Phone, sess); err != nil {
		t.Fatalf("second Put returned error: %v", err)
	}

	got, err := store.Get(ctx, sess.Phone)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.State != models.StateMenuBrowsing {
		t.Errorf("state = %q, want %q after overwrite", got.State, models.StateMenuBrowsing)
	}
}

package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"tasty-bites/internal/catalog"
	"tasty-bites/internal/logger"
	"tasty-bites/internal/models"
	"tasty-bites/internal/session"
)

const testPhone = "+919876543210"

type fakeSink struct {
	calls   int
	lastReq *models.OrderRequest
	nextID  int
	err     error
}

func (f *fakeSink) Create(ctx context.Context, req *models.OrderRequest) (int, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return 0, f.err
	}
	if f.nextID == 0 {
		f.nextID = 1
	}
	return f.nextID, nil
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]models.MenuItem{
		{ID: 1, Name: "Chicken Wings", Description: "Crispy chicken wings with BBQ sauce", Price: decimal.NewFromInt(250), Category: "Appetizers", Available: true},
		{ID: 4, Name: "Chicken Biryani", Description: "Fragrant basmati rice with chicken", Price: decimal.NewFromInt(350), Category: "Main Course", Available: true},
		{ID: 9, Name: "Masala Chai", Description: "Spiced Indian tea", Price: decimal.NewFromInt(40), Category: "Beverages", Available: true},
	})
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *session.MemoryStore, *fakeSink) {
	t.Helper()
	store := session.NewMemoryStore()
	sink := &fakeSink{}
	e := NewEngine(testCatalog(), store, sink, logger.New("test"), opts...)
	return e, store, sink
}

func handle(t *testing.T, e *Engine, msg string) string {
	t.Helper()
	reply, err := e.Handle(context.Background(), testPhone, msg)
	if err != nil {
		t.Fatalf("Handle(%q) returned error: %v", msg, err)
	}
	return reply
}

func getSession(t *testing.T, store *session.MemoryStore) *models.Session {
	t.Helper()
	sess, err := store.Get(context.Background(), testPhone)
	if err != nil {
		t.Fatalf("store.Get returned error: %v", err)
	}
	return sess
}

// placeOrder walks a fresh session to the confirmation prompt:
// 2 x Chicken Biryani, address set, state ORDER_CONFIRMATION.
func placeOrder(t *testing.T, e *Engine) {
	t.Helper()
	handle(t, e, "chicken biryani")
	handle(t, e, "2")
	handle(t, e, "checkout")
	handle(t, e, "12 MG Road, Bangalore")
}

func TestGreetingShowsMenu(t *testing.T) {
	e, store, _ := newTestEngine(t)

	for _, greeting := range []string{"hi", "hello", "hey", "start", "menu", "  HI  "} {
		reply := handle(t, e, greeting)
		if !strings.Contains(reply, "Our Menu") {
			t.Errorf("reply to %q does not list the menu", greeting)
		}
		if !strings.Contains(reply, "Chicken Biryani - ₹350") {
			t.Errorf("reply to %q missing menu item: %q", greeting, reply)
		}
	}

	if got := getSession(t, store).State; got != models.StateMenuBrowsing {
		t.Errorf("state = %q, want menu_browsing", got)
	}
}

func TestItemSelectionEntersQuantityInput(t *testing.T) {
	e, store, _ := newTestEngine(t)

	reply := handle(t, e, "chicken biryani")
	if !strings.Contains(reply, "Chicken Biryani") || !strings.Contains(reply, "How many") {
		t.Errorf("unexpected item prompt: %q", reply)
	}

	sess := getSession(t, store)
	if sess.State != models.StateQuantityInput {
		t.Fatalf("state = %q, want quantity_input", sess.State)
	}
	if sess.PendingItem == nil || sess.PendingItem.ID != 4 {
		t.Fatalf("pending item = %+v, want Chicken Biryani", sess.PendingItem)
	}
	if !sess.PendingItem.Price.Equal(decimal.NewFromInt(350)) {
		t.Errorf("pending price = %s, want 350", sess.PendingItem.Price)
	}
}

func TestUnknownTokenShowsHelp(t *testing.T) {
	e, store, _ := newTestEngine(t)

	reply := handle(t, e, "sushi platter")
	if !strings.Contains(reply, "didn't understand") {
		t.Errorf("expected help reply, got %q", reply)
	}
	if got := getSession(t, store).State; got != models.StateMenuBrowsing {
		t.Errorf("state advanced on unmatched token: %q", got)
	}
}

func TestQuantityInput(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantState models.DialogueState
		wantQty   int
	}{
		{"valid quantity", "2", models.StateMenuBrowsing, 2},
		{"non-numeric", "two", models.StateQuantityInput, 0},
		{"zero", "0", models.StateQuantityInput, 0},
		{"negative", "-3", models.StateQuantityInput, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store, _ := newTestEngine(t)
			handle(t, e, "chicken biryani")

			reply := handle(t, e, tt.input)

			sess := getSession(t, store)
			if sess.State != tt.wantState {
				t.Errorf("state = %q, want %q", sess.State, tt.wantState)
			}
			if tt.wantQty > 0 {
				if !strings.Contains(reply, "Added 2 x Chicken Biryani") {
					t.Errorf("confirmation reply = %q", reply)
				}
				if sess.Cart[4].Quantity != tt.wantQty {
					t.Errorf("cart quantity = %d, want %d", sess.Cart[4].Quantity, tt.wantQty)
				}
				if sess.PendingItem != nil {
					t.Errorf("pending item not cleared")
				}
			} else {
				if !strings.Contains(reply, "❌") {
					t.Errorf("expected validation error, got %q", reply)
				}
				if sess.PendingItem == nil {
					t.Errorf("pending item dropped on invalid input")
				}
				if !sess.Cart.IsEmpty() {
					t.Errorf("cart mutated on invalid input")
				}
			}
		})
	}
}

func TestRepeatedAddsAccumulate(t *testing.T) {
	e, store, _ := newTestEngine(t)

	handle(t, e, "chicken biryani")
	handle(t, e, "2")
	handle(t, e, "chicken biryani")
	handle(t, e, "2")

	sess := getSession(t, store)
	if got := sess.Cart[4].Quantity; got != 4 {
		t.Errorf("quantity = %d, want 4 (increments accumulate, not overwrite)", got)
	}
	if !sess.Cart.Total().Equal(decimal.NewFromInt(1400)) {
		t.Errorf("total = %s, want 1400", sess.Cart.Total())
	}
}

func TestCheckoutWithEmptyCart(t *testing.T) {
	e, store, _ := newTestEngine(t)

	reply := handle(t, e, "checkout")
	if !strings.Contains(reply, "cart is empty") {
		t.Errorf("reply = %q", reply)
	}
	if got := getSession(t, store).State; got != models.StateMenuBrowsing {
		t.Errorf("state = %q, want menu_browsing", got)
	}
}

func TestCheckoutAsksForLocation(t *testing.T) {
	e, store, _ := newTestEngine(t)

	handle(t, e, "chicken biryani")
	handle(t, e, "2")
	reply := handle(t, e, "checkout")

	if !strings.Contains(reply, "delivery location") {
		t.Errorf("reply = %q", reply)
	}
	if got := getSession(t, store).State; got != models.StateLocationInput {
		t.Errorf("state = %q, want location_input", got)
	}
}

func TestLocationInputBoundary(t *testing.T) {
	tests := []struct {
		name      string
		address   string
		wantState models.DialogueState
	}{
		{"nine characters rejected", "123456789", models.StateLocationInput},
		{"ten characters accepted", "1234567890", models.StateOrderConfirmation},
		{"real address accepted", "12 MG Road, Bangalore", models.StateOrderConfirmation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store, _ := newTestEngine(t)
			handle(t, e, "chicken biryani")
			handle(t, e, "2")
			handle(t, e, "checkout")

			reply := handle(t, e, tt.address)

			sess := getSession(t, store)
			if sess.State != tt.wantState {
				t.Errorf("state = %q, want %q", sess.State, tt.wantState)
			}
			if tt.wantState == models.StateOrderConfirmation {
				if sess.Location != tt.address {
					t.Errorf("location = %q, want %q", sess.Location, tt.address)
				}
				if !strings.Contains(reply, "Total: ₹700") {
					t.Errorf("summary missing total 700: %q", reply)
				}
				if !strings.Contains(reply, tt.address) {
					t.Errorf("summary missing address: %q", reply)
				}
				if !strings.Contains(reply, "Cash on Delivery") {
					t.Errorf("summary missing payment method: %q", reply)
				}
			}
		})
	}
}

func TestAddressKeepsOriginalCase(t *testing.T) {
	e, store, _ := newTestEngine(t)
	handle(t, e, "chicken biryani")
	handle(t, e, "2")
	handle(t, e, "checkout")
	handle(t, e, "12 MG Road, Bangalore")

	if got := getSession(t, store).Location; got != "12 MG Road, Bangalore" {
		t.Errorf("location = %q, original casing lost", got)
	}
}

func TestOrderConfirmation(t *testing.T) {
	e, store, sink := newTestEngine(t)
	sink.nextID = 42
	placeOrder(t, e)

	reply := handle(t, e, "yes")

	if sink.calls != 1 {
		t.Fatalf("sink invoked %d times, want 1", sink.calls)
	}
	if !sink.lastReq.Total().Equal(decimal.NewFromInt(700)) {
		t.Errorf("order total = %s, want 700", sink.lastReq.Total())
	}
	if sink.lastReq.Address != "12 MG Road, Bangalore" {
		t.Errorf("order address = %q", sink.lastReq.Address)
	}
	if sink.lastReq.Phone != testPhone {
		t.Errorf("order phone = %q", sink.lastReq.Phone)
	}
	if !strings.Contains(reply, "#42") {
		t.Errorf("reply missing order id: %q", reply)
	}
	if !strings.Contains(reply, "30-45 minutes") {
		t.Errorf("reply missing delivery estimate: %q", reply)
	}

	sess := getSession(t, store)
	if sess.State != models.StateMenuBrowsing {
		t.Errorf("state = %q, want menu_browsing", sess.State)
	}
	if !sess.Cart.IsEmpty() {
		t.Errorf("cart not cleared after confirmation")
	}
	if sess.Location != "" || sess.PendingItem != nil {
		t.Errorf("pending fields not reset: location=%q pending=%+v", sess.Location, sess.PendingItem)
	}
}

func TestConfirmationTokens(t *testing.T) {
	for _, token := range []string{"yes", "y", "confirm", "order"} {
		t.Run(token, func(t *testing.T) {
			e, _, sink := newTestEngine(t)
			placeOrder(t, e)
			handle(t, e, token)
			if sink.calls != 1 {
				t.Errorf("sink invoked %d times for %q", sink.calls, token)
			}
		})
	}
}

func TestCancellationKeepsCart(t *testing.T) {
	e, store, sink := newTestEngine(t)
	placeOrder(t, e)

	reply := handle(t, e, "no")

	if sink.calls != 0 {
		t.Fatalf("sink invoked on cancellation")
	}
	if !strings.Contains(reply, "cancelled") {
		t.Errorf("reply = %q", reply)
	}

	sess := getSession(t, store)
	if sess.State != models.StateMenuBrowsing {
		t.Errorf("state = %q, want menu_browsing", sess.State)
	}
	// The cart survives cancellation; only the order is abandoned.
	if sess.Cart[4].Quantity != 2 {
		t.Errorf("cart lost on cancellation: %+v", sess.Cart)
	}
	if sess.Location != "" {
		t.Errorf("location not cleared: %q", sess.Location)
	}
}

func TestCancellationWithClearCartOption(t *testing.T) {
	e, store, _ := newTestEngine(t, ClearCartOnCancel())
	placeOrder(t, e)

	handle(t, e, "no")

	if sess := getSession(t, store); !sess.Cart.IsEmpty() {
		t.Errorf("cart not cleared with ClearCartOnCancel: %+v", sess.Cart)
	}
}

func TestConfirmationUnrecognizedToken(t *testing.T) {
	e, store, sink := newTestEngine(t)
	placeOrder(t, e)

	reply := handle(t, e, "maybe")

	if sink.calls != 0 {
		t.Fatalf("sink invoked on unrecognized token")
	}
	if !strings.Contains(reply, "'yes'") || !strings.Contains(reply, "'no'") {
		t.Errorf("reply = %q", reply)
	}
	if got := getSession(t, store).State; got != models.StateOrderConfirmation {
		t.Errorf("state = %q, want order_confirmation", got)
	}
}

func TestSinkFailureLeavesSessionUntouched(t *testing.T) {
	e, store, sink := newTestEngine(t)
	placeOrder(t, e)
	sink.err = errors.New("database unavailable")

	_, err := e.Handle(context.Background(), testPhone, "yes")
	if err == nil {
		t.Fatal("expected collaborator failure to propagate")
	}

	// The stored session still awaits confirmation with the cart intact,
	// so the user can retry.
	sess := getSession(t, store)
	if sess.State != models.StateOrderConfirmation {
		t.Errorf("state = %q, want order_confirmation", sess.State)
	}
	if sess.Cart[4].Quantity != 2 {
		t.Errorf("cart lost on sink failure: %+v", sess.Cart)
	}

	// Retrying after the sink recovers creates exactly one more order.
	sink.err = nil
	handle(t, e, "yes")
	if sink.calls != 2 {
		t.Errorf("sink calls = %d, want 2 (one failed, one retried)", sink.calls)
	}
	if sess := getSession(t, store); !sess.Cart.IsEmpty() {
		t.Errorf("cart not cleared after successful retry")
	}
}

func TestClearEmptiesCart(t *testing.T) {
	e, store, _ := newTestEngine(t)
	handle(t, e, "chicken biryani")
	handle(t, e, "2")

	reply := handle(t, e, "clear")

	if !strings.Contains(reply, "Cart cleared") {
		t.Errorf("reply = %q", reply)
	}
	if sess := getSession(t, store); !sess.Cart.IsEmpty() {
		t.Errorf("cart not emptied")
	}
}

func TestCartDisplay(t *testing.T) {
	e, _, _ := newTestEngine(t)

	if reply := handle(t, e, "cart"); !strings.Contains(reply, "cart is empty") {
		t.Errorf("empty cart reply = %q", reply)
	}

	handle(t, e, "chicken biryani")
	handle(t, e, "2")
	handle(t, e, "masala chai")
	handle(t, e, "3")

	reply := handle(t, e, "cart")
	if !strings.Contains(reply, "Chicken Biryani x2 - ₹700") {
		t.Errorf("cart line missing: %q", reply)
	}
	if !strings.Contains(reply, "Masala Chai x3 - ₹120") {
		t.Errorf("cart line missing: %q", reply)
	}
	if !strings.Contains(reply, "Total: ₹820") {
		t.Errorf("cart total missing: %q", reply)
	}

	// A no-op message leaves the displayed total identical.
	handle(t, e, "menu")
	if again := handle(t, e, "cart"); again != reply {
		t.Errorf("cart display changed after no-op message")
	}
}

func TestUnknownStateFallsBackToMenuBrowsing(t *testing.T) {
	e, store, _ := newTestEngine(t)

	sess := models.NewSession(testPhone)
	sess.State = models.DialogueState("corrupted")
	if err := store.Put(context.Background(), testPhone, sess); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	reply := handle(t, e, "menu")
	if !strings.Contains(reply, "Our Menu") {
		t.Errorf("fallback did not behave like menu_browsing: %q", reply)
	}
}

func TestDistinctUsersProceedIndependently(t *testing.T) {
	e, store, _ := newTestEngine(t)
	ctx := context.Background()

	// Sessions for different phone numbers share nothing; concurrent
	// conversations each end with their own cart.
	phones := []string{"+911000000001", "+911000000002", "+911000000003", "+911000000004"}
	done := make(chan error, len(phones))
	for _, phone := range phones {
		go func(phone string) {
			for _, msg := range []string{"chicken biryani", "2"} {
				if _, err := e.Handle(ctx, phone, msg); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}(phone)
	}
	for range phones {
		if err := <-done; err != nil {
			t.Fatalf("Handle returned error: %v", err)
		}
	}

	for _, phone := range phones {
		sess, err := store.Get(ctx, phone)
		if err != nil {
			t.Fatalf("store.Get returned error: %v", err)
		}
		if got := sess.Cart[4].Quantity; got != 2 {
			t.Errorf("cart quantity for %s = %d, want 2", phone, got)
		}
	}
}

func TestUserLockIsPerIdentity(t *testing.T) {
	e, _, _ := newTestEngine(t)

	if e.userLock("+911") != e.userLock("+911") {
		t.Error("same phone must map to the same lock")
	}
	if e.userLock("+911") == e.userLock("+912") {
		t.Error("different phones must not share a lock")
	}
}

package dialogue

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"tasty-bites/internal/models"
)

// minAddressLength is the shortest delivery address accepted, in characters.
const minAddressLength = 10

// transition applies one inbound message to sess, mutating it in place, and
// returns the reply plus an order request when the user confirms. It is
// deterministic for a given (session, message) pair.
func (e *Engine) transition(sess *models.Session, raw string) (string, *models.OrderRequest) {
	msg := strings.ToLower(strings.TrimSpace(raw))

	switch sess.State {
	case models.StateQuantityInput:
		return e.handleQuantityInput(sess, msg), nil
	case models.StateLocationInput:
		return e.handleLocationInput(sess, strings.TrimSpace(raw)), nil
	case models.StateOrderConfirmation:
		return e.handleOrderConfirmation(sess, msg)
	default:
		// MENU_BROWSING, and the defensive fallback for any state
		// value we do not recognize.
		return e.handleMenuBrowsing(sess, msg), nil
	}
}

func (e *Engine) handleMenuBrowsing(sess *models.Session, msg string) string {
	switch msg {
	case "hi", "hello", "hey", "start", "menu":
		return welcomeReply(e.catalog.ByCategory())
	case "cart":
		return cartReply(sess.Cart)
	case "checkout":
		if sess.Cart.IsEmpty() {
			return emptyCartReply
		}
		sess.State = models.StateLocationInput
		return locationPrompt
	case "clear":
		sess.ClearCart()
		return cartClearedReply
	}

	item, ok := e.catalog.Resolve(msg)
	if !ok {
		return helpReply
	}

	sess.PendingItem = &item
	sess.State = models.StateQuantityInput
	return itemPrompt(item)
}

func (e *Engine) handleQuantityInput(sess *models.Session, msg string) string {
	if sess.PendingItem == nil {
		// Unreachable through normal transitions; recover instead of
		// trusting the stored shape.
		sess.State = models.StateMenuBrowsing
		return helpReply
	}

	quantity, err := strconv.Atoi(msg)
	if err != nil {
		return invalidNumberReply
	}
	if quantity <= 0 {
		return invalidQuantityReply
	}

	item := *sess.PendingItem
	sess.Cart.AddOrIncrement(item, quantity)
	sess.PendingItem = nil
	sess.State = models.StateMenuBrowsing

	return addedToCartReply(item, quantity)
}

func (e *Engine) handleLocationInput(sess *models.Session, address string) string {
	if utf8.RuneCountInString(address) < minAddressLength {
		return shortAddressReply
	}

	sess.Location = address
	sess.State = models.StateOrderConfirmation
	return orderSummaryReply(sess.Cart, address)
}

func (e *Engine) handleOrderConfirmation(sess *models.Session, msg string) (string, *models.OrderRequest) {
	switch msg {
	case "yes", "y", "confirm", "order":
		if sess.Cart.IsEmpty() {
			// Checkout refuses an empty cart, so confirmation must
			// never see one; recover defensively if it does.
			sess.State = models.StateMenuBrowsing
			sess.Location = ""
			return helpReply, nil
		}

		req := &models.OrderRequest{
			Phone:   sess.Phone,
			Cart:    sess.Cart.Snapshot(),
			Address: sess.Location,
		}

		sess.ClearCart()
		sess.PendingItem = nil
		sess.Location = ""
		sess.State = models.StateMenuBrowsing

		// The reply is rendered by the caller once the sink returns
		// the order id.
		return "", req

	case "no", "n", "cancel":
		// Only the order is abandoned; the cart survives unless the
		// engine was configured otherwise.
		sess.State = models.StateMenuBrowsing
		sess.Location = ""
		if e.clearCartOnCancel {
			sess.ClearCart()
		}
		return orderCancelledReply, nil

	default:
		return confirmPromptReply, nil
	}
}

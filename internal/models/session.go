package models

// DialogueState identifies where a user is in the ordering conversation.
type DialogueState string

const (
	StateMenuBrowsing      DialogueState = "menu_browsing"
	StateQuantityInput     DialogueState = "quantity_input"
	StateLocationInput     DialogueState = "location_input"
	StateOrderConfirmation DialogueState = "order_confirmation"
)

// Session holds the conversational state for one phone number.
// PendingItem is only meaningful in the quantity_input state, Location only
// from location_input onward.
type Session struct {
	Phone       string        `json:"phone"`
	State       DialogueState `json:"state"`
	Cart        Cart          `json:"cart"`
	PendingItem *MenuItem     `json:"pending_item,omitempty"`
	Location    string        `json:"location,omitempty"`
}

// NewSession returns the default session for a previously-unseen user.
func NewSession(phone string) *Session {
	return &Session{
		Phone: phone,
		State: StateMenuBrowsing,
		Cart:  Cart{},
	}
}

// Clone returns an independent copy of the session so callers can mutate a
// candidate state without touching the stored one.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Cart = s.Cart.Snapshot()
	if s.PendingItem != nil {
		item := *s.PendingItem
		clone.PendingItem = &item
	}
	return &clone
}

// ClearCart replaces the cart with an empty one.
func (s *Session) ClearCart() {
	s.Cart = Cart{}
}

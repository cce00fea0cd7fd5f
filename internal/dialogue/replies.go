package dialogue

import (
	"fmt"
	"strings"

	"tasty-bites/internal/models"
)

// Fixed replies. Texts mirror the WhatsApp bot wording customers already
// know, including the * markers WhatsApp renders as bold.
const (
	emptyCartReply   = "🛒 Your cart is empty! Browse our menu first."
	cartClearedReply = "🗑️ Cart cleared! What would you like to order?"
	locationPrompt   = "📍 Please share your delivery location (address):"

	invalidNumberReply   = "❌ Please enter a valid number for quantity."
	invalidQuantityReply = "❌ Please enter a valid quantity (greater than 0)."
	shortAddressReply    = "❌ Please provide a detailed address with area/landmark."

	orderCancelledReply = "❌ Order cancelled. Type 'menu' to start over."
	confirmPromptReply  = "Please reply with 'yes' to confirm or 'no' to cancel the order."

	helpReply = "❓ I didn't understand that. Try:\n\n" +
		"• Type 'menu' to see our menu\n" +
		"• Type an item name to order\n" +
		"• Type 'cart' to view your cart\n" +
		"• Type 'checkout' to place order"
)

func welcomeReply(groups []models.MenuGroup) string {
	var b strings.Builder
	b.WriteString("🍽️ *Welcome to Tasty Bites Restaurant!*\n\n")
	b.WriteString("📋 *Our Menu:*\n\n")

	for _, group := range groups {
		fmt.Fprintf(&b, "*%s:*\n", group.Category)
		for _, item := range group.Items {
			fmt.Fprintf(&b, "• %s - ₹%s\n", item.Name, item.Price)
		}
		b.WriteString("\n")
	}

	b.WriteString("💡 *How to order:*\n")
	b.WriteString("• Type item name to add to cart\n")
	b.WriteString("• Type 'cart' to view your cart\n")
	b.WriteString("• Type 'checkout' to place order\n")
	b.WriteString("• Type 'clear' to empty cart")
	return b.String()
}

func itemPrompt(item models.MenuItem) string {
	return fmt.Sprintf("🍽️ *%s* - ₹%s\n\n%s\n\nHow many would you like to order?",
		item.Name, item.Price, item.Description)
}

func addedToCartReply(item models.MenuItem, quantity int) string {
	return fmt.Sprintf("✅ Added %d x %s to cart!\n\nType 'cart' to view cart or 'menu' to continue ordering.",
		quantity, item.Name)
}

func cartReply(cart models.Cart) string {
	if cart.IsEmpty() {
		return "🛒 Your cart is empty! Browse our menu to add items."
	}

	var b strings.Builder
	b.WriteString("🛒 *Your Cart:*\n\n")
	for _, line := range cart.Lines() {
		fmt.Fprintf(&b, "• %s x%d - ₹%s\n", line.Name, line.Quantity, line.Subtotal())
	}
	fmt.Fprintf(&b, "\n💰 *Total: ₹%s*\n\n", cart.Total())
	b.WriteString("Type 'checkout' to proceed with order or continue browsing!")
	return b.String()
}

func orderSummaryReply(cart models.Cart, address string) string {
	var b strings.Builder
	b.WriteString("📋 *Order Summary:*\n\n")
	for _, line := range cart.Lines() {
		fmt.Fprintf(&b, "• %s x%d - ₹%s\n", line.Name, line.Quantity, line.Subtotal())
	}
	fmt.Fprintf(&b, "\n💰 *Total: ₹%s*\n", cart.Total())
	fmt.Fprintf(&b, "📍 *Delivery Address:* %s\n", address)
	b.WriteString("💳 *Payment:* Cash on Delivery\n\n")
	b.WriteString("Reply 'yes' to confirm or 'no' to cancel.")
	return b.String()
}

func orderConfirmedReply(orderID int) string {
	return fmt.Sprintf("🎉 Order confirmed! Order ID: #%d\n\n"+
		"💰 Payment: Cash on Delivery\n"+
		"⏰ Estimated delivery: 30-45 minutes\n\n"+
		"Thank you for ordering with us!", orderID)
}

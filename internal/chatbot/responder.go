// Package chatbot answers canned categories of shopping questions.
// Classification is keyword-based; an optional OpenAI backend can be
// layered on top, falling back here whenever it fails.
package chatbot

import (
	"fmt"
	"strings"
)

type Category int

const (
	CategoryDefault Category = iota
	CategoryOrderTracking
	CategoryProductSearch
	CategoryDelivery
	CategoryReturns
	CategoryPayment
	CategoryGreeting
)

// Classify routes free text to a response category by substring match,
// case-insensitively. Order tracking needs both an "order" mention and
// a tracking verb, so "payment for my order" still lands on payment.
func Classify(message string) Category {
	m := strings.ToLower(message)

	has := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(m, s) {
				return true
			}
		}
		return false
	}

	switch {
	case has("order") && has("track", "status", "where"):
		return CategoryOrderTracking
	case has("looking for", "find", "search", "show me"):
		return CategoryProductSearch
	case has("delivery", "shipping"):
		return CategoryDelivery
	case has("return", "refund", "exchange"):
		return CategoryReturns
	case has("payment", "pay", "cod"):
		return CategoryPayment
	case has("hello", "hi", "hey"):
		return CategoryGreeting
	default:
		return CategoryDefault
	}
}

// OrderSummary is the slice of an order interpolated into tracking
// answers.
type OrderSummary struct {
	TrackingID  string
	Status      string
	TotalAmount float64
}

// TrackingResponse lists the caller's recent orders, or points an
// anonymous caller at the login flow.
func TrackingResponse(orders []OrderSummary) string {
	if len(orders) == 0 {
		return "To track your order, please login and visit 'My Orders' section. " +
			"You can also share your order ID and I'll help you track it."
	}

	lines := make([]string, 0, len(orders))
	for _, o := range orders {
		lines = append(lines, fmt.Sprintf("Order #%s: %s - ₹%.0f", o.TrackingID, strings.ToUpper(o.Status), o.TotalAmount))
	}
	return "Here are your recent orders:\n" + strings.Join(lines, "\n") + "\n\nNeed help with a specific order?"
}

// SearchResponse offers the active category names as starting points.
func SearchResponse(categoryNames []string) string {
	if len(categoryNames) == 0 {
		return "I can help you find products! What are you looking for specifically? " +
			"You can also use the search bar above to find products."
	}
	return fmt.Sprintf("I can help you find products! We have: %s. "+
		"What are you looking for specifically? You can also use the search bar above to find products.",
		strings.Join(categoryNames, ", "))
}

// CannedResponse returns the fixed answer for categories that need no
// lookup data.
func CannedResponse(category Category) string {
	switch category {
	case CategoryDelivery:
		return "🚚 Delivery Information:\n" +
			"- Free delivery on orders above ₹499\n" +
			"- Standard delivery: 3-5 business days\n" +
			"- Express delivery available in select cities\n" +
			"- Track your order in real-time from 'My Orders'"
	case CategoryReturns:
		return "↩️ Return Policy:\n" +
			"- 7-day easy returns on most products\n" +
			"- Items must be unused and in original packaging\n" +
			"- Refund processed within 5-7 business days\n" +
			"- Some categories like innerwear are non-returnable\n\n" +
			"To initiate a return, go to 'My Orders' and select the item."
	case CategoryPayment:
		return "💳 Payment Options:\n" +
			"- Cash on Delivery (COD)\n" +
			"- UPI (GPay, PhonePe, Paytm)\n" +
			"- Credit/Debit Cards\n" +
			"- Net Banking\n" +
			"- EMI available on select products\n\n" +
			"All payments are 100% secure!"
	case CategoryGreeting:
		return "Hello! 👋 Welcome to ShopKart! I'm your shopping assistant. How can I help you today?\n\n" +
			"I can help with:\n- Finding products\n- Order tracking\n- Returns & refunds\n- Payment queries"
	default:
		return "I'm here to help! You can ask me about:\n" +
			"- Product recommendations\n- Order tracking\n- Delivery & shipping\n" +
			"- Returns & refunds\n- Payment options\n\nWhat would you like to know?"
	}
}

// Package payment wraps the Razorpay gateway: order creation, payment
// links and the signature checks on their callbacks.
package payment

import (
	razorpay "github.com/razorpay/razorpay-go"
)

// Gateway is the slice of the Razorpay API the storefront uses.
// Handlers depend on this interface so tests can substitute a fake.
type Gateway interface {
	CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (map[string]interface{}, error)
	CreatePaymentLink(data map[string]interface{}) (map[string]interface{}, error)
	FetchPaymentLink(id string) (map[string]interface{}, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

// NewGateway builds a Razorpay-backed Gateway from API credentials.
func NewGateway(keyID, keySecret string) Gateway {
	return &razorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *razorpayGateway) CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (map[string]interface{}, error) {
	data := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}
	return g.client.Order.Create(data, nil)
}

func (g *razorpayGateway) CreatePaymentLink(data map[string]interface{}) (map[string]interface{}, error) {
	return g.client.PaymentLink.Create(data, nil)
}

func (g *razorpayGateway) FetchPaymentLink(id string) (map[string]interface{}, error) {
	return g.client.PaymentLink.Fetch(id, nil, nil)
}

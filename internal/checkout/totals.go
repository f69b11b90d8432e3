// Package checkout holds the pure arithmetic behind order creation:
// cart totals, the free-shipping threshold, discount percentages and
// order status transitions. Nothing here touches the database.
package checkout

import "math"

const (
	// Orders at or above this items total ship free.
	FreeShippingThreshold = 499
	// Flat charge applied below the threshold.
	StandardShippingCharge = 40
)

// Totals is the amount breakdown computed once at checkout.
type Totals struct {
	ItemsTotal     float64
	ShippingCharge float64
	Discount       float64
	TotalAmount    float64
}

// Line is a priced cart line, resolved against current catalog prices.
type Line struct {
	Price    float64
	Quantity int
}

// ShippingCharge returns 0 when the items total qualifies for free
// shipping, the flat charge otherwise.
func ShippingCharge(itemsTotal float64) float64 {
	if itemsTotal >= FreeShippingThreshold {
		return 0
	}
	return StandardShippingCharge
}

// ComputeTotals sums the lines at their current prices and applies the
// shipping rule. totalAmount = itemsTotal + shippingCharge - discount.
func ComputeTotals(lines []Line, discount float64) Totals {
	var itemsTotal float64
	for _, line := range lines {
		itemsTotal += line.Price * float64(line.Quantity)
	}

	shipping := ShippingCharge(itemsTotal)
	return Totals{
		ItemsTotal:     itemsTotal,
		ShippingCharge: shipping,
		Discount:       discount,
		TotalAmount:    itemsTotal + shipping - discount,
	}
}

// DiscountPercent is the displayed product discount derived from the
// strike-through price. Returns 0 when originalPrice is not positive.
func DiscountPercent(originalPrice, price float64) int {
	if originalPrice <= 0 {
		return 0
	}
	return int(math.Round((originalPrice - price) / originalPrice * 100))
}

// AmountInPaise converts rupees to the gateway's minor currency unit.
func AmountInPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

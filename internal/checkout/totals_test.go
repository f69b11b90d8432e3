package checkout

import "testing"

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		lines        []Line
		discount     float64
		wantItems    float64
		wantShipping float64
		wantTotal    float64
	}{
		{
			name:         "above free shipping threshold",
			lines:        []Line{{Price: 600, Quantity: 2}},
			wantItems:    1200,
			wantShipping: 0,
			wantTotal:    1200,
		},
		{
			name:         "below threshold pays flat charge",
			lines:        []Line{{Price: 100, Quantity: 1}},
			wantItems:    100,
			wantShipping: 40,
			wantTotal:    140,
		},
		{
			name:         "exactly at threshold ships free",
			lines:        []Line{{Price: 499, Quantity: 1}},
			wantItems:    499,
			wantShipping: 0,
			wantTotal:    499,
		},
		{
			name:         "discount reduces the total",
			lines:        []Line{{Price: 250, Quantity: 2}},
			discount:     50,
			wantItems:    500,
			wantShipping: 0,
			wantTotal:    450,
		},
		{
			name:         "multiple lines sum before the shipping rule",
			lines:        []Line{{Price: 200, Quantity: 1}, {Price: 150, Quantity: 2}},
			wantItems:    500,
			wantShipping: 0,
			wantTotal:    500,
		},
		{
			name:         "empty cart",
			lines:        nil,
			wantItems:    0,
			wantShipping: 40,
			wantTotal:    40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.lines, tt.discount)
			if got.ItemsTotal != tt.wantItems {
				t.Errorf("ItemsTotal = %v, want %v", got.ItemsTotal, tt.wantItems)
			}
			if got.ShippingCharge != tt.wantShipping {
				t.Errorf("ShippingCharge = %v, want %v", got.ShippingCharge, tt.wantShipping)
			}
			if got.Discount != tt.discount {
				t.Errorf("Discount = %v, want %v", got.Discount, tt.discount)
			}
			if got.TotalAmount != tt.wantTotal {
				t.Errorf("TotalAmount = %v, want %v", got.TotalAmount, tt.wantTotal)
			}
		})
	}
}

func TestShippingCharge(t *testing.T) {
	if got := ShippingCharge(498.99); got != StandardShippingCharge {
		t.Errorf("ShippingCharge(498.99) = %v, want %v", got, StandardShippingCharge)
	}
	if got := ShippingCharge(499); got != 0 {
		t.Errorf("ShippingCharge(499) = %v, want 0", got)
	}
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		originalPrice float64
		price         float64
		want          int
	}{
		{179900, 159900, 11},
		{149999, 134999, 10},
		{100, 75, 25},
		{100, 100, 0},
		{0, 50, 0},
		{-10, 5, 0},
	}
	for _, tt := range tests {
		if got := DiscountPercent(tt.originalPrice, tt.price); got != tt.want {
			t.Errorf("DiscountPercent(%v, %v) = %d, want %d", tt.originalPrice, tt.price, got, tt.want)
		}
	}
}

func TestAmountInPaise(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{1200, 120000},
		{140, 14000},
		{499.5, 49950},
		{0.1 + 0.2, 30},
	}
	for _, tt := range tests {
		if got := AmountInPaise(tt.amount); got != tt.want {
			t.Errorf("AmountInPaise(%v) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}

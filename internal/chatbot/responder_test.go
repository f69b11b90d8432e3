package chatbot

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    Category
	}{
		{"Where is my order?", CategoryOrderTracking},
		{"track my order please", CategoryOrderTracking},
		{"order status", CategoryOrderTracking},
		{"I'm looking for a phone", CategoryProductSearch},
		{"show me laptops", CategoryProductSearch},
		{"how long does delivery take", CategoryDelivery},
		{"shipping charges?", CategoryDelivery},
		{"I want a refund", CategoryReturns},
		{"can I exchange this", CategoryReturns},
		{"do you accept cod", CategoryPayment},
		{"payment for my order", CategoryPayment},
		{"hello there", CategoryGreeting},
		{"what is the meaning of life", CategoryDefault},
		{"", CategoryDefault},
	}
	for _, tt := range tests {
		if got := Classify(tt.message); got != tt.want {
			t.Errorf("Classify(%q) = %d, want %d", tt.message, got, tt.want)
		}
	}
}

func TestTrackingResponse(t *testing.T) {
	anonymous := TrackingResponse(nil)
	if !strings.Contains(anonymous, "please login") {
		t.Errorf("TrackingResponse(nil) = %q, want login prompt", anonymous)
	}

	got := TrackingResponse([]OrderSummary{
		{TrackingID: "SK1700000000000ABCD", Status: "shipped", TotalAmount: 1200},
	})
	if !strings.Contains(got, "Order #SK1700000000000ABCD: SHIPPED - ₹1200") {
		t.Errorf("TrackingResponse() = %q, missing order line", got)
	}
	if !strings.Contains(got, "Here are your recent orders:") {
		t.Errorf("TrackingResponse() = %q, missing header", got)
	}
}

func TestSearchResponse(t *testing.T) {
	got := SearchResponse([]string{"Mobiles", "Beauty"})
	if !strings.Contains(got, "We have: Mobiles, Beauty.") {
		t.Errorf("SearchResponse() = %q, missing category list", got)
	}

	empty := SearchResponse(nil)
	if strings.Contains(empty, "We have:") {
		t.Errorf("SearchResponse(nil) = %q, should not list categories", empty)
	}
}

func TestCannedResponse(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{CategoryDelivery, "Free delivery on orders above ₹499"},
		{CategoryReturns, "7-day easy returns"},
		{CategoryPayment, "Cash on Delivery (COD)"},
		{CategoryGreeting, "Welcome to ShopKart!"},
		{CategoryDefault, "I'm here to help!"},
	}
	for _, tt := range tests {
		if got := CannedResponse(tt.category); !strings.Contains(got, tt.want) {
			t.Errorf("CannedResponse(%d) = %q, want substring %q", tt.category, got, tt.want)
		}
	}
}

package checkout

import (
	"testing"

	"backend/internal/models"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "refunded", "PENDING"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true, want false", s)
		}
	}
}

func TestCancellable(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{models.OrderStatusPending, true},
		{models.OrderStatusConfirmed, true},
		{models.OrderStatusShipped, false},
		{models.OrderStatusDelivered, false},
		{models.OrderStatusCancelled, false},
	}
	for _, tt := range tests {
		if got := Cancellable(tt.status); got != tt.want {
			t.Errorf("Cancellable(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to confirmed", models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{"pending skips to shipped", models.OrderStatusPending, models.OrderStatusShipped, true},
		{"confirmed to shipped", models.OrderStatusConfirmed, models.OrderStatusShipped, true},
		{"shipped to delivered", models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{"no backwards move", models.OrderStatusShipped, models.OrderStatusConfirmed, false},
		{"no self transition", models.OrderStatusConfirmed, models.OrderStatusConfirmed, false},
		{"cancel pending", models.OrderStatusPending, models.OrderStatusCancelled, true},
		{"cancel confirmed", models.OrderStatusConfirmed, models.OrderStatusCancelled, true},
		{"cannot cancel shipped", models.OrderStatusShipped, models.OrderStatusCancelled, false},
		{"cannot cancel delivered", models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{"cancelled is terminal", models.OrderStatusCancelled, models.OrderStatusPending, false},
		{"delivered is terminal", models.OrderStatusDelivered, models.OrderStatusShipped, false},
		{"unknown target", models.OrderStatusPending, "refunded", false},
		{"unknown source", "archived", models.OrderStatusShipped, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

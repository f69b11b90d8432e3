package payment

import (
	"strings"
	"testing"
)

func TestCartDescription(t *testing.T) {
	got := CartDescription([]CartLine{
		{Name: "iPhone 15 Pro", Quantity: 2},
		{Name: "Sony WH-1000XM5", Quantity: 1},
	})
	want := "ShopKart Order: iPhone 15 Pro (2x), Sony WH-1000XM5 (1x)"
	if got != want {
		t.Errorf("CartDescription() = %q, want %q", got, want)
	}
}

func TestCartDescriptionEmpty(t *testing.T) {
	if got := CartDescription(nil); got != "ShopKart Order: " {
		t.Errorf("CartDescription(nil) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	short := "ShopKart Order: something small"
	if got := Truncate(short); got != short {
		t.Errorf("Truncate() changed a short description: %q", got)
	}

	long := strings.Repeat("a", 300)
	got := Truncate(long)
	if len(got) != maxDescriptionLen {
		t.Errorf("Truncate() length = %d, want %d", len(got), maxDescriptionLen)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Truncate() = %q, want ... suffix", got)
	}
	if got[:maxDescriptionLen-3] != long[:maxDescriptionLen-3] {
		t.Error("Truncate() altered the retained prefix")
	}

	exact := strings.Repeat("b", maxDescriptionLen)
	if got := Truncate(exact); got != exact {
		t.Error("Truncate() modified a description exactly at the limit")
	}
}

func TestCartDescriptionTruncatesLongCarts(t *testing.T) {
	lines := make([]CartLine, 20)
	for i := range lines {
		lines[i] = CartLine{Name: strings.Repeat("x", 30), Quantity: 1}
	}
	got := CartDescription(lines)
	if len(got) > maxDescriptionLen {
		t.Errorf("CartDescription() length = %d, exceeds %d", len(got), maxDescriptionLen)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("CartDescription() = %q, want ... suffix", got)
	}
}

package checkout

import (
	"strings"
	"testing"
)

func TestNewTrackingID(t *testing.T) {
	id := NewTrackingID()
	if !strings.HasPrefix(id, "SK") {
		t.Errorf("NewTrackingID() = %q, want SK prefix", id)
	}
	// "SK" + 13-digit millisecond timestamp + 4 random characters.
	if len(id) != 19 {
		t.Errorf("NewTrackingID() length = %d, want 19", len(id))
	}
	for _, r := range id[2:] {
		if !strings.ContainsRune(trackingAlphabet, r) {
			t.Errorf("NewTrackingID() contains %q outside the alphabet", r)
		}
	}
}

func TestNewTrackingIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id := NewTrackingID()
		if seen[id] {
			t.Fatalf("duplicate tracking id %q", id)
		}
		seen[id] = true
	}
}

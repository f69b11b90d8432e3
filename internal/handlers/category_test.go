package handlers

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Mobiles", "mobiles"},
		{"Home & Furniture", "home-&-furniture"},
		{"  Spaced  Out  ", "spaced-out"},
		{"already-slugged", "already-slugged"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.name); got != tt.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

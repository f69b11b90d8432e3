package payment

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"plain ten digits", "9123456780", "9123456780"},
		{"spaces stripped", "98765 43211", "9876543211"},
		{"country code makes it too long", "+919123456780", FallbackPhone},
		{"all same digit after stripping", "99-99999999", FallbackPhone},
		{"all same digit rejected", "8888888888", FallbackPhone},
		{"empty", "", FallbackPhone},
		{"letters only", "call me", FallbackPhone},
		{"formatted", "(912) 345-6780", "9123456780"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.phone); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

package handlers

import "testing"

func TestParsePaginationParamsDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("parsePaginationParams returned error: %v", err)
	}
	if page != 1 || limit != 12 {
		t.Fatalf("expected defaults 1/12, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsExplicit(t *testing.T) {
	page, limit, err := parsePaginationParams("3", "24")
	if err != nil {
		t.Fatalf("parsePaginationParams returned error: %v", err)
	}
	if page != 3 || limit != 24 {
		t.Fatalf("expected 3/24, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsInvalid(t *testing.T) {
	tests := [][2]string{
		{"0", "12"},
		{"-1", "12"},
		{"abc", "12"},
		{"1", "0"},
		{"1", "nope"},
	}
	for _, tt := range tests {
		if _, _, err := parsePaginationParams(tt[0], tt[1]); err == nil {
			t.Fatalf("expected error for page=%q limit=%q", tt[0], tt[1])
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int64
	}{
		{20, 12, 2},
		{12, 12, 1},
		{13, 12, 2},
		{0, 12, 0},
		{1, 12, 1},
		{100, 0, 0},
	}
	for _, tt := range tests {
		if got := totalPages(tt.total, tt.limit); got != tt.want {
			t.Fatalf("totalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestLowerCamel(t *testing.T) {
	if got := lowerCamel("ProductID"); got != "productID" {
		t.Fatalf("lowerCamel(ProductID) = %q", got)
	}
	if got := lowerCamel(""); got != "" {
		t.Fatalf("lowerCamel empty = %q", got)
	}
}

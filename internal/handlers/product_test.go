package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"backend/internal/models"
)

func TestProductSortOption(t *testing.T) {
	tests := []struct {
		sort string
		want bson.D
	}{
		{"price_low", bson.D{{Key: "price", Value: 1}}},
		{"price_high", bson.D{{Key: "price", Value: -1}}},
		{"rating", bson.D{{Key: "rating", Value: -1}}},
		{"newest", bson.D{{Key: "createdAt", Value: -1}}},
		{"", bson.D{{Key: "isFeatured", Value: -1}, {Key: "createdAt", Value: -1}}},
		{"bogus", bson.D{{Key: "isFeatured", Value: -1}, {Key: "createdAt", Value: -1}}},
	}
	for _, tt := range tests {
		got := productSortOption(tt.sort)
		if len(got) != len(tt.want) {
			t.Fatalf("productSortOption(%q) = %v, want %v", tt.sort, got, tt.want)
		}
		for i := range got {
			if got[i].Key != tt.want[i].Key || got[i].Value != tt.want[i].Value {
				t.Fatalf("productSortOption(%q) = %v, want %v", tt.sort, got, tt.want)
			}
		}
	}
}

func TestReviewAggregate(t *testing.T) {
	count, rating := reviewAggregate(nil, 4)
	if count != 1 || rating != 4 {
		t.Fatalf("first review: got %d/%v, want 1/4", count, rating)
	}

	existing := []models.Review{{Rating: 5}, {Rating: 3}}
	count, rating = reviewAggregate(existing, 4)
	if count != 3 {
		t.Fatalf("expected 3 reviews, got %d", count)
	}
	if rating != 4 {
		t.Fatalf("expected mean 4, got %v", rating)
	}
}

func TestDecorateProduct(t *testing.T) {
	p := models.Product{Price: 75, OriginalPrice: 100, Stock: 3}
	decorateProduct(&p)
	if !p.InStock {
		t.Fatal("expected InStock for positive stock")
	}
	if p.Discount != 25 {
		t.Fatalf("expected 25%% discount, got %d", p.Discount)
	}

	empty := models.Product{Price: 50, Stock: 0}
	decorateProduct(&empty)
	if empty.InStock {
		t.Fatal("expected out of stock at zero")
	}
	if empty.Discount != 0 {
		t.Fatalf("expected no discount without originalPrice, got %d", empty.Discount)
	}
}

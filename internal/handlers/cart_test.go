package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func TestApplyQuantityOverwrites(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: productID, Quantity: 1},
		{ProductID: primitive.NewObjectID(), Quantity: 2},
	}

	got := applyQuantity(items, productID, 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", got[0].Quantity)
	}
	if got[1].Quantity != 2 {
		t.Fatalf("other line changed: %d", got[1].Quantity)
	}
}

func TestApplyQuantityZeroRemoves(t *testing.T) {
	productID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: productID, Quantity: 3},
		{ProductID: other, Quantity: 1},
	}

	got := applyQuantity(items, productID, 0)
	if len(got) != 1 {
		t.Fatalf("expected 1 item after removal, got %d", len(got))
	}
	if got[0].ProductID != other {
		t.Fatal("wrong line removed")
	}
}

func TestApplyQuantityNegativeRemoves(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{{ProductID: productID, Quantity: 3}}

	if got := applyQuantity(items, productID, -2); len(got) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(got))
	}
}

func TestApplyQuantityUnknownProduct(t *testing.T) {
	items := []models.CartItem{{ProductID: primitive.NewObjectID(), Quantity: 2}}

	got := applyQuantity(items, primitive.NewObjectID(), 7)
	if len(got) != 1 || got[0].Quantity != 2 {
		t.Fatalf("unexpected change for unknown product: %+v", got)
	}
}

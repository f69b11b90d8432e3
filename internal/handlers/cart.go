package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

// resolvedCartProduct is the slice of the catalog attached to each
// cart line at read time.
type resolvedCartProduct struct {
	ID            primitive.ObjectID `json:"id"`
	Name          string             `json:"name"`
	Price         float64            `json:"price"`
	OriginalPrice float64            `json:"originalPrice"`
	Images        []string           `json:"images"`
	Stock         int                `json:"stock"`
}

type resolvedCartItem struct {
	Product  resolvedCartProduct `json:"product"`
	Quantity int                 `json:"quantity"`
}

type resolvedCart struct {
	ID    *primitive.ObjectID `json:"id,omitempty"`
	Items []resolvedCartItem  `json:"items"`
}

func resolveCart(ctx context.Context, db *mongo.Database, cart models.Cart) (resolvedCart, error) {
	view := resolvedCart{Items: []resolvedCartItem{}}
	if !cart.ID.IsZero() {
		id := cart.ID
		view.ID = &id
	}
	if len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	cursor, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return resolvedCart{}, err
	}
	defer cursor.Close(ctx)

	byID := make(map[primitive.ObjectID]models.Product, len(ids))
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return resolvedCart{}, err
		}
		byID[product.ID] = product
	}
	if err := cursor.Err(); err != nil {
		return resolvedCart{}, err
	}

	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			// Product removed from the catalog; drop the stale line
			// from the view.
			continue
		}
		view.Items = append(view.Items, resolvedCartItem{
			Product: resolvedCartProduct{
				ID:            product.ID,
				Name:          product.Name,
				Price:         product.Price,
				OriginalPrice: product.OriginalPrice,
				Images:        product.Images,
				Stock:         product.Stock,
			},
			Quantity: item.Quantity,
		})
	}

	return view, nil
}

func loadCart(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	return cart, err
}

func saveCart(ctx context.Context, db *mongo.Database, cart models.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	_, err := db.Collection("carts").ReplaceOne(
		ctx,
		bson.M{"userId": cart.UserID},
		cart,
		options.Replace().SetUpsert(true),
	)
	return err
}

// GetCart returns the caller's cart with lines resolved against the
// current catalog, or an empty cart when none exists.
func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		view, err := resolveCart(ctx, db, cart)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, view)
	}
}

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// AddToCart creates the cart on first use, increments an existing line
// or appends a new one.
func AddToCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/add"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		quantity := req.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("products").CountDocuments(ctx, bson.M{"_id": productID, "isActive": true})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count == 0 {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		found := false
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity += quantity
				found = true
				break
			}
		}
		if !found {
			cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
		}

		if err := saveCart(ctx, db, cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		view, err := resolveCart(ctx, db, cart)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] user %s added %s x%d", route, userID.Hex(), productID.Hex(), quantity)
		c.JSON(http.StatusOK, view)
	}
}

type updateCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItem overwrites a line's quantity; zero or below removes
// the line.
func UpdateCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/update"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req updateCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cart models.Cart
		if err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart); err != nil {
			respondWithError(c, http.StatusNotFound, route, "Cart not found")
			return
		}

		cart.Items = applyQuantity(cart.Items, productID, req.Quantity)

		if err := saveCart(ctx, db, cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		view, err := resolveCart(ctx, db, cart)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, view)
	}
}

// applyQuantity rewrites the line for productID: quantities at or
// below zero drop the line, anything else overwrites it. Unknown
// products leave the items untouched.
func applyQuantity(items []models.CartItem, productID primitive.ObjectID, quantity int) []models.CartItem {
	if quantity <= 0 {
		out := make([]models.CartItem, 0, len(items))
		for _, item := range items {
			if item.ProductID != productID {
				out = append(out, item)
			}
		}
		return out
	}

	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	return items
}

// RemoveFromCart drops the matching line; removing an absent product
// is not an error.
func RemoveFromCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/remove/:productId"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cart models.Cart
		if err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart); err != nil {
			respondWithError(c, http.StatusNotFound, route, "Cart not found")
			return
		}

		cart.Items = applyQuantity(cart.Items, productID, 0)

		if err := saveCart(ctx, db, cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		view, err := resolveCart(ctx, db, cart)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, view)
	}
}

// ClearCart deletes the cart document entirely.
func ClearCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/clear"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := db.Collection("carts").DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

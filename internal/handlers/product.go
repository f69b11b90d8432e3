package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/checkout"
	"backend/internal/models"
)

var (
	errInvalidCategory    = errors.New("invalid category id")
	errInvalidSeller      = errors.New("invalid seller id")
	errInvalidPrice       = errors.New("invalid price filter")
	errInvalidPriceValue  = errors.New("price must be greater than 0")
	errPriceAboveOriginal = errors.New("price must not exceed originalPrice")
	errNegativeStock      = errors.New("stock must not be negative")
	errCategoryNotFound   = errors.New("category not found")
)

/*
GET /products
Filters: category, search, minPrice, maxPrice, seller
Sort: price_low | price_high | rating | newest | default (featured first, then newest)
Pagination: page (default 1), limit (default 12)
*/
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		log.Printf(
			"[%s] hit page=%s limit=%s category=%s search=%s sort=%s",
			route,
			c.Query("page"),
			c.Query("limit"),
			c.Query("category"),
			c.Query("search"),
			c.Query("sort"),
		)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		filter, err := buildProductFilter(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		findOptions := options.Find().
			SetSort(productSortOption(c.Query("sort"))).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d of %d products", route, len(products), total)
		c.JSON(http.StatusOK, gin.H{
			"products":    products,
			"total":       total,
			"totalPages":  totalPages(total, limit),
			"currentPage": page,
		})
	}
}

func buildProductFilter(c *gin.Context) (bson.M, error) {
	filter := bson.M{"isActive": true}

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		categoryID, err := primitive.ObjectIDFromHex(category)
		if err != nil {
			return nil, errInvalidCategory
		}
		filter["category"] = categoryID
	}

	if seller := strings.TrimSpace(c.Query("seller")); seller != "" {
		sellerID, err := primitive.ObjectIDFromHex(seller)
		if err != nil {
			return nil, errInvalidSeller
		}
		filter["seller"] = sellerID
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		regex := bson.M{"$regex": search, "$options": "i"}
		filter["$or"] = []bson.M{
			{"name": regex},
			{"description": regex},
			{"brand": regex},
		}
	}

	price := bson.M{}
	if minPrice := strings.TrimSpace(c.Query("minPrice")); minPrice != "" {
		value, err := strconv.ParseFloat(minPrice, 64)
		if err != nil {
			return nil, errInvalidPrice
		}
		price["$gte"] = value
	}
	if maxPrice := strings.TrimSpace(c.Query("maxPrice")); maxPrice != "" {
		value, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil {
			return nil, errInvalidPrice
		}
		price["$lte"] = value
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	return filter, nil
}

func productSortOption(sort string) bson.D {
	switch sort {
	case "price_low":
		return bson.D{{Key: "price", Value: 1}}
	case "price_high":
		return bson.D{{Key: "price", Value: -1}}
	case "rating":
		return bson.D{{Key: "rating", Value: -1}}
	case "newest":
		return bson.D{{Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "isFeatured", Value: -1}, {Key: "createdAt", Value: -1}}
	}
}

// GetProduct returns a single product with its category resolved.
// Reviewer names are stored on the review at submission time.
func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "Product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		decorateProduct(&product)

		var category models.Category
		_ = db.Collection("categories").FindOne(ctx, bson.M{"_id": product.CategoryID}).Decode(&category)

		c.JSON(http.StatusOK, productDetail{Product: product, Category: category})
	}
}

// productDetail shadows the raw category id with the resolved document.
type productDetail struct {
	models.Product
	Category models.Category `json:"category"`
}

// GetFeaturedProducts returns up to 8 active featured products.
func GetFeaturedProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/featured/list"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Find(
			ctx,
			bson.M{"isActive": true, "isFeatured": true},
			options.Find().SetLimit(8),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, products)
	}
}

type addReviewRequest struct {
	Rating  float64 `json:"rating" binding:"required"`
	Comment string  `json:"comment"`
}

// AddReview appends one review per user per product and recomputes the
// aggregate rating. The duplicate guard rides on the update filter so
// a racing second review cannot slip through.
func AddReview(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products/:id/review"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req addReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Rating < 1 || req.Rating > 5 {
			respondWithError(c, http.StatusBadRequest, route, "rating must be between 1 and 5")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "Product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		for _, review := range product.Reviews {
			if review.UserID == userID {
				respondWithError(c, http.StatusBadRequest, route, "Already reviewed")
				return
			}
		}

		review := models.Review{
			UserID:    userID,
			Name:      c.GetString("name"),
			Rating:    req.Rating,
			Comment:   strings.TrimSpace(req.Comment),
			CreatedAt: time.Now(),
		}

		numReviews, rating := reviewAggregate(product.Reviews, req.Rating)

		res, err := db.Collection("products").UpdateOne(
			ctx,
			bson.M{"_id": productID, "reviews.user": bson.M{"$ne": userID}},
			bson.M{
				"$push": bson.M{"reviews": review},
				"$set": bson.M{
					"numReviews": numReviews,
					"rating":     rating,
					"updatedAt":  time.Now(),
				},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusBadRequest, route, "Already reviewed")
			return
		}

		var updated models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&updated); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		decorateProduct(&updated)

		c.JSON(http.StatusOK, updated)
	}
}

// reviewAggregate returns the review count and mean rating after
// appending one more rating.
func reviewAggregate(existing []models.Review, newRating float64) (int, float64) {
	sum := newRating
	for _, r := range existing {
		sum += r.Rating
	}
	count := len(existing) + 1
	return count, sum / float64(count)
}

func decorateProduct(p *models.Product) {
	p.InStock = p.Stock > 0
	p.Discount = checkout.DiscountPercent(p.OriginalPrice, p.Price)
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)

	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		decorateProduct(&product)
		products = append(products, product)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

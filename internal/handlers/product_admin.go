package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

type CreateProductRequest struct {
	Name           string                 `json:"name" binding:"required"`
	Description    string                 `json:"description" binding:"required"`
	Price          float64                `json:"price" binding:"required"`
	OriginalPrice  float64                `json:"originalPrice" binding:"required"`
	Category       string                 `json:"category" binding:"required"`
	Images         []string               `json:"images"`
	Stock          int                    `json:"stock"`
	Brand          string                 `json:"brand"`
	Specifications []models.Specification `json:"specifications"`
	IsFeatured     bool                   `json:"isFeatured"`
}

type ProductUpdateRequest struct {
	Name           *string                 `json:"name"`
	Description    *string                 `json:"description"`
	Price          *float64                `json:"price"`
	OriginalPrice  *float64                `json:"originalPrice"`
	Category       *string                 `json:"category"`
	Images         *[]string               `json:"images"`
	Stock          *int                    `json:"stock"`
	Brand          *string                 `json:"brand"`
	Specifications *[]models.Specification `json:"specifications"`
	IsActive       *bool                   `json:"isActive"`
	IsFeatured     *bool                   `json:"isFeatured"`
}

// CreateProduct inserts a catalog entry owned by the calling seller.
func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		categoryID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.Category))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid category id")
			return
		}

		if req.Price <= 0 || req.OriginalPrice <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "price and originalPrice must be greater than 0")
			return
		}
		if req.Price > req.OriginalPrice {
			respondWithError(c, http.StatusBadRequest, route, "price must not exceed originalPrice")
			return
		}
		if req.Stock < 0 {
			respondWithError(c, http.StatusBadRequest, route, "stock must not be negative")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := categoryExists(ctx, db, categoryID); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "category not found")
			return
		}

		now := time.Now()
		images := req.Images
		if images == nil {
			images = []string{}
		}
		product := models.Product{
			Name:           strings.TrimSpace(req.Name),
			Description:    req.Description,
			Price:          req.Price,
			OriginalPrice:  req.OriginalPrice,
			CategoryID:     categoryID,
			Images:         images,
			Stock:          req.Stock,
			Reviews:        []models.Review{},
			Specifications: req.Specifications,
			Brand:          strings.TrimSpace(req.Brand),
			SellerID:       &userID,
			IsActive:       true,
			IsFeatured:     req.IsFeatured,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		product.ID, _ = res.InsertedID.(primitive.ObjectID)
		decorateProduct(&product)

		log.Printf("[%s] product created: %s", route, product.ID.Hex())
		c.JSON(http.StatusCreated, product)
	}
}

// UpdateProduct applies a partial update. Sellers may only edit their
// own products; admins may edit any.
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products/:id"
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

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&existing); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "Product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if currentRole(c) != models.RoleAdmin {
			if existing.SellerID == nil || *existing.SellerID != userID {
				respondWithError(c, http.StatusForbidden, route, "Not authorized")
				return
			}
		}

		update, err := buildProductUpdate(ctx, db, existing, req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		var updated models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"_id": productID},
			bson.M{"$set": update},
			mongoFindOneAndUpdateAfter(),
		).Decode(&updated)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		decorateProduct(&updated)

		c.JSON(http.StatusOK, updated)
	}
}

func buildProductUpdate(ctx context.Context, db *mongo.Database, existing models.Product, req ProductUpdateRequest) (bson.M, error) {
	update := bson.M{"updatedAt": time.Now()}

	price := existing.Price
	originalPrice := existing.OriginalPrice

	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, errInvalidPriceValue
		}
		price = *req.Price
		update["price"] = price
	}
	if req.OriginalPrice != nil {
		if *req.OriginalPrice <= 0 {
			return nil, errInvalidPriceValue
		}
		originalPrice = *req.OriginalPrice
		update["originalPrice"] = originalPrice
	}
	if price > originalPrice {
		return nil, errPriceAboveOriginal
	}

	if req.Name != nil {
		update["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Category != nil {
		categoryID, err := primitive.ObjectIDFromHex(strings.TrimSpace(*req.Category))
		if err != nil {
			return nil, errInvalidCategory
		}
		if err := categoryExists(ctx, db, categoryID); err != nil {
			return nil, errCategoryNotFound
		}
		update["category"] = categoryID
	}
	if req.Images != nil {
		update["images"] = *req.Images
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, errNegativeStock
		}
		update["stock"] = *req.Stock
	}
	if req.Brand != nil {
		update["brand"] = strings.TrimSpace(*req.Brand)
	}
	if req.Specifications != nil {
		update["specifications"] = *req.Specifications
	}
	if req.IsActive != nil {
		update["isActive"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		update["isFeatured"] = *req.IsFeatured
	}

	return update, nil
}

func categoryExists(ctx context.Context, db *mongo.Database, categoryID primitive.ObjectID) error {
	count, err := db.Collection("categories").CountDocuments(ctx, bson.M{"_id": categoryID})
	if err != nil {
		return err
	}
	if count == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

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
	"golang.org/x/crypto/bcrypt"

	"backend/internal/models"
)

// SeedDatabase wipes and repopulates the demo catalog plus the admin
// account. Destructive by design; exposed for demo resets only.
func SeedDatabase(db *mongo.Database, adminEmail, adminPassword string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/seed"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		for _, collection := range []string{"users", "categories", "products"} {
			if _, err := db.Collection(collection).DeleteMany(ctx, bson.M{}); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "password hash failed")
			return
		}

		now := time.Now()
		admin := models.User{
			Name:         "Admin",
			Email:        adminEmail,
			PasswordHash: string(hash),
			Phone:        "1234567890",
			Role:         models.RoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := db.Collection("users").InsertOne(ctx, admin); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		categories := []models.Category{
			{Name: "Mobiles", Slug: "mobiles", Description: "Smartphones & Accessories", Image: "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=100", IsActive: true, CreatedAt: now},
			{Name: "Electronics", Slug: "electronics", Description: "TV, Laptops, Cameras", Image: "https://images.unsplash.com/photo-1593359677879-a4bb92f829d1?w=100", IsActive: true, CreatedAt: now},
			{Name: "Fashion", Slug: "fashion", Description: "Clothing, Footwear, Watches", Image: "https://images.unsplash.com/photo-1542272604-787c3835535d?w=100", IsActive: true, CreatedAt: now},
			{Name: "Home & Furniture", Slug: "home-furniture", Description: "Furniture, Decor, Kitchen", Image: "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=100", IsActive: true, CreatedAt: now},
			{Name: "Beauty", Slug: "beauty", Description: "Makeup, Skincare, Perfumes", Image: "https://images.unsplash.com/photo-1596462502278-27bfdc403348?w=100", IsActive: true, CreatedAt: now},
		}

		categoryDocs := make([]interface{}, len(categories))
		for i := range categories {
			categories[i].ID = primitive.NewObjectID()
			categoryDocs[i] = categories[i]
		}
		if _, err := db.Collection("categories").InsertMany(ctx, categoryDocs); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		mobiles, electronics := categories[0].ID, categories[1].ID
		products := []models.Product{
			{Name: "iPhone 15 Pro", Description: "Latest iPhone with A17 Pro chip", Price: 159900, OriginalPrice: 179900, CategoryID: mobiles, Images: []string{"https://images.unsplash.com/photo-1695048133142-1a20484d2569?w=400"}, Stock: 25, Rating: 4.7, NumReviews: 2341, Reviews: []models.Review{}, Brand: "Apple", IsActive: true, IsFeatured: true, CreatedAt: now, UpdatedAt: now},
			{Name: "Samsung Galaxy S24", Description: "Premium Android smartphone", Price: 134999, OriginalPrice: 149999, CategoryID: mobiles, Images: []string{"https://images.unsplash.com/photo-1610945265064-0e34e5519bbf?w=400"}, Stock: 30, Rating: 4.6, NumReviews: 1892, Reviews: []models.Review{}, Brand: "Samsung", IsActive: true, IsFeatured: true, CreatedAt: now, UpdatedAt: now},
			{Name: "MacBook Air M3", Description: "Apple MacBook Air with M3 chip", Price: 134900, OriginalPrice: 144900, CategoryID: electronics, Images: []string{"https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=400"}, Stock: 20, Rating: 4.8, NumReviews: 1567, Reviews: []models.Review{}, Brand: "Apple", IsActive: true, IsFeatured: true, CreatedAt: now, UpdatedAt: now},
			{Name: "Sony WH-1000XM5", Description: "Premium noise cancelling headphones", Price: 29990, OriginalPrice: 34990, CategoryID: electronics, Images: []string{"https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400"}, Stock: 40, Rating: 4.7, NumReviews: 5678, Reviews: []models.Review{}, Brand: "Sony", IsActive: true, IsFeatured: true, CreatedAt: now, UpdatedAt: now},
		}

		productDocs := make([]interface{}, len(products))
		for i := range products {
			productDocs[i] = products[i]
		}
		if _, err := db.Collection("products").InsertMany(ctx, productDocs); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] database reseeded", route)
		c.JSON(http.StatusOK, gin.H{
			"message": "Database seeded successfully!",
			"stats": gin.H{
				"users":      1,
				"categories": len(categories),
				"products":   len(products),
			},
		})
	}
}

// Health is the liveness probe.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "ShopKart API is running"})
	}
}

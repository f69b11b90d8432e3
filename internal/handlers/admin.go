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
	"golang.org/x/sync/errgroup"

	"backend/internal/models"
)

// GetAdminStats aggregates collection counts and total revenue for the
// dashboard. The lookups are independent reads, so they run
// concurrently.
func GetAdminStats(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/stats"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var users, products, orders, categories int64
		var revenue float64

		g, gctx := errgroup.WithContext(ctx)
		count := func(collection string, out *int64) func() error {
			return func() error {
				total, err := db.Collection(collection).CountDocuments(gctx, bson.M{})
				if err != nil {
					return err
				}
				*out = total
				return nil
			}
		}
		g.Go(count("users", &users))
		g.Go(count("products", &products))
		g.Go(count("orders", &orders))
		g.Go(count("categories", &categories))
		g.Go(func() error {
			cursor, err := db.Collection("orders").Aggregate(gctx, mongo.Pipeline{
				{{Key: "$match", Value: bson.M{"status": bson.M{"$ne": models.OrderStatusCancelled}}}},
				{{Key: "$group", Value: bson.M{"_id": nil, "revenue": bson.M{"$sum": "$totalAmount"}}}},
			})
			if err != nil {
				return err
			}
			defer cursor.Close(gctx)

			var result []struct {
				Revenue float64 `bson:"revenue"`
			}
			if err := cursor.All(gctx, &result); err != nil {
				return err
			}
			if len(result) > 0 {
				revenue = result[0].Revenue
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"users":      users,
			"products":   products,
			"orders":     orders,
			"categories": categories,
			"revenue":    revenue,
		})
	}
}

// GetUsers lists all accounts for the admin view.
func GetUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/users"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("users").Find(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateUserRole mutates an account's role.
func UpdateUserRole(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/users/:id/role"
		defer handlePanic(c, route)

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if !models.ValidRole(req.Role) {
			respondWithError(c, http.StatusBadRequest, route, "invalid role")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err = db.Collection("users").FindOneAndUpdate(
			ctx,
			bson.M{"_id": userID},
			bson.M{"$set": bson.M{"role": req.Role, "updatedAt": time.Now()}},
			mongoFindOneAndUpdateAfter(),
		).Decode(&user)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "user not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] user %s role set to %s", route, user.ID.Hex(), user.Role)
		c.JSON(http.StatusOK, user)
	}
}

package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/chatbot"
	"backend/internal/models"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat answers shopping questions. When an LLM is configured it gets
// first crack, with current product names as context; any failure
// falls back to the keyword responder. Authenticated callers get their
// recent orders interpolated into tracking answers.
func Chat(db *mongo.Database, llm *chatbot.LLM) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /chatbot"
		defer handlePanic(c, route)

		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Message is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		if llm != nil {
			reply, err := llm.Reply(ctx, productContext(ctx, db), req.Message)
			if err == nil {
				c.JSON(http.StatusOK, gin.H{"response": reply})
				return
			}
			log.Printf("[%s] llm error, falling back: %v", route, err)
		}

		c.JSON(http.StatusOK, gin.H{"response": fallbackResponse(ctx, c, db, req.Message)})
	}
}

func fallbackResponse(ctx context.Context, c *gin.Context, db *mongo.Database, message string) string {
	switch chatbot.Classify(message) {
	case chatbot.CategoryOrderTracking:
		userID, ok := currentUserID(c)
		if !ok {
			return chatbot.TrackingResponse(nil)
		}
		return chatbot.TrackingResponse(recentOrders(ctx, db, userID))
	case chatbot.CategoryProductSearch:
		return chatbot.SearchResponse(activeCategoryNames(ctx, db))
	default:
		return chatbot.CannedResponse(chatbot.Classify(message))
	}
}

func recentOrders(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) []chatbot.OrderSummary {
	cursor, err := db.Collection("orders").Find(
		ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(3),
	)
	if err != nil {
		return nil
	}
	defer cursor.Close(ctx)

	var summaries []chatbot.OrderSummary
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return nil
		}
		summaries = append(summaries, chatbot.OrderSummary{
			TrackingID:  order.TrackingID,
			Status:      order.Status,
			TotalAmount: order.TotalAmount,
		})
	}
	return summaries
}

func activeCategoryNames(ctx context.Context, db *mongo.Database) []string {
	cursor, err := db.Collection("categories").Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil
	}
	defer cursor.Close(ctx)

	var names []string
	for cursor.Next(ctx) {
		var category models.Category
		if err := cursor.Decode(&category); err != nil {
			return nil
		}
		names = append(names, category.Name)
	}
	return names
}

func productContext(ctx context.Context, db *mongo.Database) string {
	cursor, err := db.Collection("products").Find(
		ctx,
		bson.M{"isActive": true},
		options.Find().SetLimit(20).SetProjection(bson.M{"name": 1, "price": 1}),
	)
	if err != nil {
		return ""
	}
	defer cursor.Close(ctx)

	var parts []string
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return ""
		}
		parts = append(parts, fmt.Sprintf("%s - ₹%.0f", product.Name, product.Price))
	}
	return strings.Join(parts, ", ")
}

package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
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

var errEmptyCart = errors.New("Cart is empty")

type outOfStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e outOfStockError) Error() string {
	return "product out of stock"
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

// checkoutParams carries everything placeOrderFromCart needs beyond
// the cart itself.
type checkoutParams struct {
	UserID            primitive.ObjectID
	ShippingAddress   models.ShippingAddress
	PaymentMethod     string
	PaymentStatus     string
	Status            string
	RazorpayOrderID   string
	RazorpayPaymentID string
}

// placeOrderFromCart is the single checkout sequence shared by the COD
// and online-payment paths: snapshot the cart at current prices,
// persist the order, decrement stock under a quantity guard and delete
// the cart. Everything runs in one session transaction; a failed stock
// guard aborts the whole order.
func placeOrderFromCart(ctx context.Context, db *mongo.Database, params checkoutParams) (models.Order, error) {
	var cart models.Cart
	err := db.Collection("carts").FindOne(ctx, bson.M{"userId": params.UserID}).Decode(&cart)
	if err == mongo.ErrNoDocuments || (err == nil && len(cart.Items) == 0) {
		return models.Order{}, errEmptyCart
	}
	if err != nil {
		return models.Order{}, err
	}

	session, err := db.Client().StartSession()
	if err != nil {
		return models.Order{}, err
	}
	defer session.EndSession(ctx)

	var order models.Order
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		items := make([]models.OrderItem, 0, len(cart.Items))
		lines := make([]checkout.Line, 0, len(cart.Items))

		for _, item := range cart.Items {
			var product models.Product
			err := db.Collection("products").FindOne(
				sessCtx,
				bson.M{"_id": item.ProductID, "isActive": true},
			).Decode(&product)
			if err == mongo.ErrNoDocuments {
				return nil, productNotFoundError{ProductID: item.ProductID}
			}
			if err != nil {
				return nil, err
			}

			if product.Stock < item.Quantity {
				return nil, outOfStockError{
					ProductID: item.ProductID,
					Available: product.Stock,
					Requested: item.Quantity,
				}
			}

			image := ""
			if len(product.Images) > 0 {
				image = product.Images[0]
			}
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Image:     image,
				Price:     product.Price,
				Quantity:  item.Quantity,
			})
			lines = append(lines, checkout.Line{Price: product.Price, Quantity: item.Quantity})

			res, err := db.Collection("products").UpdateOne(
				sessCtx,
				bson.M{"_id": item.ProductID, "stock": bson.M{"$gte": item.Quantity}},
				bson.M{"$inc": bson.M{"stock": -item.Quantity}},
			)
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, outOfStockError{
					ProductID: item.ProductID,
					Available: product.Stock,
					Requested: item.Quantity,
				}
			}
		}

		totals := checkout.ComputeTotals(lines, 0)
		now := time.Now()
		order = models.Order{
			UserID:            params.UserID,
			Items:             items,
			ShippingAddress:   params.ShippingAddress,
			PaymentMethod:     params.PaymentMethod,
			PaymentStatus:     params.PaymentStatus,
			ItemsTotal:        totals.ItemsTotal,
			ShippingCharge:    totals.ShippingCharge,
			Discount:          totals.Discount,
			TotalAmount:       totals.TotalAmount,
			Status:            params.Status,
			TrackingID:        checkout.NewTrackingID(),
			RazorpayOrderID:   params.RazorpayOrderID,
			RazorpayPaymentID: params.RazorpayPaymentID,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		res, err := db.Collection("orders").InsertOne(sessCtx, order)
		if err != nil {
			return nil, err
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = id
		}

		if _, err := db.Collection("carts").DeleteOne(sessCtx, bson.M{"userId": params.UserID}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return models.Order{}, err
	}

	return order, nil
}

func respondCheckoutError(c *gin.Context, route string, err error) {
	var stockErr outOfStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Insufficient stock",
			"productId": stockErr.ProductID.Hex(),
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
		return
	}
	var notFoundErr productNotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Product not found",
			"productId": notFoundErr.ProductID.Hex(),
		})
		return
	}
	if errors.Is(err, errEmptyCart) {
		respondWithError(c, http.StatusBadRequest, route, "Cart is empty")
		return
	}
	respondWithError(c, http.StatusInternalServerError, route, "db error")
}

type createOrderRequest struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
}

// CreateOrder is the pay-on-delivery checkout path.
func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if !models.ValidPaymentMethod(req.PaymentMethod) {
			respondWithError(c, http.StatusBadRequest, route, "invalid payment method")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		order, err := placeOrderFromCart(ctx, db, checkoutParams{
			UserID:          userID,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			PaymentStatus:   models.PaymentStatusPending,
			Status:          models.OrderStatusPending,
		})
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		log.Printf("[%s] order %s created for user %s", route, order.TrackingID, userID.Hex())
		c.JSON(http.StatusCreated, order)
	}
}

// GetMyOrders returns the caller's orders, newest first.
func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/my-orders"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(
			ctx,
			bson.M{"userId": userID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

// GetOrder returns one order to its owner or an admin.
func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "Order not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if order.UserID != userID && currentRole(c) != models.RoleAdmin {
			respondWithError(c, http.StatusForbidden, route, "Not authorized")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder cancels an order still in pending or confirmed and
// restores the stock of every item.
func CancelOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /orders/:id/cancel"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req cancelOrderRequest
		_ = c.ShouldBindJSON(&req)
		reason := strings.TrimSpace(req.Reason)
		if reason == "" {
			reason = "Cancelled by user"
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "Order not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if order.UserID != userID {
			respondWithError(c, http.StatusForbidden, route, "Not authorized")
			return
		}

		updated, err := cancelAndRestock(ctx, db, order, reason)
		if err != nil {
			if errors.Is(err, errNotCancellable) {
				respondWithError(c, http.StatusBadRequest, route, "Cannot cancel this order")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] order %s cancelled", route, updated.TrackingID)
		c.JSON(http.StatusOK, updated)
	}
}

var errNotCancellable = errors.New("order is not cancellable")

// cancelAndRestock flips the order to cancelled and restores stock in
// one transaction. The status filter on the update keeps two
// concurrent cancellations from restocking twice.
func cancelAndRestock(ctx context.Context, db *mongo.Database, order models.Order, reason string) (models.Order, error) {
	if !checkout.Cancellable(order.Status) {
		return models.Order{}, errNotCancellable
	}

	session, err := db.Client().StartSession()
	if err != nil {
		return models.Order{}, err
	}
	defer session.EndSession(ctx)

	var updated models.Order
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		err := db.Collection("orders").FindOneAndUpdate(
			sessCtx,
			bson.M{
				"_id":    order.ID,
				"status": bson.M{"$in": []string{models.OrderStatusPending, models.OrderStatusConfirmed}},
			},
			bson.M{"$set": bson.M{
				"status":       models.OrderStatusCancelled,
				"cancelledAt":  now,
				"cancelReason": reason,
				"updatedAt":    now,
			}},
			mongoFindOneAndUpdateAfter(),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			return nil, errNotCancellable
		}
		if err != nil {
			return nil, err
		}

		for _, item := range updated.Items {
			_, err := db.Collection("products").UpdateOne(
				sessCtx,
				bson.M{"_id": item.ProductID},
				bson.M{"$inc": bson.M{"stock": item.Quantity}},
			)
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return models.Order{}, err
	}

	return updated, nil
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus is the admin fulfillment mutation. Transitions are
// forward-only; moving to cancelled restores stock like a user
// cancellation; delivered stamps deliveredAt.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /orders/:id/status"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if !checkout.ValidStatus(req.Status) {
			respondWithError(c, http.StatusBadRequest, route, "invalid status")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "Order not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if !checkout.CanTransition(order.Status, req.Status) {
			respondWithError(c, http.StatusBadRequest, route, "illegal status transition")
			return
		}

		if req.Status == models.OrderStatusCancelled {
			updated, err := cancelAndRestock(ctx, db, order, "Cancelled by admin")
			if err != nil {
				if errors.Is(err, errNotCancellable) {
					respondWithError(c, http.StatusBadRequest, route, "Cannot cancel this order")
					return
				}
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			c.JSON(http.StatusOK, updated)
			return
		}

		now := time.Now()
		update := bson.M{"status": req.Status, "updatedAt": now}
		if req.Status == models.OrderStatusDelivered {
			update["deliveredAt"] = now
		}

		var updated models.Order
		err = db.Collection("orders").FindOneAndUpdate(
			ctx,
			bson.M{"_id": orderID, "status": order.Status},
			bson.M{"$set": update},
			mongoFindOneAndUpdateAfter(),
		).Decode(&updated)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusConflict, route, "order changed concurrently")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] order %s: %s -> %s", route, updated.TrackingID, order.Status, updated.Status)
		c.JSON(http.StatusOK, updated)
	}
}

// orderWithUser attaches the resolved owner to an admin listing row.
type orderWithUser struct {
	models.Order
	User *loginResponseUser `json:"user,omitempty"`
}

// GetAllOrders lists every order for the admin view, newest first,
// with owner name/email resolved.
func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/admin/all"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(
			ctx,
			bson.M{},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		userIDs := make([]primitive.ObjectID, 0, len(orders))
		seen := map[primitive.ObjectID]struct{}{}
		for _, order := range orders {
			if _, ok := seen[order.UserID]; ok {
				continue
			}
			seen[order.UserID] = struct{}{}
			userIDs = append(userIDs, order.UserID)
		}

		usersByID := map[primitive.ObjectID]models.User{}
		if len(userIDs) > 0 {
			userCursor, err := db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			defer userCursor.Close(ctx)

			for userCursor.Next(ctx) {
				var user models.User
				if err := userCursor.Decode(&user); err != nil {
					respondWithError(c, http.StatusInternalServerError, route, "decode error")
					return
				}
				usersByID[user.ID] = user
			}
		}

		out := make([]orderWithUser, 0, len(orders))
		for _, order := range orders {
			row := orderWithUser{Order: order}
			if user, ok := usersByID[order.UserID]; ok {
				row.User = &loginResponseUser{ID: user.ID.Hex(), Name: user.Name, Email: user.Email, Role: user.Role}
			}
			out = append(out, row)
		}

		c.JSON(http.StatusOK, out)
	}
}

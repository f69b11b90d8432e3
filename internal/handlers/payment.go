package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/checkout"
	"backend/internal/models"
	"backend/internal/payment"
)

// cartCheckoutLines loads the caller's cart and prices every line at
// the current catalog price. Fails with errEmptyCart when there is
// nothing to pay for.
func cartCheckoutLines(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) ([]checkout.Line, []payment.CartLine, error) {
	var cart models.Cart
	err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments || (err == nil && len(cart.Items) == 0) {
		return nil, nil, errEmptyCart
	}
	if err != nil {
		return nil, nil, err
	}

	view, err := resolveCart(ctx, db, cart)
	if err != nil {
		return nil, nil, err
	}
	if len(view.Items) == 0 {
		return nil, nil, errEmptyCart
	}

	lines := make([]checkout.Line, 0, len(view.Items))
	named := make([]payment.CartLine, 0, len(view.Items))
	for _, item := range view.Items {
		lines = append(lines, checkout.Line{Price: item.Product.Price, Quantity: item.Quantity})
		named = append(named, payment.CartLine{Name: item.Product.Name, Quantity: item.Quantity})
	}
	return lines, named, nil
}

type createPaymentOrderRequest struct {
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
}

// CreatePaymentOrder starts the online-payment path: totals from the
// cart, a gateway order for the amount in paise, and the prefill data
// the client checkout widget needs.
func CreatePaymentOrder(db *mongo.Database, gw payment.Gateway, keyID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment/create-order"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req createPaymentOrderRequest
		_ = c.ShouldBindJSON(&req)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		lines, _, err := cartCheckoutLines(ctx, db, userID)
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		totals := checkout.ComputeTotals(lines, 0)
		receipt := "SK_" + uuid.NewString()

		gatewayOrder, err := gw.CreateOrder(
			checkout.AmountInPaise(totals.TotalAmount),
			"INR",
			receipt,
			map[string]interface{}{
				"userId":        userID.Hex(),
				"customerName":  c.GetString("name"),
				"customerEmail": c.GetString("email"),
			},
		)
		if err != nil {
			log.Printf("[%s] gateway error: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "Payment initialization failed")
			return
		}

		contact := ""
		if req.ShippingAddress != nil {
			contact = req.ShippingAddress.Phone
		}

		c.JSON(http.StatusOK, gin.H{
			"orderId":     gatewayOrder["id"],
			"amount":      totals.TotalAmount,
			"currency":    "INR",
			"keyId":       keyID,
			"name":        "ShopKart",
			"description": "Order Payment",
			"prefill": gin.H{
				"name":    c.GetString("name"),
				"email":   c.GetString("email"),
				"contact": contact,
			},
		})
	}
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string                 `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string                 `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string                 `json:"razorpay_signature" binding:"required"`
	ShippingAddress   models.ShippingAddress `json:"shippingAddress"`
}

// VerifyPayment checks the gateway callback signature and, on success,
// runs the same checkout sequence as COD with the payment already
// captured.
func VerifyPayment(db *mongo.Database, keySecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment/verify"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req verifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !payment.VerifySignature(keySecret, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
			log.Printf("[%s] signature mismatch for gateway order %s", route, req.RazorpayOrderID)
			respondWithError(c, http.StatusBadRequest, route, "Invalid payment signature")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		order, err := placeOrderFromCart(ctx, db, checkoutParams{
			UserID:            userID,
			ShippingAddress:   req.ShippingAddress,
			PaymentMethod:     models.PaymentMethodOnline,
			PaymentStatus:     models.PaymentStatusPaid,
			Status:            models.OrderStatusConfirmed,
			RazorpayOrderID:   req.RazorpayOrderID,
			RazorpayPaymentID: req.RazorpayPaymentID,
		})
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		log.Printf("[%s] order %s paid via gateway", route, order.TrackingID)
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

type customerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type generateLinkRequest struct {
	Amount       float64       `json:"amount"`
	Description  string        `json:"description"`
	CustomerInfo *customerInfo `json:"customerInfo"`
}

func linkCustomer(c *gin.Context, info *customerInfo, fallbackPhone string) map[string]interface{} {
	name := c.GetString("name")
	email := c.GetString("email")
	phone := fallbackPhone
	if info != nil {
		if strings.TrimSpace(info.Name) != "" {
			name = info.Name
		}
		if strings.TrimSpace(info.Email) != "" {
			email = info.Email
		}
		if strings.TrimSpace(info.Phone) != "" {
			phone = info.Phone
		}
	}
	return map[string]interface{}{
		"name":    name,
		"email":   email,
		"contact": payment.NormalizePhone(phone),
	}
}

// GeneratePaymentLink mints a shareable gateway link for an arbitrary
// amount.
func GeneratePaymentLink(gw payment.Gateway, clientURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment/generate-link"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req generateLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Amount <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "Valid amount is required")
			return
		}

		description := strings.TrimSpace(req.Description)
		if description == "" {
			description = "Payment for ShopKart Order"
		}
		description = payment.Truncate(description)

		link, err := gw.CreatePaymentLink(map[string]interface{}{
			"amount":          checkout.AmountInPaise(req.Amount),
			"currency":        "INR",
			"accept_partial":  false,
			"description":     description,
			"customer":        linkCustomer(c, req.CustomerInfo, payment.FallbackPhone),
			"notify":          map[string]interface{}{"sms": true, "email": true},
			"reminder_enable": true,
			"notes": map[string]interface{}{
				"userId":      userID.Hex(),
				"generatedBy": c.GetString("name"),
				"type":        "payment_link",
			},
			"callback_url":    clientURL + "/payment-success",
			"callback_method": "get",
		})
		if err != nil {
			log.Printf("[%s] gateway error: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to generate payment link")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"paymentLink":   link["short_url"],
			"paymentLinkId": link["id"],
			"amount":        req.Amount,
			"description":   description,
		})
	}
}

type generateCartLinkRequest struct {
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
	CustomerInfo    *customerInfo           `json:"customerInfo"`
}

// GenerateCartLink mints a gateway link for the caller's current cart,
// describing the items in the link text.
func GenerateCartLink(db *mongo.Database, gw payment.Gateway, clientURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment/generate-cart-link"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req generateCartLinkRequest
		_ = c.ShouldBindJSON(&req)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		lines, named, err := cartCheckoutLines(ctx, db, userID)
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		totals := checkout.ComputeTotals(lines, 0)
		description := payment.CartDescription(named)

		fallbackPhone := payment.FallbackPhone
		if req.ShippingAddress != nil && strings.TrimSpace(req.ShippingAddress.Phone) != "" {
			fallbackPhone = req.ShippingAddress.Phone
		}

		link, err := gw.CreatePaymentLink(map[string]interface{}{
			"amount":          checkout.AmountInPaise(totals.TotalAmount),
			"currency":        "INR",
			"accept_partial":  false,
			"description":     description,
			"customer":        linkCustomer(c, req.CustomerInfo, fallbackPhone),
			"notify":          map[string]interface{}{"sms": true, "email": true},
			"reminder_enable": true,
			"notes": map[string]interface{}{
				"userId": userID.Hex(),
				"type":   "cart_payment_link",
			},
			"callback_url":    clientURL + "/payment-success",
			"callback_method": "get",
		})
		if err != nil {
			log.Printf("[%s] gateway error: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to generate payment link for cart")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"paymentLink":    link["short_url"],
			"paymentLinkId":  link["id"],
			"amount":         totals.TotalAmount,
			"itemsTotal":     totals.ItemsTotal,
			"shippingCharge": totals.ShippingCharge,
			"description":    description,
			"itemCount":      len(named),
		})
	}
}

// GetPaymentLinkStatus proxies the gateway's view of a link. The
// gateway stores amounts in paise; responses convert back to rupees.
func GetPaymentLinkStatus(gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /payment/link-status/:id"
		defer handlePanic(c, route)

		link, err := gw.FetchPaymentLink(c.Param("id"))
		if err != nil {
			log.Printf("[%s] gateway error: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to fetch payment link status")
			return
		}

		amount := 0.0
		if paise, ok := link["amount"].(float64); ok {
			amount = paise / 100
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"status":      link["status"],
			"amount":      amount,
			"currency":    link["currency"],
			"description": link["description"],
			"shortUrl":    link["short_url"],
			"createdAt":   link["created_at"],
			"expireBy":    link["expire_by"],
		})
	}
}

// PaymentLinkCallback handles the gateway's redirect after a hosted
// link payment: verify the signature and bounce the payer to the
// storefront's success or failure page. Links create no local order;
// reconciliation happens against the gateway's records.
func PaymentLinkCallback(keySecret, clientURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /payment/link-success/:id"
		defer handlePanic(c, route)

		paymentID := c.Query("razorpay_payment_id")
		linkID := c.Query("razorpay_payment_link_id")
		referenceID := c.Query("razorpay_payment_link_reference_id")
		linkStatus := c.Query("razorpay_payment_link_status")
		signature := c.Query("razorpay_signature")

		if linkStatus != "paid" {
			c.Redirect(http.StatusFound, clientURL+"/payment-failed?reason=payment_failed")
			return
		}

		if !payment.VerifyLinkSignature(keySecret, linkID, referenceID, signature) {
			log.Printf("[%s] signature mismatch for link %s", route, linkID)
			c.Redirect(http.StatusFound, clientURL+"/payment-failed?reason=signature_mismatch")
			return
		}

		c.Redirect(http.StatusFound, fmt.Sprintf(
			"%s/payment-success?payment_id=%s&link_id=%s",
			clientURL, paymentID, c.Param("id"),
		))
	}
}

// GetPaymentKey exposes the public gateway key for the client widget.
func GetPaymentKey(keyID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"key": keyID})
	}
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
	PaymentMethodUPI    = "upi"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"

	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderItem is an immutable snapshot of a product line captured at
// purchase time. Later product edits never change historical orders.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

type ShippingAddress struct {
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone" json:"phone"`
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Pincode string `bson:"pincode" json:"pincode"`
}

// Order is the persisted order document. Items and address are fixed
// at creation; only status, payment fields and the cancellation or
// delivery stamps change afterwards.
type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Items             []OrderItem        `bson:"items" json:"items"`
	ShippingAddress   ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod     string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus     string             `bson:"paymentStatus" json:"paymentStatus"`
	ItemsTotal        float64            `bson:"itemsTotal" json:"itemsTotal"`
	ShippingCharge    float64            `bson:"shippingCharge" json:"shippingCharge"`
	Discount          float64            `bson:"discount" json:"discount"`
	TotalAmount       float64            `bson:"totalAmount" json:"totalAmount"`
	Status            string             `bson:"status" json:"status"`
	TrackingID        string             `bson:"trackingId" json:"trackingId"`
	RazorpayOrderID   string             `bson:"razorpayOrderId,omitempty" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string             `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`
	DeliveredAt       *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CancelledAt       *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CancelReason      string             `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCOD, PaymentMethodOnline, PaymentMethodUPI:
		return true
	}
	return false
}

package models

import (
	"fmt"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Payment methods accepted at checkout.
const (
	PaymentCreditCard = "creditCard"
	PaymentPaypal     = "paypal"
)

// ShippingAddress is the checkout delivery block.
type ShippingAddress struct {
	FullName   string `bson:"full_name" json:"full_name" validate:"required,min=2"`
	Email      string `bson:"email" json:"email" validate:"required,email"`
	Address    string `bson:"address" json:"address" validate:"required,min=5"`
	City       string `bson:"city" json:"city" validate:"required"`
	State      string `bson:"state" json:"state" validate:"required"`
	PostalCode string `bson:"postal_code" json:"postal_code" validate:"required,min=3"`
}

// Order is an immutable record of a checkout. Items and the money
// amounts are snapshots; later catalog edits never touch them.
// OrderNumber carries a unique index.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user" json:"user_id"`
	OrderNumber     string             `bson:"order_number" json:"order_number"`
	Items           []CartItem         `bson:"items" json:"items"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	Tax             float64            `bson:"tax" json:"tax"`
	Total           float64            `bson:"total" json:"total"`
	ShippingAddress ShippingAddress    `bson:"shipping_address" json:"shipping_address"`
	PaymentMethod   string             `bson:"payment_method" json:"payment_method"`
	Status          string             `bson:"status" json:"status"`
	PaidAt          *time.Time         `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	DeliveredAt     *time.Time         `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// NewOrderNumber builds an order number: the GTE prefix, the last eight
// digits of the current epoch milliseconds, a dash, and a zero-padded
// four-digit random suffix. Collisions are possible and handled by the
// unique index plus regeneration in the repository.
func NewOrderNumber() string {
	ms := time.Now().UnixMilli()
	return fmt.Sprintf("GTE%08d-%04d", ms%100_000_000, rand.Intn(10_000))
}

// validTransitions is the order status machine. Delivered and cancelled
// are terminal.
var validTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCreditCard || m == PaymentPaypal
}

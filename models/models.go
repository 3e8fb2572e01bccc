package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment status values. Order.PaymentStatus mirrors the status of the
// order's most recent payment attempt.
const (
	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"
	PaymentStatusFailed  = "Failed"
)

// Payment is a single payment attempt against an order. Payments are
// created when a gateway session is initiated and mutated only by the
// reconciliation service. They are never deleted (audit trail).
type Payment struct {
	ID              primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	OrderID         primitive.ObjectID `json:"order" bson:"order"`
	TransactionID   string             `json:"transactionId" bson:"transactionId"`
	Amount          float64            `json:"amount" bson:"amount"`
	Status          string             `json:"status" bson:"status"`
	GatewayResponse bson.M             `json:"gatewayResponse,omitempty" bson:"gatewayResponse,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// OrderItem is one line of an order: a product reference with the quantity
// and the unit price captured at checkout time.
type OrderItem struct {
	ProductID primitive.ObjectID `json:"product" bson:"product"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	UnitPrice float64            `json:"unitPrice" bson:"unitPrice"`
}

// Order is created at checkout and immutable once paid, except for
// PaymentStatus which the reconciliation service keeps in sync with the
// payment record. FinalAmount is expected to equal
// TotalAmount - Discount + DeliveryCharge; it is stored as-is and never
// recomputed downstream.
type Order struct {
	ID              primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"user" bson:"user"`
	Products        []OrderItem        `json:"products" bson:"products"`
	TotalAmount     float64            `json:"totalAmount" bson:"totalAmount"`
	Discount        float64            `json:"discount" bson:"discount"`
	DeliveryCharge  float64            `json:"deliveryCharge" bson:"deliveryCharge"`
	FinalAmount     float64            `json:"finalAmount" bson:"finalAmount"`
	PaymentStatus   string             `json:"paymentStatus" bson:"paymentStatus"`
	PaymentMethod   string             `json:"paymentMethod" bson:"paymentMethod"`
	ShippingAddress string             `json:"shippingAddress" bson:"shippingAddress"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

type User struct {
	ID    primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
}

type Product struct {
	ID    primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name  string             `json:"name" bson:"name"`
	Price float64            `json:"price" bson:"price"`
}

// InvoiceItem is an order line with its product details resolved.
type InvoiceItem struct {
	ProductName string
	Quantity    int
	UnitPrice   float64
}

// OrderDetail is the fully populated order snapshot handed to the invoice
// renderer and the email template after a successful reconciliation.
type OrderDetail struct {
	Order
	User  User
	Items []InvoiceItem
}

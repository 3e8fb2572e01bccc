package models

import "time"

// Payment event types published after reconciliation.
const (
	EventPaymentSucceeded = "payment_succeeded"
)

// PaymentEvent is the message published to SNS after a payment reaches a
// terminal state, consumed by downstream order/notification services.
type PaymentEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
}

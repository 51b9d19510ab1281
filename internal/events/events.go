// Package events mendefinisikan event lifecycle checkout yang dipublikasikan
// best-effort ke Kafka untuk notifikasi back office. Checkout tidak pernah
// bergantung pada keberhasilan publish.
package events

import (
	"encoding/json"
	"time"
)

const (
	TypeCheckoutSucceeded      = "CheckoutSucceeded"
	TypeCheckoutPartialFailure = "CheckoutPartialFailure"
)

const (
	TopicCheckoutSucceeded = "checkout.succeeded"
	TopicCheckoutFailed    = "checkout.partial_failure"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id"` // order id / cart id
	Payload       json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	Price     int64  `json:"price"`
}

type CheckoutSucceededPayload struct {
	OrderID string    `json:"order_id"`
	CartID  string    `json:"cart_id"`
	Items   []ItemQty `json:"items"`
	Total   int64     `json:"total"`
}

type CheckoutPartialFailurePayload struct {
	CartID    string    `json:"cart_id"`
	Committed []ItemQty `json:"committed"`
	FailedID  string    `json:"failed_product_id"`
	Error     string    `json:"error"`
}

// PartitionKey: semua event satu cart dijaga urutannya.
func PartitionKey(cartID string) []byte { return []byte(cartID) }

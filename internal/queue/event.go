package queue

import "time"

// TransactionCompletedEvent is the message published to RabbitMQ when
// a transaction reaches the completed status. Downstream consumers
// (reporting, notifications) read these off the transaction.completed
// queue.
type TransactionCompletedEvent struct {
	TransactionID uint64    `json:"transaction_id"`
	ListingID     uint64    `json:"listing_id"`
	CollectorID   uint64    `json:"collector_id"`
	TransporterID *uint64   `json:"transporter_id,omitempty"`
	BuyerID       *uint64   `json:"buyer_id,omitempty"`
	MaterialType  string    `json:"material_type"`
	Quantity      float64   `json:"quantity"`
	Unit          string    `json:"unit"`
	TotalAmount   float64   `json:"total_amount"`
	CompletedAt   time.Time `json:"completed_at"`
}

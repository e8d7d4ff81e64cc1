package auditlog

import "time"

// Entry is the payload published to the audit queue for every order
// mutation.
type Entry struct {
	EventID         string    `json:"event_id"`
	Action          string    `json:"action"`
	OrderID         int64     `json:"order_id"`
	UserID          int64     `json:"user_id"`
	OrderStatus     string    `json:"order_status"`
	TotalPriceCents int64     `json:"total_price"`
	OccurredAt      time.Time `json:"occurred_at"`
}

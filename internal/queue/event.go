package queue

import "time"

// BookingInitiatedEvent is emitted after a checkout session has been
// created for a new order. Consumers use it for audit logging today and
// for payment reconciliation later; the session id is the join key back
// to the payment provider.
type BookingInitiatedEvent struct {
	OrderID       uint64    `json:"order_id"`
	TransactionID uint64    `json:"transaction_id"`
	UserID        uint64    `json:"user_id"`
	MessGroupID   uint64    `json:"mess_group_id"`
	MessName      string    `json:"mess_name"`
	RoomType      string    `json:"room_type"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	SessionID     string    `json:"session_id"`
	InitiatedAt   time.Time `json:"initiated_at"`
}

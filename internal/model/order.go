package model

import "time"

// Room types a booking may request. Each has an independent seat count
// and price on the listing.
const (
	RoomSingle = "single"
	RoomDouble = "double"
)

// ValidRoomType reports whether rt is a bookable room type.
func ValidRoomType(rt string) bool {
	return rt == RoomSingle || rt == RoomDouble
}

// Order statuses. The API creates orders as ACTIVE; CANCELLED is only
// produced by the checkout-failure compensation path. PAID is reserved
// for a future payment-confirmation consumer and is never set today.
const (
	OrderActive    = "ACTIVE"
	OrderCancelled = "CANCELLED"
	OrderPaid      = "PAID"
)

// Transaction statuses.
const (
	TxPending = "PENDING"
	TxFailed  = "FAILED"
)

// Order represents a row in the `orders` table: one booking attempt by
// a user against a listing. An ACTIVE order both blocks duplicate
// bookings and consumes a seat of its room type.
type Order struct {
	ID          uint64    // orders.id
	UserID      uint64    // orders.user_id
	MessGroupID uint64    // orders.mess_group_id
	RoomType    string    // orders.room_type (single|double)
	Status      string    // orders.status
	CreatedAt   time.Time // orders.created_at
	UpdatedAt   time.Time // orders.updated_at
}

// Transaction represents a row in the `transactions` table. Amount is
// the listing price for the booked room type at the moment of booking.
// SessionRef holds the payment provider's checkout session id once the
// session has been created.
type Transaction struct {
	ID         uint64    // transactions.id
	OrderID    uint64    // transactions.order_id
	Amount     float64   // transactions.amount
	Currency   string    // transactions.currency
	Status     string    // transactions.status
	SessionRef *string   // transactions.session_ref (nullable)
	CreatedAt  time.Time // transactions.created_at
}

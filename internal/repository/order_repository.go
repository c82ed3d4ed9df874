package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/messbari/mess-booking/internal/model"
)

// OrderRepo provides persistence for the `orders` table. The methods
// suffixed Tx run inside the booking transaction so the duplicate and
// capacity checks observe the same snapshot the inserts commit into;
// the caller owns commit/rollback.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// HasActiveTx reports whether the user already holds an ACTIVE order
// against the listing.
func (r *OrderRepo) HasActiveTx(ctx context.Context, tx *sql.Tx, userID, messGroupID uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM orders
       WHERE user_id = ? AND mess_group_id = ? AND status = 'ACTIVE'`
	var n int
	if err := tx.QueryRowContext(ctx, q, userID, messGroupID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountActiveTx returns how many ACTIVE orders of the given room type
// exist against the listing, i.e. how many seats of that type are
// already consumed.
func (r *OrderRepo) CountActiveTx(ctx context.Context, tx *sql.Tx, messGroupID uint64, roomType string) (uint32, error) {
	const q = `SELECT COUNT(*) FROM orders
       WHERE mess_group_id = ? AND room_type = ? AND status = 'ACTIVE'`
	var n uint32
	if err := tx.QueryRowContext(ctx, q, messGroupID, roomType).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateTx inserts a new order within the scope of an existing
// transaction and populates the generated ID on the record.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders (user_id, mess_group_id, room_type, status) VALUES (?,?,?,?)`
	res, err := tx.ExecContext(ctx, q, o.UserID, o.MessGroupID, o.RoomType, o.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

// Cancel flips an order to CANCELLED. Used by the checkout-failure
// compensation path so a failed attempt stops consuming a seat and no
// longer trips the duplicate-booking guard.
func (r *OrderRepo) Cancel(ctx context.Context, orderID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ?`, model.OrderCancelled, orderID)
	return err
}

// OrderHistoryItem is an order joined with its listing and transaction
// for the booking-history endpoint.
type OrderHistoryItem struct {
	ID          uint64  `json:"id"`
	MessGroupID uint64  `json:"mess_group_id"`
	MessName    string  `json:"mess_name"`
	Location    string  `json:"location"`
	RoomType    string  `json:"room_type"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount"`
	CreatedAt   string  `json:"created_at"`
}

// ListByUser returns all orders placed by a user, newest first, joined
// with the listing name/location and the transaction amount. Orders
// against soft-deleted listings still appear: history is preserved by
// design.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]OrderHistoryItem, error) {
	const q = `SELECT o.id, o.mess_group_id, mg.name, mg.location, o.room_type,
              o.status, COALESCE(t.amount, 0), o.created_at
       FROM orders o
       JOIN mess_groups mg ON mg.id = o.mess_group_id
       LEFT JOIN transactions t ON t.order_id = o.id
       WHERE o.user_id = ?
       ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]OrderHistoryItem, 0)
	for rows.Next() {
		var it OrderHistoryItem
		var createdAt time.Time
		if err := rows.Scan(&it.ID, &it.MessGroupID, &it.MessName, &it.Location,
			&it.RoomType, &it.Status, &it.Amount, &createdAt); err != nil {
			return nil, err
		}
		it.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

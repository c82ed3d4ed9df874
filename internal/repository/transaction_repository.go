package repository

import (
	"context"
	"database/sql"

	"github.com/messbari/mess-booking/internal/model"
)

// TransactionRepo provides persistence for the `transactions` table.
// A transaction row is created together with its order inside the
// booking transaction; the checkout session reference is attached
// afterwards once the payment provider has answered.
type TransactionRepo struct {
	db *sql.DB
}

// NewTransactionRepo returns a new TransactionRepo bound to the given database.
func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

// CreateTx inserts a transaction row within the scope of an existing
// transaction and populates the generated ID on the record.
func (r *TransactionRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	const q = `INSERT INTO transactions (order_id, amount, currency, status) VALUES (?,?,?,?)`
	res, err := tx.ExecContext(ctx, q, t.OrderID, t.Amount, t.Currency, t.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// AttachSession stores the provider's checkout session id on the
// transaction so a later reconciliation job can match webhook events
// back to local rows.
func (r *TransactionRepo) AttachSession(ctx context.Context, txID uint64, sessionID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET session_ref = ? WHERE id = ?`, sessionID, txID)
	return err
}

// MarkFailed flips a transaction to FAILED when checkout-session
// creation did not succeed.
func (r *TransactionRepo) MarkFailed(ctx context.Context, txID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET status = ? WHERE id = ?`, model.TxFailed, txID)
	return err
}

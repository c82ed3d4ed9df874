package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/messbari/mess-booking/internal/model"
)

// MessGroupRepo provides CRUD operations for mess listings. All reads
// that serve public endpoints exclude soft-deleted rows; mutations
// verify ownership and surface ErrForbidden on mismatch so handlers
// can answer 403 instead of a generic failure.
type MessGroupRepo struct {
	db *sql.DB
}

// NewMessGroupRepo returns a new MessGroupRepo bound to the given database.
func NewMessGroupRepo(db *sql.DB) *MessGroupRepo { return &MessGroupRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// that span several repositories.
func (r *MessGroupRepo) DB() *sql.DB { return r.db }

// MessGroupDetail is a listing joined with its owner's contact fields,
// shaped for JSON responses. Field names follow the column names the
// web client already consumes.
type MessGroupDetail struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	SingleSeats  uint32    `json:"single_seats"`
	SinglePrice  float64   `json:"single_price"`
	DoubleSeats  uint32    `json:"double_seats"`
	DoublePrice  float64   `json:"double_price"`
	Rating       float64   `json:"rating"`
	Amenities    []string  `json:"amenities"`
	ContactPhone string    `json:"contact_phone"`
	ContactEmail string    `json:"contact_email"`
	Address      string    `json:"address"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	OwnerName    *string   `json:"owner_name,omitempty"`
	OwnerMobile  *string   `json:"owner_mobile,omitempty"`
	OwnerEmail   *string   `json:"owner_email,omitempty"`
}

const detailCols = `mg.id, mg.name, mg.location, mg.category, mg.description,
       mg.single_seats, mg.single_price, mg.double_seats, mg.double_price,
       mg.rating, mg.amenities, mg.contact_phone, mg.contact_email,
       mg.address, mg.is_active, mg.created_at,
       u.name, u.mobile, u.email`

const detailFrom = ` FROM mess_groups mg LEFT JOIN users u ON u.id = mg.owner_id`

func scanDetail(row interface{ Scan(...any) error }) (*MessGroupDetail, error) {
	var d MessGroupDetail
	var amenities sql.NullString
	var ownerName, ownerMobile, ownerEmail sql.NullString
	err := row.Scan(
		&d.ID, &d.Name, &d.Location, &d.Category, &d.Description,
		&d.SingleSeats, &d.SinglePrice, &d.DoubleSeats, &d.DoublePrice,
		&d.Rating, &amenities, &d.ContactPhone, &d.ContactEmail,
		&d.Address, &d.IsActive, &d.CreatedAt,
		&ownerName, &ownerMobile, &ownerEmail,
	)
	if err != nil {
		return nil, err
	}
	d.Amenities = decodeAmenities(amenities)
	if ownerName.Valid {
		d.OwnerName = &ownerName.String
	}
	if ownerMobile.Valid {
		d.OwnerMobile = &ownerMobile.String
	}
	if ownerEmail.Valid {
		d.OwnerEmail = &ownerEmail.String
	}
	return &d, nil
}

// decodeAmenities parses the JSON text column into a string slice,
// returning an empty slice for NULL or malformed content so responses
// always carry an array.
func decodeAmenities(ns sql.NullString) []string {
	out := []string{}
	if ns.Valid && strings.TrimSpace(ns.String) != "" {
		_ = json.Unmarshal([]byte(ns.String), &out)
	}
	return out
}

// List returns active listings joined with owner contact info, filtered
// by the optional location and category. Both filters match
// case-insensitively and combine independently. Ordering is rating
// descending with creation time descending as the tie-breaker, so new
// listings of equal rating surface first.
func (r *MessGroupRepo) List(ctx context.Context, location, category string) ([]MessGroupDetail, error) {
	q := `SELECT ` + detailCols + detailFrom + ` WHERE mg.is_active = 1`
	args := make([]any, 0, 2)
	if location != "" {
		q += ` AND LOWER(mg.location) = LOWER(?)`
		args = append(args, location)
	}
	if category != "" {
		q += ` AND LOWER(mg.category) = LOWER(?)`
		args = append(args, category)
	}
	q += ` ORDER BY mg.rating DESC, mg.created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]MessGroupDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID returns a single active listing with owner contact fields.
// Soft-deleted listings are treated as missing and yield
// ErrMessGroupNotFound.
func (r *MessGroupRepo) GetByID(ctx context.Context, id uint64) (*MessGroupDetail, error) {
	q := `SELECT ` + detailCols + detailFrom + ` WHERE mg.id = ? AND mg.is_active = 1`
	d, err := scanDetail(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrMessGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// getAnyStatus is the owner-facing variant of GetByID: it does not
// filter on is_active so mutations can return the row they touched
// even after a soft delete.
func (r *MessGroupRepo) getAnyStatus(ctx context.Context, id uint64) (*MessGroupDetail, error) {
	q := `SELECT ` + detailCols + detailFrom + ` WHERE mg.id = ?`
	d, err := scanDetail(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrMessGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts a new listing and populates the generated ID and
// timestamps on the provided model. The caller is responsible for
// validating enums and applying defaults (zero seat counts, empty
// amenities, the 4.0 rating seed).
func (r *MessGroupRepo) Create(ctx context.Context, mg *model.MessGroup) error {
	amenities, err := json.Marshal(mg.Amenities)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO mess_groups
           (owner_id, name, location, category, description,
            single_seats, single_price, double_seats, double_price,
            amenities, contact_phone, contact_email, address, rating, is_active)
         VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,1)`,
		mg.OwnerID, mg.Name, mg.Location, mg.Category, mg.Description,
		mg.SingleSeats, mg.SinglePrice, mg.DoubleSeats, mg.DoublePrice,
		string(amenities), mg.ContactPhone, mg.ContactEmail, mg.Address, mg.Rating)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	mg.ID = uint64(id)
	mg.IsActive = true
	// Query back timestamps assigned by the database.
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM mess_groups WHERE id = ?`, mg.ID).
		Scan(&mg.CreatedAt, &mg.UpdatedAt)
}

// MessGroupUpdate carries the optional fields of a partial update.
// Nil pointers leave the stored value untouched.
type MessGroupUpdate struct {
	Name         *string
	Location     *string
	Category     *string
	Description  *string
	SingleSeats  *uint32
	SinglePrice  *float64
	DoubleSeats  *uint32
	DoublePrice  *float64
	Amenities    *[]string
	ContactPhone *string
	ContactEmail *string
	Address      *string
}

// ownerOf returns the owner id of a listing regardless of its active
// flag, so ownership checks behave the same before and after a soft
// delete. Missing rows yield ErrMessGroupNotFound.
func (r *MessGroupRepo) ownerOf(ctx context.Context, id uint64) (uint64, error) {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT owner_id FROM mess_groups WHERE id = ?`, id).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return 0, ErrMessGroupNotFound
	}
	if err != nil {
		return 0, err
	}
	return ownerID, nil
}

// Update applies a partial update to a listing after verifying that
// callerID owns it. It returns the updated row joined with owner
// contact info. ErrForbidden is returned when the caller is not the
// owner; no column is modified in that case.
func (r *MessGroupRepo) Update(ctx context.Context, id, callerID uint64, upd MessGroupUpdate) (*MessGroupDetail, error) {
	ownerID, err := r.ownerOf(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerID != callerID {
		return nil, ErrForbidden
	}

	set := make([]string, 0, 12)
	args := make([]any, 0, 13)
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.SingleSeats != nil {
		add("single_seats", *upd.SingleSeats)
	}
	if upd.SinglePrice != nil {
		add("single_price", *upd.SinglePrice)
	}
	if upd.DoubleSeats != nil {
		add("double_seats", *upd.DoubleSeats)
	}
	if upd.DoublePrice != nil {
		add("double_price", *upd.DoublePrice)
	}
	if upd.Amenities != nil {
		b, err := json.Marshal(*upd.Amenities)
		if err != nil {
			return nil, err
		}
		add("amenities", string(b))
	}
	if upd.ContactPhone != nil {
		add("contact_phone", *upd.ContactPhone)
	}
	if upd.ContactEmail != nil {
		add("contact_email", *upd.ContactEmail)
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if len(set) > 0 {
		args = append(args, id)
		q := `UPDATE mess_groups SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	return r.getAnyStatus(ctx, id)
}

// SoftDelete marks a listing inactive after verifying ownership. The
// row is never purged. Calling it again on an already-deleted listing
// succeeds and leaves the same end state.
func (r *MessGroupRepo) SoftDelete(ctx context.Context, id, callerID uint64) error {
	ownerID, err := r.ownerOf(ctx, id)
	if err != nil {
		return err
	}
	if ownerID != callerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE mess_groups SET is_active = 0 WHERE id = ?`, id)
	return err
}

// SetRating overwrites the stored rating of an active listing. There
// is no aggregation: the newest caller-supplied value wins.
func (r *MessGroupRepo) SetRating(ctx context.Context, id uint64, rating int) (*MessGroupDetail, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE mess_groups SET rating = ? WHERE id = ? AND is_active = 1`, rating, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Either the id is unknown or the listing is soft-deleted; the
		// update may also report zero rows when the rating is unchanged,
		// so confirm through a read before declaring the row missing.
		if d, errGet := r.GetByID(ctx, id); errGet == nil {
			return d, nil
		}
		return nil, ErrMessGroupNotFound
	}
	return r.GetByID(ctx, id)
}

// GetForBookingTx loads the listing row inside the booking transaction
// with a row lock (SELECT ... FOR UPDATE). Holding the lock makes the
// duplicate-booking check, the capacity count and the order insert
// atomic with respect to concurrent booking attempts on the same
// listing.
func (r *MessGroupRepo) GetForBookingTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.MessGroup, error) {
	const q = `SELECT id, owner_id, name, location, category,
              single_seats, single_price, double_seats, double_price
       FROM mess_groups WHERE id = ? AND is_active = 1 FOR UPDATE`
	var mg model.MessGroup
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&mg.ID, &mg.OwnerID, &mg.Name, &mg.Location, &mg.Category,
		&mg.SingleSeats, &mg.SinglePrice, &mg.DoubleSeats, &mg.DoublePrice)
	if err == sql.ErrNoRows {
		return nil, ErrMessGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	mg.IsActive = true
	return &mg, nil
}

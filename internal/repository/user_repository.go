package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/messbari/mess-booking/internal/model"
	"github.com/messbari/mess-booking/internal/utils"
)

// UserRepo provides persistence for the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var (
	ErrEmailExists  = errors.New("email already exists")
	ErrMobileExists = errors.New("mobile already exists")
)

const userCols = "id,name,email,mobile,password_hash,role,location,is_active,created_at,updated_at"

// Create hashes the password and inserts a new user. Every account
// registered through the API gets the `owner` role. Duplicate email or
// mobile values are reported through the sentinel errors above.
func (r *UserRepo) Create(ctx context.Context, name, email, mobile, password, location string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, mobile, password_hash, role, location) VALUES (?,?,?,?,?,?)",
		name, email, mobile, hash, "owner", location)
	if err != nil {
		// MySQL duplicate-key errors carry code 1062; the message names
		// the violated index so email and mobile can be told apart.
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "mobile") {
				return 0, ErrMobileExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getWhere(ctx, "email=?", email)
}

// GetByMobile fetches a user by mobile number.
func (r *UserRepo) GetByMobile(ctx context.Context, mobile string) (model.User, error) {
	return r.getWhere(ctx, "mobile=?", strings.TrimSpace(mobile))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getWhere(ctx, "id=?", id)
}

func (r *UserRepo) getWhere(ctx context.Context, cond string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE "+cond+" LIMIT 1", arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.Mobile, &u.PasswordHash, &u.Role,
			&u.Location, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

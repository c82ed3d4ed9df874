package model

import "time"

// User represents a row in the `users` table. Accounts are created at
// registration with the `owner` role and are never hard-deleted; a
// deactivated account simply has IsActive set to false and can no
// longer log in. JSON tags are omitted because handlers define their
// own response types.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email (unique)
	Mobile       string    // users.mobile (unique when non-empty)
	PasswordHash string    // users.password_hash (bcrypt)
	Role         string    // users.role (e.g. "owner")
	Location     string    // users.location (optional campus area)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. The plain
// token is never stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

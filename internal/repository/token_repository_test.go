package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newTokenRepo(t *testing.T) (*TokenRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return NewTokenRepo(db), mock, func() { db.Close() }
}

func TestValidateRefreshLiveToken(t *testing.T) {
	repo, mock, done := newTokenRepo(t)
	defer done()

	mock.ExpectQuery(`FROM refresh_tokens WHERE token_hash=\?`).
		WithArgs("hash-a").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(uint64(5), time.Now().Add(time.Hour), nil))

	uid, err := repo.ValidateRefresh(context.Background(), "hash-a")
	if err != nil {
		t.Fatalf("ValidateRefresh: %v", err)
	}
	if uid != 5 {
		t.Fatalf("expected user 5, got %d", uid)
	}
}

func TestValidateRefreshExpired(t *testing.T) {
	repo, mock, done := newTokenRepo(t)
	defer done()

	mock.ExpectQuery(`FROM refresh_tokens WHERE token_hash=\?`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(uint64(5), time.Now().Add(-time.Minute), nil))

	if _, err := repo.ValidateRefresh(context.Background(), "hash-a"); err != sql.ErrNoRows {
		t.Fatalf("expected ErrNoRows for expired token, got %v", err)
	}
}

func TestValidateRefreshRevoked(t *testing.T) {
	repo, mock, done := newTokenRepo(t)
	defer done()

	mock.ExpectQuery(`FROM refresh_tokens WHERE token_hash=\?`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(uint64(5), time.Now().Add(time.Hour), time.Now()))

	if _, err := repo.ValidateRefresh(context.Background(), "hash-a"); err != sql.ErrNoRows {
		t.Fatalf("expected ErrNoRows for revoked token, got %v", err)
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/messbari/mess-booking/internal/config"
	"github.com/messbari/mess-booking/internal/repository"
	"github.com/messbari/mess-booking/internal/utils"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	cfg := config.Config{
		Env:            "test",
		JWTSecret:      "unit-test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4, // minimum cost keeps the suite fast
	}
	h := NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db))
	return h, mock, func() { db.Close() }
}

func authContext(t *testing.T, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterIssuesTokenPair(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Rahim", "rahim@mess.bd", "01700000000", sqlmock.AnyArg(), "owner", "kornai").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(uint64(5), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := authContext(t, "/v1/auth/register",
		`{"name":"Rahim","email":"Rahim@mess.bd","mobile":"01700000000","password":"secret1","location":"kornai"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		User struct {
			ID    uint64 `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.ID != 5 || resp.User.Role != "owner" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
	if resp.User.Email != "rahim@mess.bd" {
		t.Fatalf("email not normalized: %s", resp.User.Email)
	}
	if resp.Token == "" || resp.RefreshToken == "" {
		t.Fatal("expected both tokens in response")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'rahim@mess.bd' for key 'users.email'"))

	c, rec := authContext(t, "/v1/auth/register",
		`{"name":"Rahim","email":"rahim@mess.bd","password":"secret1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	h, _, done := newAuthHandler(t)
	defer done()

	c, rec := authContext(t, "/v1/auth/register", `{"email":"not-an-email","password":"x"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func userRow(id uint64, email, mobile, hash string, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "email", "mobile", "password_hash", "role",
		"location", "is_active", "created_at", "updated_at",
	}).AddRow(id, "Rahim", email, mobile, hash, "owner", "kornai", active, now, now)
}

func TestLoginByEmail(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	hash, err := utils.HashPassword("secret1", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	mock.ExpectQuery(`FROM users WHERE email=\?`).
		WithArgs("rahim@mess.bd").
		WillReturnRows(userRow(5, "rahim@mess.bd", "01700000000", hash, true))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := authContext(t, "/v1/auth/login", `{"email":"rahim@mess.bd","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginByMobile(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	hash, _ := utils.HashPassword("secret1", 4)
	mock.ExpectQuery(`FROM users WHERE mobile=\?`).
		WithArgs("01700000000").
		WillReturnRows(userRow(5, "rahim@mess.bd", "01700000000", hash, true))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := authContext(t, "/v1/auth/login", `{"mobile":"01700000000","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	hash, _ := utils.HashPassword("secret1", 4)
	mock.ExpectQuery(`FROM users WHERE email=\?`).
		WillReturnRows(userRow(5, "rahim@mess.bd", "01700000000", hash, true))

	c, rec := authContext(t, "/v1/auth/login", `{"email":"rahim@mess.bd","password":"wrong"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery(`FROM users WHERE email=\?`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := authContext(t, "/v1/auth/login", `{"email":"ghost@mess.bd","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	hash, _ := utils.HashPassword("secret1", 4)
	mock.ExpectQuery(`FROM users WHERE email=\?`).
		WillReturnRows(userRow(5, "rahim@mess.bd", "01700000000", hash, false))

	c, rec := authContext(t, "/v1/auth/login", `{"email":"rahim@mess.bd","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deactivated account, got %d", rec.Code)
	}
}

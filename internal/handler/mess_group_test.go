package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/messbari/mess-booking/internal/config"
	"github.com/messbari/mess-booking/internal/repository"
)

func newMessHandler(t *testing.T) (*MessGroupHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	h := NewMessGroupHandler(config.Config{Env: "test"}, repository.NewMessGroupRepo(db))
	return h, mock, func() { db.Close() }
}

func messContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestListRejectsUnknownLocation(t *testing.T) {
	h, _, done := newMessHandler(t)
	defer done()

	c, rec := messContext(t, http.MethodGet, "/v1/mess-groups?location=dhanmondi", "")
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown location, got %d", rec.Code)
	}
	var resp struct {
		Locations []string `json:"locations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Locations) != 3 {
		t.Fatalf("expected the allowed locations in the error body, got %+v", resp.Locations)
	}
}

func TestListRejectsUnknownCategory(t *testing.T) {
	h, _, done := newMessHandler(t)
	defer done()

	c, rec := messContext(t, http.MethodGet, "/v1/mess-groups?category=mixed", "")
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", rec.Code)
	}
}

func TestListReturnsCount(t *testing.T) {
	h, mock, done := newMessHandler(t)
	defer done()

	mock.ExpectQuery(`WHERE mg\.is_active = 1 AND LOWER\(mg\.location\) = LOWER\(\?\)`).
		WithArgs("kornai").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "location", "category", "description",
			"single_seats", "single_price", "double_seats", "double_price",
			"rating", "amenities", "contact_phone", "contact_email",
			"address", "is_active", "created_at",
			"owner_name", "owner_mobile", "owner_email",
		}))

	c, rec := messContext(t, http.MethodGet, "/v1/mess-groups?location=KORNAI", "")
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		MessGroups []json.RawMessage `json:"messGroups"`
		Count      int               `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 0 || resp.MessGroups == nil {
		t.Fatalf("expected empty array with count 0, got %s", rec.Body.String())
	}
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	h, _, done := newMessHandler(t)
	defer done()

	c, rec := messContext(t, http.MethodPost, "/v1/mess-groups",
		`{"name":"Green Mess","location":"kornai","category":"mixed"}`)
	c.Set("user_id", uint64(5))
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateSeedsDefaults(t *testing.T) {
	h, mock, done := newMessHandler(t)
	defer done()

	mock.ExpectExec(`INSERT INTO mess_groups`).
		WithArgs(uint64(5), "Green Mess", "kornai", "boys", "",
			uint32(0), 0.0, uint32(0), 0.0,
			"[]", "", "", "", 4.0).
		WillReturnResult(sqlmock.NewResult(7, 1))
	now := time.Now()
	mock.ExpectQuery(`SELECT created_at, updated_at FROM mess_groups WHERE id = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	c, rec := messContext(t, http.MethodPost, "/v1/mess-groups",
		`{"name":"Green Mess","location":"kornai","category":"boys"}`)
	c.Set("user_id", uint64(5))
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateForbiddenForNonOwner(t *testing.T) {
	h, mock, done := newMessHandler(t)
	defer done()

	mock.ExpectQuery(`SELECT owner_id FROM mess_groups WHERE id = \?`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(uint64(9)))

	c, rec := messContext(t, http.MethodPut, "/v1/mess-groups/3", `{"name":"Taken Over"}`)
	c.SetParamNames("id")
	c.SetParamValues("3")
	c.Set("user_id", uint64(5))
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRateValidatesRange(t *testing.T) {
	h, _, done := newMessHandler(t)
	defer done()

	for _, body := range []string{`{"rating":0}`, `{"rating":6}`, `{}`} {
		c, rec := messContext(t, http.MethodPatch, "/v1/mess-groups/3/rating", body)
		c.SetParamNames("id")
		c.SetParamValues("3")
		if err := h.Rate(c); err != nil {
			t.Fatalf("Rate: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestGetNotFound(t *testing.T) {
	h, mock, done := newMessHandler(t)
	defer done()

	mock.ExpectQuery(`WHERE mg\.id = \? AND mg\.is_active = 1`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := messContext(t, http.MethodGet, "/v1/mess-groups/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

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

	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/utils"
)

const testJWTSecret = "handler-test-secret"

func jsonRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func newAdminHandler(t *testing.T) (*AdminHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewAdminHandler(
		repository.NewAdminRepo(db),
		repository.NewEventRepo(db),
		repository.NewTicketRepo(db),
		repository.NewPartyRepo(db),
		testJWTSecret, 30,
	), mock
}

func adminRow(t *testing.T, email, secret string) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashSecret(secret, 4)
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	return sqlmock.NewRows([]string{"id", "email", "secret_hash", "display_name", "created_at"}).
		AddRow(uint64(1), email, hash, "Administrator", time.Now().UTC())
}

func TestAdminLoginMissingFields(t *testing.T) {
	h, _ := newAdminHandler(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/v1/admin/login", `{"email":"admin@example.com"}`)
	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Success {
		t.Error("success = true on validation failure")
	}
}

func TestAdminLoginWrongSecret(t *testing.T) {
	h, mock := newAdminHandler(t)
	mock.ExpectQuery(`FROM admins ORDER BY id ASC LIMIT 1`).
		WillReturnRows(adminRow(t, "admin@example.com", "right-secret"))

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/v1/admin/login",
		`{"email":"admin@example.com","secret":"wrong-secret"}`)
	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminLoginWrongEmail(t *testing.T) {
	h, mock := newAdminHandler(t)
	mock.ExpectQuery(`FROM admins ORDER BY id ASC LIMIT 1`).
		WillReturnRows(adminRow(t, "admin@example.com", "right-secret"))

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/v1/admin/login",
		`{"email":"other@example.com","secret":"right-secret"}`)
	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminLoginSuccess(t *testing.T) {
	h, mock := newAdminHandler(t)
	mock.ExpectQuery(`FROM admins ORDER BY id ASC LIMIT 1`).
		WillReturnRows(adminRow(t, "admin@example.com", "right-secret"))

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/v1/admin/login",
		`{"email":"Admin@Example.com","secret":"right-secret"}`)
	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatal("success = false on valid login")
	}
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data is %T, want object", env.Data)
	}
	tok, _ := data["token"].(string)
	if tok == "" {
		t.Fatal("no token in response")
	}

	// The issued token must pass Verify.
	req, rec = jsonRequest(http.MethodPost, "/v1/admin/verify", `{"token":"`+tok+`"}`)
	if err := h.Verify(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestAdminVerifyRejectsGarbage(t *testing.T) {
	h, _ := newAdminHandler(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/v1/admin/verify", `{"token":"not.a.jwt"}`)
	if err := h.Verify(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminVerifyRejectsForeignSecret(t *testing.T) {
	h, _ := newAdminHandler(t)
	e := echo.New()

	foreign, err := utils.NewAdminToken("a-different-secret", 1, 30)
	if err != nil {
		t.Fatalf("NewAdminToken: %v", err)
	}
	req, rec := jsonRequest(http.MethodPost, "/v1/admin/verify", `{"token":"`+foreign.Token+`"}`)
	if err := h.Verify(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminStatistics(t *testing.T) {
	h, mock := newAdminHandler(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\), .+ FROM events`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "active"}).AddRow(3, 2))
	mock.ExpectQuery(`FROM tickets`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "active", "used", "canceled"}).
			AddRow(40, 25, 10, 5))
	mock.ExpectQuery(`SELECT COUNT\(\*\), .+ FROM parties`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "active"}).AddRow(2, 1))
	mock.ExpectQuery(`FROM parties ORDER BY starts_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "quantity_total", "quantity_sold", "unit_price_cents", "starts_at", "status",
		}).AddRow(uint64(1), "NYE", uint32(100), uint32(50), uint32(1000), time.Now().UTC(), "active"))

	e := echo.New()
	req, rec := jsonRequest(http.MethodGet, "/v1/admin/statistics", "")
	if err := h.Statistics(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data, _ := env.Data.(map[string]any)
	rev, _ := data["revenue"].(map[string]any)
	if rev == nil {
		t.Fatalf("no revenue in %v", data)
	}
	if pct, _ := rev["percent_realized"].(float64); pct != 50 {
		t.Errorf("percent_realized = %v, want 50", rev["percent_realized"])
	}
}

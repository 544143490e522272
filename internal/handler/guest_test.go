package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/event-ticketing/internal/repository"
)

func newGuestHandler(t *testing.T) (*GuestHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewGuestHandler(repository.NewGuestRepo(db)), mock
}

func TestGuestRegisterValidation(t *testing.T) {
	h, _ := newGuestHandler(t)
	e := echo.New()

	tests := []struct {
		name    string
		eventID string
		body    string
	}{
		{"bad event id", "xyz", `{"name":"Ana"}`},
		{"missing name", "1", `{"email":"ana@example.com"}`},
		{"blank name", "1", `{"name":"   "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := jsonRequest(http.MethodPost, "/v1/events/"+tt.eventID+"/guests", tt.body)
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues(tt.eventID)
			if err := h.Register(c); err != nil {
				t.Fatalf("Register: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGuestRegisterSoldOut(t *testing.T) {
	h, mock := newGuestHandler(t)
	e := echo.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT tickets_total FROM events WHERE id = \? FOR UPDATE`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"tickets_total"}).AddRow(uint32(3)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM guests WHERE event_id = \? AND status <> \?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(uint32(3)))
	mock.ExpectRollback()

	req, rec := jsonRequest(http.MethodPost, "/v1/events/1/guests", `{"name":"Ana"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Message != "event is sold out" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestGuestStatusLookupRequiresIdentity(t *testing.T) {
	h, _ := newGuestHandler(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/v1/guests/status", `{}`)
	if err := h.StatusLookup(e.NewContext(req, rec)); err != nil {
		t.Fatalf("StatusLookup: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGuestUpdateStatusRejectsUnknown(t *testing.T) {
	h, _ := newGuestHandler(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPut, "/v1/guests/status",
		`{"email":"ana@example.com","status":"waitlisted"}`)
	if err := h.UpdateStatusByEmail(e.NewContext(req, rec)); err != nil {
		t.Fatalf("UpdateStatusByEmail: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

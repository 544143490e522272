package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

func newEventHandler(t *testing.T) (*EventHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewEventHandler(repository.NewEventRepo(db), repository.NewGuestRepo(db)), mock
}

func TestEventCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"blank name", `{"name":"  ","location":"x","starts_at":"2026-10-01T20:00:00Z","price_cents":100,"tickets_total":10}`},
		{"missing location", `{"name":"Show","starts_at":"2026-10-01T20:00:00Z","price_cents":100,"tickets_total":10}`},
		{"bad date", `{"name":"Show","location":"x","starts_at":"next friday","price_cents":100,"tickets_total":10}`},
		{"zero price", `{"name":"Show","location":"x","starts_at":"2026-10-01T20:00:00Z","price_cents":0,"tickets_total":10}`},
		{"zero total", `{"name":"Show","location":"x","starts_at":"2026-10-01T20:00:00Z","price_cents":100,"tickets_total":0}`},
		{"available above total", `{"name":"Show","location":"x","starts_at":"2026-10-01T20:00:00Z","price_cents":100,"tickets_total":10,"tickets_available":11}`},
		{"unknown status", `{"name":"Show","location":"x","starts_at":"2026-10-01T20:00:00Z","price_cents":100,"tickets_total":10,"status":"archived"}`},
	}
	h, _ := newEventHandler(t)
	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := jsonRequest(http.MethodPost, "/v1/events", tt.body)
			if err := h.Create(e.NewContext(req, rec)); err != nil {
				t.Fatalf("Create: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			if env := decodeEnvelope(t, rec); env.Success {
				t.Error("success = true on validation failure")
			}
		})
	}
}

func TestEventCreateSuccess(t *testing.T) {
	h, mock := newEventHandler(t)
	now := time.Now().UTC()
	starts := time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO events`).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(`FROM events WHERE id = \?`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "image_url", "starts_at", "location",
			"price_cents", "tickets_total", "tickets_available", "payment_link",
			"terms", "status", "created_at", "updated_at",
		}).AddRow(
			uint64(3), "Show", "", nil, starts, "Main Hall",
			uint32(100), uint32(10), uint32(10), nil, nil, model.EventStatusActive, now, now,
		))

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/v1/events",
		`{"name":"Show","location":"Main Hall","starts_at":"2026-10-01T20:00:00Z","price_cents":100,"tickets_total":10}`)
	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatal("success = false on create")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestEventGetInvalidID(t *testing.T) {
	h, _ := newEventHandler(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodGet, "/v1/events/abc", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEventGetNotFound(t *testing.T) {
	h, mock := newEventHandler(t)
	mock.ExpectQuery(`FROM events WHERE id = \?`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	e := echo.New()
	req, rec := jsonRequest(http.MethodGet, "/v1/events/42", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// The event detail carries the guest list and its count alongside the
// event itself.
func TestEventGetIncludesGuests(t *testing.T) {
	h, mock := newEventHandler(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM events WHERE id = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "image_url", "starts_at", "location",
			"price_cents", "tickets_total", "tickets_available", "payment_link",
			"terms", "status", "created_at", "updated_at",
		}).AddRow(
			uint64(7), "Show", "", nil, now, "Main Hall",
			uint32(100), uint32(10), uint32(8), nil, nil, model.EventStatusActive, now, now,
		))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE id = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM guests WHERE event_id = \? ORDER BY created_at DESC`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "name", "national_id", "email", "phone", "status", "note", "created_at",
		}).
			AddRow("g-2", uint64(7), "Bruno", nil, nil, nil, model.GuestStatusPending, nil, now).
			AddRow("g-1", uint64(7), "Ana", nil, nil, nil, model.GuestStatusConfirmed, nil, now.Add(-time.Hour)))

	e := echo.New()
	req, rec := jsonRequest(http.MethodGet, "/v1/events/7", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data, okCast := env.Data.(map[string]any)
	if !okCast {
		t.Fatalf("data is %T, want object", env.Data)
	}
	if got := data["guest_count"]; got != float64(2) {
		t.Errorf("guest_count = %v, want 2", got)
	}
	guests, okCast := data["guests"].([]any)
	if !okCast || len(guests) != 2 {
		t.Fatalf("guests = %v, want two entries", data["guests"])
	}
	first, _ := guests[0].(map[string]any)
	if first["name"] != "Bruno" {
		t.Errorf("first guest = %v, want most recent registration", first["name"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestEventUpdateAvailabilityInvariant(t *testing.T) {
	h, mock := newEventHandler(t)
	now := time.Now().UTC()

	// Stored event has 10 total; raising available to 15 must be rejected.
	mock.ExpectQuery(`FROM events WHERE id = \?`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "image_url", "starts_at", "location",
			"price_cents", "tickets_total", "tickets_available", "payment_link",
			"terms", "status", "created_at", "updated_at",
		}).AddRow(
			uint64(3), "Show", "", nil, now, "Main Hall",
			uint32(100), uint32(10), uint32(5), nil, nil, model.EventStatusActive, now, now,
		))

	e := echo.New()
	req, rec := jsonRequest(http.MethodPatch, "/v1/events/3", `{"tickets_available":15}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// EventHandler serves the event catalogue: public browsing plus the
// admin-only create/update/delete operations.
type EventHandler struct {
	Events *repository.EventRepo
	Guests *repository.GuestRepo
}

func NewEventHandler(events *repository.EventRepo, guests *repository.GuestRepo) *EventHandler {
	return &EventHandler{Events: events, Guests: guests}
}

// eventPayload is the JSON body accepted by both create and update.  On
// update every field is optional; on create the required ones are checked
// explicitly.
type eventPayload struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	ImageURL         *string `json:"image_url"`
	StartsAt         *string `json:"starts_at"` // RFC 3339
	Location         *string `json:"location"`
	PriceCents       *uint32 `json:"price_cents"`
	TicketsTotal     *uint32 `json:"tickets_total"`
	TicketsAvailable *uint32 `json:"tickets_available"`
	PaymentLink      *string `json:"payment_link"`
	Terms            *string `json:"terms"`
	Status           *string `json:"status"`
}

func parseEventID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// Create handles POST /v1/events (admin only).
func (h *EventHandler) Create(c echo.Context) error {
	var body eventPayload
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		return fail(c, http.StatusBadRequest, "name is required")
	}
	if body.Location == nil || strings.TrimSpace(*body.Location) == "" {
		return fail(c, http.StatusBadRequest, "location is required")
	}
	if body.StartsAt == nil {
		return fail(c, http.StatusBadRequest, "starts_at is required")
	}
	startsAt, err := time.Parse(time.RFC3339, *body.StartsAt)
	if err != nil {
		return fail(c, http.StatusBadRequest, "starts_at must be a valid RFC 3339 timestamp")
	}
	if body.PriceCents == nil || *body.PriceCents == 0 {
		return fail(c, http.StatusBadRequest, "price_cents must be greater than zero")
	}
	if body.TicketsTotal == nil || *body.TicketsTotal == 0 {
		return fail(c, http.StatusBadRequest, "tickets_total must be greater than zero")
	}

	// Unless stated otherwise a new event starts fully available.
	available := *body.TicketsTotal
	if body.TicketsAvailable != nil {
		available = *body.TicketsAvailable
	}
	if available > *body.TicketsTotal {
		return fail(c, http.StatusBadRequest, "tickets_available cannot exceed tickets_total")
	}

	e := &model.Event{
		Name:             strings.TrimSpace(*body.Name),
		StartsAt:         startsAt,
		Location:         strings.TrimSpace(*body.Location),
		PriceCents:       *body.PriceCents,
		TicketsTotal:     *body.TicketsTotal,
		TicketsAvailable: available,
		ImageURL:         body.ImageURL,
		PaymentLink:      body.PaymentLink,
		Terms:            body.Terms,
		Status:           model.EventStatusActive,
	}
	if body.Description != nil {
		e.Description = *body.Description
	}
	if body.Status != nil {
		if *body.Status != model.EventStatusActive && *body.Status != model.EventStatusClosed {
			return fail(c, http.StatusBadRequest, "unknown event status")
		}
		e.Status = *body.Status
	}

	if err := h.Events.Create(c.Request().Context(), e); err != nil {
		return fail(c, http.StatusInternalServerError, "could not create event")
	}
	return ok(c, http.StatusCreated, "event created", e)
}

// List handles GET /v1/events and returns every event with its current
// registration count.
func (h *EventHandler) List(c echo.Context) error {
	items, err := h.Events.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not list events")
	}
	return ok(c, http.StatusOK, "", items)
}

// eventDetail is the full single-event payload: the event row plus its
// registrations, newest first, and the registration count.
type eventDetail struct {
	*model.Event
	Guests     []model.Guest `json:"guests"`
	GuestCount int           `json:"guest_count"`
}

// Get handles GET /v1/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := parseEventID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid event id")
	}
	ctx := c.Request().Context()
	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return fail(c, http.StatusNotFound, "event not found")
		}
		return fail(c, http.StatusInternalServerError, "could not load event")
	}
	guests, err := h.Guests.ListByEvent(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load event")
	}
	return ok(c, http.StatusOK, "", eventDetail{
		Event:      e,
		Guests:     guests,
		GuestCount: len(guests),
	})
}

// Availability handles GET /v1/events/:id/tickets/available.  The numbers
// come from a live count of non-canceled registrations, not from the stored
// counter, so the response is always consistent with the guest list.
func (h *EventHandler) Availability(c echo.Context) error {
	id, err := parseEventID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid event id")
	}
	av, err := h.Events.Availability(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return fail(c, http.StatusNotFound, "event not found")
		}
		return fail(c, http.StatusInternalServerError, "could not compute availability")
	}
	return ok(c, http.StatusOK, "", av)
}

// Update handles PATCH /v1/events/:id (admin only).  Only the fields present
// in the body are touched.
func (h *EventHandler) Update(c echo.Context) error {
	id, err := parseEventID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid event id")
	}
	var body eventPayload
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	upd := repository.EventUpdate{
		Name:             body.Name,
		Description:      body.Description,
		ImageURL:         body.ImageURL,
		Location:         body.Location,
		PriceCents:       body.PriceCents,
		TicketsTotal:     body.TicketsTotal,
		TicketsAvailable: body.TicketsAvailable,
		PaymentLink:      body.PaymentLink,
		Terms:            body.Terms,
		Status:           body.Status,
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) == "" {
		return fail(c, http.StatusBadRequest, "name cannot be empty")
	}
	if body.PriceCents != nil && *body.PriceCents == 0 {
		return fail(c, http.StatusBadRequest, "price_cents must be greater than zero")
	}
	if body.TicketsTotal != nil && *body.TicketsTotal == 0 {
		return fail(c, http.StatusBadRequest, "tickets_total must be greater than zero")
	}
	if body.Status != nil && *body.Status != model.EventStatusActive && *body.Status != model.EventStatusClosed {
		return fail(c, http.StatusBadRequest, "unknown event status")
	}
	if body.StartsAt != nil {
		t, err := time.Parse(time.RFC3339, *body.StartsAt)
		if err != nil {
			return fail(c, http.StatusBadRequest, "starts_at must be a valid RFC 3339 timestamp")
		}
		upd.StartsAt = &t
	}

	// The available counter may never exceed the total.  When only one of
	// the pair changes, compare against the stored value of the other.
	if body.TicketsAvailable != nil || body.TicketsTotal != nil {
		current, err := h.Events.GetByID(c.Request().Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrEventNotFound) {
				return fail(c, http.StatusNotFound, "event not found")
			}
			return fail(c, http.StatusInternalServerError, "could not load event")
		}
		total := current.TicketsTotal
		if body.TicketsTotal != nil {
			total = *body.TicketsTotal
		}
		available := current.TicketsAvailable
		if body.TicketsAvailable != nil {
			available = *body.TicketsAvailable
		}
		if available > total {
			return fail(c, http.StatusBadRequest, "tickets_available cannot exceed tickets_total")
		}
	}

	e, err := h.Events.Update(c.Request().Context(), id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return fail(c, http.StatusNotFound, "event not found")
		}
		return fail(c, http.StatusInternalServerError, "could not update event")
	}
	return ok(c, http.StatusOK, "event updated", e)
}

// Delete handles DELETE /v1/events/:id (admin only).  Guests and tickets for
// the event are removed with it through the cascading foreign keys.
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := parseEventID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid event id")
	}
	if err := h.Events.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return fail(c, http.StatusNotFound, "event not found")
		}
		return fail(c, http.StatusInternalServerError, "could not delete event")
	}
	return ok(c, http.StatusOK, "event deleted", nil)
}

// ListGuests handles GET /v1/events/:id/guests (admin only), newest first.
func (h *EventHandler) ListGuests(c echo.Context) error {
	id, err := parseEventID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid event id")
	}
	guests, err := h.Guests.ListByEvent(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return fail(c, http.StatusNotFound, "event not found")
		}
		return fail(c, http.StatusInternalServerError, "could not list guests")
	}
	return ok(c, http.StatusOK, "", guests)
}

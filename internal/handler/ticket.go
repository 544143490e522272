package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
	queue_publisher "github.com/iliyamo/event-ticketing/internal/service"
	"github.com/iliyamo/event-ticketing/internal/utils"
)

// TicketHandler serves ticket purchase, holder lookups and the admin ticket
// management endpoints.
type TicketHandler struct {
	Tickets *repository.TicketRepo
	Events  *repository.EventRepo
}

func NewTicketHandler(tickets *repository.TicketRepo, events *repository.EventRepo) *TicketHandler {
	return &TicketHandler{Tickets: tickets, Events: events}
}

// Issue handles POST /v1/tickets.  The token hash is derived from the
// holder's national ID, the event and the purchase instant, so each ticket
// carries a unique verifiable code.  Capacity is enforced by the repository
// inside a locked transaction.
func (h *TicketHandler) Issue(c echo.Context) error {
	var body struct {
		EventID    uint64  `json:"event_id"`
		HolderName string  `json:"holder_name"`
		NationalID *string `json:"national_id"`
		Email      *string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	holder := strings.TrimSpace(body.HolderName)
	if holder == "" {
		return fail(c, http.StatusBadRequest, "holder_name is required")
	}
	if body.EventID == 0 {
		return fail(c, http.StatusBadRequest, "event_id is required")
	}

	ev, err := h.Events.GetByID(c.Request().Context(), body.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return fail(c, http.StatusNotFound, "event not found")
		}
		return fail(c, http.StatusInternalServerError, "could not load event")
	}
	if ev.Status != model.EventStatusActive {
		return fail(c, http.StatusConflict, "event is closed")
	}

	now := time.Now().UTC()
	nationalID := ""
	if p := trimPtr(body.NationalID); p != nil {
		nationalID = *p
	}

	t := &model.Ticket{
		EventID:     body.EventID,
		HolderName:  holder,
		NationalID:  trimPtr(body.NationalID),
		Email:       trimPtr(body.Email),
		TokenHash:   utils.TicketToken(nationalID, body.EventID, now),
		PurchasedAt: now,
	}
	detail, err := h.Tickets.Issue(c.Request().Context(), t)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return fail(c, http.StatusNotFound, "event not found")
		case errors.Is(err, repository.ErrCapacityExceeded):
			return fail(c, http.StatusConflict, "event is sold out")
		case errors.Is(err, repository.ErrDuplicateRegistration):
			return fail(c, http.StatusConflict, "an active ticket already exists for this national id")
		}
		return fail(c, http.StatusInternalServerError, "could not issue ticket")
	}

	// Fire-and-forget: a broker outage must not fail the purchase.
	evMsg := queue.TicketIssuedEvent{
		TicketID:    detail.ID,
		EventID:     detail.EventID,
		EventName:   detail.EventName,
		HolderName:  detail.HolderName,
		PriceCents:  ev.PriceCents,
		TokenHash:   detail.TokenHash,
		PurchasedAt: detail.PurchasedAt.Format(time.RFC3339),
	}
	if detail.Email != nil {
		evMsg.Email = *detail.Email
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishTicketIssued(ctx, evMsg)
	}()

	return ok(c, http.StatusCreated, "ticket issued", detail)
}

// Consult handles POST /v1/tickets/lookup.  A holder retrieves their active
// tickets by national ID and a case-insensitive name match.
func (h *TicketHandler) Consult(c echo.Context) error {
	var body struct {
		NationalID string `json:"national_id"`
		Name       string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	nationalID := strings.TrimSpace(body.NationalID)
	name := strings.TrimSpace(body.Name)
	if nationalID == "" || name == "" {
		return fail(c, http.StatusBadRequest, "national_id and name are required")
	}

	items, err := h.Tickets.Consult(c.Request().Context(), nationalID, name)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return fail(c, http.StatusNotFound, "no active tickets found")
		}
		return fail(c, http.StatusInternalServerError, "could not look up tickets")
	}
	return ok(c, http.StatusOK, "", items)
}

// GetByHash handles GET /v1/tickets/hash/:hash, the entry-gate check: a
// scanned code resolves to the ticket and its current status.
func (h *TicketHandler) GetByHash(c echo.Context) error {
	hash := strings.TrimSpace(c.Param("hash"))
	if hash == "" {
		return fail(c, http.StatusBadRequest, "invalid ticket code")
	}
	t, err := h.Tickets.FindByHash(c.Request().Context(), hash)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return fail(c, http.StatusNotFound, "ticket not found")
		}
		return fail(c, http.StatusInternalServerError, "could not look up ticket")
	}
	return ok(c, http.StatusOK, "", t)
}

// List handles GET /v1/tickets (admin only), newest purchases first.
func (h *TicketHandler) List(c echo.Context) error {
	items, err := h.Tickets.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not list tickets")
	}
	return ok(c, http.StatusOK, "", items)
}

// Stats handles GET /v1/tickets/stats (admin only).
func (h *TicketHandler) Stats(c echo.Context) error {
	stats, err := h.Tickets.Stats(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not compute ticket stats")
	}
	return ok(c, http.StatusOK, "", stats)
}

// UpdateStatus handles PATCH /v1/tickets/:id/status (admin only).  Marking a
// ticket used is how the gate invalidates a scanned code.
func (h *TicketHandler) UpdateStatus(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return fail(c, http.StatusBadRequest, "invalid ticket id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	status := strings.ToLower(strings.TrimSpace(body.Status))
	if !model.ValidTicketStatus(status) {
		return fail(c, http.StatusBadRequest, "unknown ticket status")
	}

	t, err := h.Tickets.UpdateStatus(c.Request().Context(), id, status)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return fail(c, http.StatusNotFound, "ticket not found")
		}
		return fail(c, http.StatusInternalServerError, "could not update ticket")
	}
	return ok(c, http.StatusOK, "status updated", t)
}

// Delete handles DELETE /v1/tickets/:id (admin only).
func (h *TicketHandler) Delete(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return fail(c, http.StatusBadRequest, "invalid ticket id")
	}
	if err := h.Tickets.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return fail(c, http.StatusNotFound, "ticket not found")
		}
		return fail(c, http.StatusInternalServerError, "could not delete ticket")
	}
	return ok(c, http.StatusOK, "ticket deleted", nil)
}

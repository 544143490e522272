package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// GuestHandler serves guest registration and the self-service status
// endpoints.  Guests have no accounts; they identify themselves with the
// details given at registration time.
type GuestHandler struct {
	Guests *repository.GuestRepo
}

func NewGuestHandler(guests *repository.GuestRepo) *GuestHandler {
	return &GuestHandler{Guests: guests}
}

// trimPtr returns a pointer to the trimmed string, or nil when the input is
// empty after trimming.  Optional fields collapse to NULL instead of "".
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// Register handles POST /v1/events/:id/guests.  The repository performs the
// capacity and duplicate checks inside a single locked transaction, so two
// concurrent registrations can never both take the last spot.
func (h *GuestHandler) Register(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid event id")
	}
	var body struct {
		Name       string  `json:"name"`
		NationalID *string `json:"national_id"`
		Email      *string `json:"email"`
		Phone      *string `json:"phone"`
		Note       *string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return fail(c, http.StatusBadRequest, "name is required")
	}

	g := &model.Guest{
		EventID:    eventID,
		Name:       name,
		NationalID: trimPtr(body.NationalID),
		Email:      trimPtr(body.Email),
		Phone:      trimPtr(body.Phone),
		Note:       trimPtr(body.Note),
	}
	if err := h.Guests.Register(c.Request().Context(), g); err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return fail(c, http.StatusNotFound, "event not found")
		case errors.Is(err, repository.ErrCapacityExceeded):
			return fail(c, http.StatusConflict, "event is sold out")
		case errors.Is(err, repository.ErrDuplicateRegistration):
			return fail(c, http.StatusConflict, "already registered for this event")
		}
		return fail(c, http.StatusInternalServerError, "could not register guest")
	}
	return ok(c, http.StatusCreated, "registration received", g)
}

// Lookup handles POST /v1/events/:id/guests/lookup.  A guest retrieves their
// own registration for one event by presenting the exact national ID and
// name used when registering.
func (h *GuestHandler) Lookup(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid event id")
	}
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

	g, err := h.Guests.FindByIdentity(c.Request().Context(), eventID, nationalID, name)
	if err != nil {
		if errors.Is(err, repository.ErrGuestNotFound) {
			return fail(c, http.StatusNotFound, "registration not found")
		}
		return fail(c, http.StatusInternalServerError, "could not look up registration")
	}
	return ok(c, http.StatusOK, "", g)
}

// StatusLookup handles POST /v1/guests/status.  The guest supplies a
// national ID or email; when the email matches several registrations the
// most recent one is returned.
func (h *GuestHandler) StatusLookup(c echo.Context) error {
	var body struct {
		NationalID string `json:"national_id"`
		Email      string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	nationalID := strings.TrimSpace(body.NationalID)
	email := strings.TrimSpace(body.Email)
	if nationalID == "" && email == "" {
		return fail(c, http.StatusBadRequest, "national_id or email is required")
	}

	g, err := h.Guests.StatusByIdentity(c.Request().Context(), nationalID, email)
	if err != nil {
		if errors.Is(err, repository.ErrGuestNotFound) {
			return fail(c, http.StatusNotFound, "registration not found")
		}
		return fail(c, http.StatusInternalServerError, "could not look up status")
	}
	return ok(c, http.StatusOK, "", g)
}

// UpdateStatusByEmail handles PUT /v1/guests/status.  Guests confirm or
// cancel their own registration; the matching rule is the same
// most-recent-wins rule used by StatusLookup.
func (h *GuestHandler) UpdateStatusByEmail(c echo.Context) error {
	var body struct {
		Email  string `json:"email"`
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	email := strings.TrimSpace(body.Email)
	if email == "" {
		return fail(c, http.StatusBadRequest, "email is required")
	}
	status := strings.ToLower(strings.TrimSpace(body.Status))
	if !model.ValidGuestStatus(status) {
		return fail(c, http.StatusBadRequest, "unknown guest status")
	}

	g, err := h.Guests.UpdateStatusByEmail(c.Request().Context(), email, status)
	if err != nil {
		if errors.Is(err, repository.ErrGuestNotFound) {
			return fail(c, http.StatusNotFound, "registration not found")
		}
		return fail(c, http.StatusInternalServerError, "could not update status")
	}
	return ok(c, http.StatusOK, "status updated", g)
}

// UpdateStatusByID handles PATCH /v1/guests/:id/status (admin only).
func (h *GuestHandler) UpdateStatusByID(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return fail(c, http.StatusBadRequest, "invalid guest id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	status := strings.ToLower(strings.TrimSpace(body.Status))
	if !model.ValidGuestStatus(status) {
		return fail(c, http.StatusBadRequest, "unknown guest status")
	}

	g, err := h.Guests.UpdateStatusByID(c.Request().Context(), id, status)
	if err != nil {
		if errors.Is(err, repository.ErrGuestNotFound) {
			return fail(c, http.StatusNotFound, "guest not found")
		}
		return fail(c, http.StatusInternalServerError, "could not update status")
	}
	return ok(c, http.StatusOK, "status updated", g)
}

package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/report"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/utils"
)

// AdminHandler serves authentication and the aggregated admin read models
// (dashboard, parties, statistics).
type AdminHandler struct {
	Admins  *repository.AdminRepo
	Events  *repository.EventRepo
	Tickets *repository.TicketRepo
	Parties *repository.PartyRepo

	JWTSecret   string
	TokenTTLMin int
}

func NewAdminHandler(admins *repository.AdminRepo, events *repository.EventRepo,
	tickets *repository.TicketRepo, parties *repository.PartyRepo,
	jwtSecret string, tokenTTLMin int) *AdminHandler {
	return &AdminHandler{
		Admins:      admins,
		Events:      events,
		Tickets:     tickets,
		Parties:     parties,
		JWTSecret:   jwtSecret,
		TokenTTLMin: tokenTTLMin,
	}
}

// Login handles POST /v1/admin/login.  The submitted secret is checked
// against the stored bcrypt hash; a match yields a short-lived signed token.
// Email and secret failures return the same message so a caller cannot
// tell which admin emails exist.
func (h *AdminHandler) Login(c echo.Context) error {
	var body struct {
		Email  string `json:"email"`
		Secret string `json:"secret"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" || body.Secret == "" {
		return fail(c, http.StatusBadRequest, "email and secret are required")
	}

	admin, err := h.Admins.Get(c.Request().Context())
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return fail(c, http.StatusUnauthorized, "invalid credentials")
		}
		return fail(c, http.StatusInternalServerError, "could not authenticate")
	}
	if !strings.EqualFold(admin.Email, email) || !utils.VerifySecret(admin.SecretHash, body.Secret) {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	tok, err := utils.NewAdminToken(h.JWTSecret, admin.ID, h.TokenTTLMin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not issue token")
	}
	return ok(c, http.StatusOK, "authenticated", echo.Map{
		"token":      tok.Token,
		"expires_at": tok.Exp.Format(time.RFC3339),
	})
}

// Verify handles POST /v1/admin/verify.  The admin frontend calls this on
// load to decide whether a stored token is still usable.
func (h *AdminHandler) Verify(c echo.Context) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if body.Token == "" {
		return fail(c, http.StatusBadRequest, "token is required")
	}

	tok, err := jwt.Parse(body.Token, func(t *jwt.Token) (interface{}, error) {
		if _, okm := t.Method.(*jwt.SigningMethodHMAC); !okm {
			return nil, echo.ErrUnauthorized
		}
		return []byte(h.JWTSecret), nil
	})
	if err != nil || !tok.Valid {
		return fail(c, http.StatusUnauthorized, "invalid or expired token")
	}
	claims, okc := tok.Claims.(jwt.MapClaims)
	if !okc {
		return fail(c, http.StatusUnauthorized, "invalid claims")
	}
	if role, _ := claims["role"].(string); role != "ADMIN" {
		return fail(c, http.StatusUnauthorized, "invalid or expired token")
	}

	data := echo.Map{"valid": true}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		data["expires_at"] = exp.UTC().Format(time.RFC3339)
	}
	return ok(c, http.StatusOK, "token valid", data)
}

// Dashboard handles GET /v1/admin/dashboard: per-party sales rows plus the
// summed metrics, computed from the stored party figures.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	parties, err := h.Parties.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load parties")
	}
	return ok(c, http.StatusOK, "", report.BuildDashboard(parties))
}

// ListParties handles GET /v1/admin/parties.
func (h *AdminHandler) ListParties(c echo.Context) error {
	parties, err := h.Parties.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load parties")
	}
	return ok(c, http.StatusOK, "", parties)
}

// Statistics handles GET /v1/admin/statistics: platform-wide totals for
// events, tickets and parties plus the revenue rollup.
func (h *AdminHandler) Statistics(c echo.Context) error {
	ctx := c.Request().Context()

	eventsTotal, eventsActive, err := h.Events.Counts(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not count events")
	}
	ticketStats, err := h.Tickets.Stats(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not count tickets")
	}
	partiesTotal, partiesActive, err := h.Parties.Counts(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not count parties")
	}
	parties, err := h.Parties.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load parties")
	}

	stats := report.Statistics{
		Events:  report.CountPair{Total: eventsTotal, Active: eventsActive},
		Tickets: report.CountPair{Total: ticketStats.Total, Active: ticketStats.Active},
		Parties: report.CountPair{Total: partiesTotal, Active: partiesActive},
		Revenue: report.BuildRevenue(parties),
	}
	return ok(c, http.StatusOK, "", stats)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/config"
)

func TestResponseCacheNoopWithoutRedis(t *testing.T) {
	cfg := config.LoadCacheConfig()
	mw := ResponseCache(cfg, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.String(http.StatusOK, "live") }
	if err := mw(next)(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if rec.Body.String() != "live" {
		t.Fatalf("body = %q, want pass-through", rec.Body.String())
	}
	if rec.Header().Get("X-Cache") != "" {
		t.Error("no-op middleware must not set X-Cache")
	}
}

func TestCacheKeyStrategies(t *testing.T) {
	e := echo.New()
	newCtx := func(target, route string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath(route)
		return c
	}
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKey(cfg, newCtx("/v1/events?x=1", "/v1/events"))
	b := cacheKey(cfg, newCtx("/v1/events?x=2", "/v1/events"))
	if a == b {
		t.Error("different query strings must produce different keys")
	}
	if again := cacheKey(cfg, newCtx("/v1/events?x=1", "/v1/events")); again != a {
		t.Error("identical requests must produce identical keys")
	}

	cfg.KeyStrategy = "route"
	a = cacheKey(cfg, newCtx("/v1/events?x=1", "/v1/events"))
	b = cacheKey(cfg, newCtx("/v1/events?x=2", "/v1/events"))
	if a != b {
		t.Error("route strategy must ignore the query string")
	}
}

func TestCacheKeyIncludesPathParams(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}

	newCtx := func(id string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/v1/events/"+id, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/events/:id")
		c.SetParamNames("id")
		c.SetParamValues(id)
		return c
	}
	if cacheKey(cfg, newCtx("1")) == cacheKey(cfg, newCtx("2")) {
		t.Error("different path params must produce different keys")
	}
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", nil)
	req.Header.Set("X-Real-IP", "203.0.113.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/tickets")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}
	if got := rateKey(cfg, c); got != "rl:ip:203.0.113.9" {
		t.Errorf("ip key = %q", got)
	}

	cfg.KeyStrategy = "route"
	if got := rateKey(cfg, c); got != "rl:route:POST /v1/tickets" {
		t.Errorf("route key = %q", got)
	}

	cfg.KeyStrategy = "ip_route"
	if got := rateKey(cfg, c); got != "rl:ip:203.0.113.9:route:POST /v1/tickets" {
		t.Errorf("ip_route key = %q", got)
	}
}

func TestRateLimitNoopWhenDisabled(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false}
	mw := RateLimit(cfg, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	if err := mw(next)(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTicketToken(t *testing.T) {
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	tok := TicketToken("12345678900", 7, at)
	if len(tok) != 64 {
		t.Fatalf("token length = %d, want 64 hex chars", len(tok))
	}
	for _, r := range tok {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Fatalf("token contains non-hex rune %q", r)
		}
	}

	// Deterministic for identical inputs.
	if again := TicketToken("12345678900", 7, at); again != tok {
		t.Fatalf("same inputs produced different tokens: %s vs %s", tok, again)
	}

	// Any input change produces a different code.
	if other := TicketToken("12345678901", 7, at); other == tok {
		t.Error("different national id produced the same token")
	}
	if other := TicketToken("12345678900", 8, at); other == tok {
		t.Error("different event produced the same token")
	}
	if other := TicketToken("12345678900", 7, at.Add(time.Nanosecond)); other == tok {
		t.Error("different instant produced the same token")
	}
}

func TestNewAdminToken(t *testing.T) {
	const secret = "test-secret"

	issued, err := NewAdminToken(secret, 42, 30)
	if err != nil {
		t.Fatalf("NewAdminToken: %v", err)
	}
	if until := time.Until(issued.Exp); until < 29*time.Minute || until > 31*time.Minute {
		t.Errorf("expiry %v not ~30m away", issued.Exp)
	}

	parsed, err := jwt.Parse(issued.Token, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("unexpected signing method %v", tok.Method)
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse issued token: %v (valid=%v)", err, parsed != nil && parsed.Valid)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if role, _ := claims["role"].(string); role != "ADMIN" {
		t.Errorf("role claim = %q, want ADMIN", role)
	}
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Errorf("sub claim = %v, want 42", claims["sub"])
	}

	// A different secret must not verify.
	if _, err := jwt.Parse(issued.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	}); err == nil {
		t.Error("token verified with the wrong secret")
	}
}

func TestSecretHashRoundTrip(t *testing.T) {
	hash, err := HashSecret("hunter2", 4) // minimum cost keeps the test fast
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	if !VerifySecret(hash, "hunter2") {
		t.Error("correct secret rejected")
	}
	if VerifySecret(hash, "hunter3") {
		t.Error("wrong secret accepted")
	}
	if VerifySecret("not-a-bcrypt-hash", "hunter2") {
		t.Error("garbage hash accepted")
	}
}

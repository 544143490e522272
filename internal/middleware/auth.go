package middleware // middleware provides reusable HTTP middleware for the ticketing API

import (
	"net/http" // HTTP status codes for responses
	"strings"  // prefix checking and trimming of the Authorization header

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware
)

// AdminAuth returns an Echo middleware that validates a Bearer access token
// issued by the admin login endpoint and enforces the ADMIN role claim.  The
// provided secret must match the one used when issuing tokens.  This
// middleware wraps the administrative routes so that handlers can read the
// authenticated admin's ID via `c.Get("admin_id")`.
//
// Verification is delegated to the jwt library, which performs a
// constant-time HMAC comparison of the signature and rejects expired
// tokens through the registered exp claim.
func AdminAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "missing bearer token",
					"data":    nil,
				})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with the HS256 signing method and our secret.  The
			// callback supplies the signing key and ensures the algorithm
			// matches what we issue; anything else is rejected.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "invalid or expired token",
					"data":    nil,
				})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "invalid claims",
					"data":    nil,
				})
			}

			// Only tokens carrying the ADMIN role may pass.  Guests never
			// receive tokens, so any other role value means a forged or
			// foreign token.
			role, _ := claims["role"].(string)
			if role != "ADMIN" {
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"message": "forbidden",
					"data":    nil,
				})
			}

			c.Set("admin_id", claims["sub"])
			return next(c)
		}
	}
}

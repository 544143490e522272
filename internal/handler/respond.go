package handler // handler package contains the HTTP handlers for the ticketing API

import "github.com/labstack/echo/v4"

// envelope is the uniform response shape for every endpoint.  Success and
// failure both use it, so clients branch on the success flag instead of
// parsing status codes out of bodies.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// ok writes a successful envelope with the given status, message and payload.
func ok(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

// fail writes a failed envelope: a message and a null data field.
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Success: false, Message: message})
}

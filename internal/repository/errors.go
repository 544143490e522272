// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrCapacityExceeded indicates that an event has no sellable
// capacity left, while ErrDuplicateRegistration signals that the same
// national ID already holds an active registration for the event.
package repository

import "errors"

// ErrEventNotFound is returned when a requested event does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrEventNotFound = errors.New("event not found")

// ErrGuestNotFound is returned when no guest registration matches the
// lookup criteria. Handlers should translate this into an HTTP 404
// response.
var ErrGuestNotFound = errors.New("guest not found")

// ErrTicketNotFound is returned when no ticket matches the lookup
// criteria (by ID, token hash or consultation filters).
var ErrTicketNotFound = errors.New("ticket not found")

// ErrAdminNotFound is returned when the admins table has not been
// seeded. Login treats it the same as a wrong secret.
var ErrAdminNotFound = errors.New("admin not found")

// ErrCapacityExceeded is returned when a registration would exceed the
// event's total capacity. The check is performed under a row lock so
// concurrent registrations cannot both pass it.
var ErrCapacityExceeded = errors.New("no tickets available for this event")

// ErrDuplicateRegistration is returned when an active registration
// already exists for the same (event, national ID) pair.
var ErrDuplicateRegistration = errors.New("national ID already registered for this event")

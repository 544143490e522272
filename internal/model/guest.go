package model

import "time"

// Guest registration statuses.  A registration starts "pending" and is
// moved by an admin (or the attendee, via self-service) to "confirmed"
// or "canceled".  Any status in the set may overwrite any other; the
// only validation performed is set membership.
const (
	GuestStatusPending   = "pending"
	GuestStatusConfirmed = "confirmed"
	GuestStatusCanceled  = "canceled"
)

// ValidGuestStatus reports whether s is one of the allowed guest statuses.
func ValidGuestStatus(s string) bool {
	switch s {
	case GuestStatusPending, GuestStatusConfirmed, GuestStatusCanceled:
		return true
	}
	return false
}

// Guest records an attendee registration against an event.  At most one
// registration that is not canceled may exist per (event, national ID)
// pair when a national ID is supplied.
//
// Fields:
//  ID         – UUID primary key.
//  EventID    – owning event; deleted with it.
//  Name       – attendee full name.
//  NationalID – optional national identity document string.
//  Email      – optional contact email.
//  Phone      – optional contact phone.
//  Status     – registration status (pending/confirmed/canceled).
//  Note       – optional free-text note set by admins.
//  CreatedAt  – registration timestamp.
type Guest struct {
	ID         string    `json:"id"`                    // guests.id (CHAR(36))
	EventID    uint64    `json:"event_id"`              // guests.event_id
	Name       string    `json:"name"`                  // guests.name
	NationalID *string   `json:"national_id,omitempty"` // guests.national_id (nullable)
	Email      *string   `json:"email,omitempty"`       // guests.email (nullable)
	Phone      *string   `json:"phone,omitempty"`       // guests.phone (nullable)
	Status     string    `json:"status"`                // guests.status
	Note       *string   `json:"note,omitempty"`        // guests.note (nullable)
	CreatedAt  time.Time `json:"created_at"`            // guests.created_at
}

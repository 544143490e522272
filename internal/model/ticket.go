package model

import "time"

// Ticket statuses.  A ticket is "active" from issuance, becomes "used"
// when redeemed at the door and "canceled" when voided by an admin.
const (
	TicketStatusActive   = "active"
	TicketStatusUsed     = "used"
	TicketStatusCanceled = "canceled"
)

// ValidTicketStatus reports whether s is one of the allowed ticket statuses.
func ValidTicketStatus(s string) bool {
	switch s {
	case TicketStatusActive, TicketStatusUsed, TicketStatusCanceled:
		return true
	}
	return false
}

// Ticket is an issued admission ticket.  Unlike a Guest, the presence of
// an active ticket itself implies a sold spot; availability for the
// ticket flow is always a count of active tickets.  Each ticket carries
// an opaque SHA-256 token unique per issuance, used for door lookup.
//
// Fields:
//  ID          – UUID primary key.
//  EventID     – owning event; deleted with it.
//  EventName   – denormalized event name captured at purchase time.
//  HolderName  – name of the ticket holder.
//  NationalID  – optional national identity document string.
//  Email       – optional contact email.
//  Status      – ticket status (active/used/canceled).
//  TokenHash   – opaque hex digest identifying this issuance.
//  PurchasedAt – issuance timestamp.
type Ticket struct {
	ID          string    `json:"id"`                    // tickets.id (CHAR(36))
	EventID     uint64    `json:"event_id"`              // tickets.event_id
	EventName   string    `json:"event_name"`            // tickets.event_name
	HolderName  string    `json:"holder_name"`           // tickets.holder_name
	NationalID  *string   `json:"national_id,omitempty"` // tickets.national_id (nullable)
	Email       *string   `json:"email,omitempty"`       // tickets.email (nullable)
	Status      string    `json:"status"`                // tickets.status
	TokenHash   string    `json:"hash"`                  // tickets.token_hash
	PurchasedAt time.Time `json:"purchased_at"`          // tickets.purchased_at
}

// TicketStats aggregates ticket counts by status for the admin
// statistics endpoint.
type TicketStats struct {
	Total    uint64 `json:"total"`
	Active   uint64 `json:"active"`
	Used     uint64 `json:"used"`
	Canceled uint64 `json:"canceled"`
}

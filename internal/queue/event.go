// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketIssuedEvent is published after a ticket purchase commits.  It carries
// enough information for downstream consumers to log or notify the holder
// without querying the primary database.
type TicketIssuedEvent struct {
	TicketID    string `json:"ticket_id"`
	EventID     uint64 `json:"event_id"`
	EventName   string `json:"event_name"`
	HolderName  string `json:"holder_name"`
	Email       string `json:"email,omitempty"`
	PriceCents  uint32 `json:"price_cents"`
	TokenHash   string `json:"token_hash"`
	PurchasedAt string `json:"purchased_at"`
}

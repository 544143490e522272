package model

import "time"

// Event statuses.  An event is "active" while tickets can still be
// registered against it; admins may flag it "closed" once sales end.
const (
	EventStatusActive = "active"
	EventStatusClosed = "closed"
)

// Event represents a ticketed event created by an administrator.
// An event owns its guest registrations and issued tickets; deleting
// the event cascades to both.  This struct corresponds to a row in
// the `events` table.
//
// Fields:
//  ID               – primary key identifier.
//  Name             – display name of the event.
//  Description      – long-form description shown to attendees.
//  ImageURL         – optional promotional image reference.
//  StartsAt         – when the event takes place (UTC).
//  Location         – venue address or name.
//  PriceCents       – unit ticket price in cents.
//  TicketsTotal     – total sellable capacity.
//  TicketsAvailable – denormalized remaining capacity.  Maintained in
//                     the same transaction as every registration write
//                     so it cannot drift from the guest count.
//  PaymentLink      – optional external payment URL.
//  Terms            – optional terms-of-entry text.
//  Status           – event status tag (active/closed).
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Event struct {
	ID               uint64    `json:"id"`                     // events.id
	Name             string    `json:"name"`                   // events.name
	Description      string    `json:"description"`            // events.description
	ImageURL         *string   `json:"image_url,omitempty"`    // events.image_url (nullable)
	StartsAt         time.Time `json:"starts_at"`              // events.starts_at
	Location         string    `json:"location"`               // events.location
	PriceCents       uint32    `json:"price_cents"`            // events.price_cents
	TicketsTotal     uint32    `json:"tickets_total"`          // events.tickets_total
	TicketsAvailable uint32    `json:"tickets_available"`      // events.tickets_available
	PaymentLink      *string   `json:"payment_link,omitempty"` // events.payment_link (nullable)
	Terms            *string   `json:"terms,omitempty"`        // events.terms (nullable)
	Status           string    `json:"status"`                 // events.status
	CreatedAt        time.Time `json:"created_at"`             // events.created_at
	UpdatedAt        time.Time `json:"updated_at"`             // events.updated_at
}

// Remaining reports the denormalized free capacity of the event.
func (e *Event) Remaining() uint32 {
	return e.TicketsAvailable
}

// IsFull reports whether the denormalized counter shows no free capacity.
// Registration paths recount active registrations under a row lock rather
// than trusting this value; it exists for display and test convenience.
func (e *Event) IsFull() bool {
	return e.TicketsAvailable == 0
}

// EventSnapshot carries the subset of event fields that lookup responses
// embed next to a guest or ticket (name, date and location of the owning
// event).  It avoids leaking admin-only fields such as capacity counters.
type EventSnapshot struct {
	ID       uint64    `json:"id"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"starts_at"`
	Location string    `json:"location"`
}

// Availability is the capacity snapshot returned for an event.  Sold and
// Available are derived from a live count of non-canceled registrations at
// read time, never from the stored counter.
type Availability struct {
	EventID     uint64  `json:"event_id"`
	Total       uint32  `json:"tickets_total"`
	Sold        uint32  `json:"tickets_sold"`
	Available   uint32  `json:"tickets_available"`
	PriceCents  uint32  `json:"price_cents"`
	PaymentLink *string `json:"payment_link,omitempty"`
}

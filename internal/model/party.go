package model

import "time"

// Party statuses.
const (
	PartyStatusActive   = "active"
	PartyStatusFinished = "finished"
)

// Party is a manually maintained dashboard mirror of an event's sales
// figures.  It is written by the seed process or by an administrator;
// nothing keeps it in sync with the events and tickets tables
// automatically.  The admin dashboard aggregates over parties because
// they are cheap to scan and carry pre-counted sold quantities.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – party/event display name.
//  QuantityTotal  – total tickets put on sale.
//  QuantitySold   – tickets sold so far.
//  UnitPriceCents – price per ticket in cents.
//  StartsAt       – party date (UTC).
//  Status         – party status tag (active/finished).
type Party struct {
	ID             uint64    `json:"id"`               // parties.id
	Name           string    `json:"name"`             // parties.name
	QuantityTotal  uint32    `json:"quantity_total"`   // parties.quantity_total
	QuantitySold   uint32    `json:"quantity_sold"`    // parties.quantity_sold
	UnitPriceCents uint32    `json:"unit_price_cents"` // parties.unit_price_cents
	StartsAt       time.Time `json:"starts_at"`        // parties.starts_at
	Status         string    `json:"status"`           // parties.status
}

// RevenueRealizedCents returns the revenue already collected for the party.
func (p *Party) RevenueRealizedCents() uint64 {
	return uint64(p.QuantitySold) * uint64(p.UnitPriceCents)
}

// RevenuePotentialCents returns the revenue if every ticket sold.
func (p *Party) RevenuePotentialCents() uint64 {
	return uint64(p.QuantityTotal) * uint64(p.UnitPriceCents)
}

// PercentSold returns the share of tickets sold, rounded to the nearest
// integer percent and capped at 100.  It returns 0 when the party has no
// tickets at all, so empty parties never divide by zero.
func (p *Party) PercentSold() int {
	if p.QuantityTotal == 0 {
		return 0
	}
	pct := int((float64(p.QuantitySold)/float64(p.QuantityTotal))*100 + 0.5)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Package report computes the read-only rollups served by the admin
// dashboard.  Everything here is a pure reduction over model slices so
// the arithmetic (revenue sums, rounded percentages, divide-by-zero
// guards) can be tested without a database.
package report

import "github.com/iliyamo/event-ticketing/internal/model"

// PartyReport is one dashboard row: a party with its derived revenue
// figures attached.
type PartyReport struct {
	model.Party
	RevenueRealizedCents  uint64 `json:"revenue_realized_cents"`
	RevenuePotentialCents uint64 `json:"revenue_potential_cents"`
	PercentSold           int    `json:"percent_sold"`
}

// Metrics summarises ticket sales across all parties.
type Metrics struct {
	TotalParties          int    `json:"total_parties"`
	TotalTicketsSold      uint64 `json:"total_tickets_sold"`
	RevenueRealizedCents  uint64 `json:"revenue_realized_cents"`
	RevenuePotentialCents uint64 `json:"revenue_potential_cents"`
}

// Dashboard is the payload of GET /v1/admin/dashboard.
type Dashboard struct {
	Metrics Metrics       `json:"metrics"`
	Parties []PartyReport `json:"parties"`
}

// BuildDashboard reduces the party list into the dashboard payload.
// An empty input produces all-zero metrics, never an error.
func BuildDashboard(parties []model.Party) Dashboard {
	d := Dashboard{Parties: make([]PartyReport, 0, len(parties))}
	d.Metrics.TotalParties = len(parties)
	for i := range parties {
		p := &parties[i]
		d.Metrics.TotalTicketsSold += uint64(p.QuantitySold)
		d.Metrics.RevenueRealizedCents += p.RevenueRealizedCents()
		d.Metrics.RevenuePotentialCents += p.RevenuePotentialCents()
		d.Parties = append(d.Parties, PartyReport{
			Party:                 *p,
			RevenueRealizedCents:  p.RevenueRealizedCents(),
			RevenuePotentialCents: p.RevenuePotentialCents(),
			PercentSold:           p.PercentSold(),
		})
	}
	return d
}

// Revenue is the global revenue rollup used by the statistics endpoint.
// PercentRealized is 0 when nothing could have been earned, so an empty
// platform reports zeros instead of faulting on division.
type Revenue struct {
	RealizedCents   uint64 `json:"realized_cents"`
	PotentialCents  uint64 `json:"potential_cents"`
	PercentRealized int    `json:"percent_realized"`
}

// BuildRevenue sums realized and potential revenue over all parties and
// derives the rounded realization percentage.
func BuildRevenue(parties []model.Party) Revenue {
	var rev Revenue
	for i := range parties {
		rev.RealizedCents += parties[i].RevenueRealizedCents()
		rev.PotentialCents += parties[i].RevenuePotentialCents()
	}
	if rev.PotentialCents > 0 {
		rev.PercentRealized = int((float64(rev.RealizedCents)/float64(rev.PotentialCents))*100 + 0.5)
		if rev.PercentRealized > 100 {
			rev.PercentRealized = 100
		}
	}
	return rev
}

// CountPair is a total/active pair for one record type.
type CountPair struct {
	Total  uint64 `json:"total"`
	Active uint64 `json:"active"`
}

// Statistics is the payload of GET /v1/admin/statistics.
type Statistics struct {
	Events  CountPair `json:"events"`
	Tickets CountPair `json:"tickets"`
	Parties CountPair `json:"parties"`
	Revenue Revenue   `json:"revenue"`
}

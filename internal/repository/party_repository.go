package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// PartyRepo provides data access to the parties table, the manually
// maintained sales mirror the admin dashboard reads.  Nothing in the
// request path writes to it; the seed command (or an operator) does.
type PartyRepo struct {
	db *sql.DB
}

// NewPartyRepo returns a new PartyRepo bound to the given database.
func NewPartyRepo(db *sql.DB) *PartyRepo { return &PartyRepo{db: db} }

// List returns all parties ordered by date descending (newest first),
// the order the dashboard displays them in.  When no parties exist it
// returns an empty slice and nil error.
func (r *PartyRepo) List(ctx context.Context) ([]model.Party, error) {
	const q = `SELECT id, name, quantity_total, quantity_sold, unit_price_cents, starts_at, status
               FROM parties ORDER BY starts_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	parties := make([]model.Party, 0)
	for rows.Next() {
		var p model.Party
		if err := rows.Scan(
			&p.ID, &p.Name, &p.QuantityTotal, &p.QuantitySold,
			&p.UnitPriceCents, &p.StartsAt, &p.Status,
		); err != nil {
			return nil, err
		}
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return parties, nil
}

// Counts returns the total number of parties and how many are active.
// Used by the admin statistics endpoint.
func (r *PartyRepo) Counts(ctx context.Context) (total, active uint64, err error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(status = ?), 0) FROM parties`
	err = r.db.QueryRowContext(ctx, q, model.PartyStatusActive).Scan(&total, &active)
	return total, active, err
}

// Create inserts a party row.  Used by the seed command only.
func (r *PartyRepo) Create(ctx context.Context, p *model.Party) error {
	const q = `INSERT INTO parties (name, quantity_total, quantity_sold, unit_price_cents, starts_at, status)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		p.Name, p.QuantityTotal, p.QuantitySold, p.UnitPriceCents, p.StartsAt.UTC(), p.Status,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

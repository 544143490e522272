package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// TicketRepo provides data access to the tickets table.  Issuance runs
// inside a transaction that locks the owning event row; capacity for
// the ticket flow is always the live count of active tickets, so the
// oversell check and the insert form one atomic unit.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// DB exposes the underlying sql.DB.
func (r *TicketRepo) DB() *sql.DB { return r.db }

const ticketColumns = `id, event_id, event_name, holder_name, national_id, email, status, token_hash, purchased_at`

// TicketDetail pairs a ticket with a snapshot of its owning event.
type TicketDetail struct {
	model.Ticket
	Event model.EventSnapshot `json:"event"`
}

const ticketDetailQuery = `SELECT t.id, t.event_id, t.event_name, t.holder_name, t.national_id,
                                  t.email, t.status, t.token_hash, t.purchased_at,
                                  e.id, e.name, e.starts_at, e.location
                           FROM tickets t
                           JOIN events e ON e.id = t.event_id`

// scanTicketDetail scans one row of ticketDetailQuery columns.
func scanTicketDetail(row interface{ Scan(...any) error }) (*TicketDetail, error) {
	var d TicketDetail
	var nationalID, email sql.NullString
	err := row.Scan(
		&d.ID, &d.EventID, &d.EventName, &d.HolderName, &nationalID,
		&email, &d.Status, &d.TokenHash, &d.PurchasedAt,
		&d.Event.ID, &d.Event.Name, &d.Event.StartsAt, &d.Event.Location,
	)
	if err != nil {
		return nil, err
	}
	if nationalID.Valid {
		v := nationalID.String
		d.NationalID = &v
	}
	if email.Valid {
		v := email.String
		d.Email = &v
	}
	return &d, nil
}

// Issue creates a ticket for an event.  The caller supplies the holder
// fields and the issuance token hash; Issue fills in the generated ID,
// the denormalized event name (when empty) and the purchase timestamp.
// The transaction locks the event row, counts active tickets against
// tickets_total, and rejects duplicates on (event, national ID) among
// active tickets.
func (r *TicketRepo) Issue(ctx context.Context, t *model.Ticket) (*TicketDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var total uint32
	var eventName string
	err = tx.QueryRowContext(ctx,
		`SELECT tickets_total, name FROM events WHERE id = ? FOR UPDATE`, t.EventID,
	).Scan(&total, &eventName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	var sold uint32
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE event_id = ? AND status = ?`,
		t.EventID, model.TicketStatusActive,
	).Scan(&sold)
	if err != nil {
		return nil, err
	}
	if sold >= total {
		return nil, ErrCapacityExceeded
	}

	if t.NationalID != nil && *t.NationalID != "" {
		var dup int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM tickets WHERE event_id = ? AND national_id = ? AND status = ?`,
			t.EventID, *t.NationalID, model.TicketStatusActive,
		).Scan(&dup)
		if err != nil {
			return nil, err
		}
		if dup > 0 {
			return nil, ErrDuplicateRegistration
		}
	}

	t.ID = uuid.New().String()
	if t.Status == "" {
		t.Status = model.TicketStatusActive
	}
	if t.EventName == "" {
		t.EventName = eventName
	}
	const ins = `INSERT INTO tickets (id, event_id, event_name, holder_name, national_id, email, status, token_hash)
                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, ins,
		t.ID, t.EventID, t.EventName, t.HolderName, t.NationalID, t.Email, t.Status, t.TokenHash,
	); err != nil {
		return nil, err
	}

	const sel = ticketDetailQuery + ` WHERE t.id = ?`
	d, err := scanTicketDetail(tx.QueryRowContext(ctx, sel, t.ID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return d, nil
}

// List returns every ticket with its event snapshot, newest purchase
// first.
func (r *TicketRepo) List(ctx context.Context) ([]TicketDetail, error) {
	const q = ticketDetailQuery + ` ORDER BY t.purchased_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]TicketDetail, 0)
	for rows.Next() {
		d, err := scanTicketDetail(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetByID returns a single ticket or ErrTicketNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id string) (*TicketDetail, error) {
	const q = ticketDetailQuery + ` WHERE t.id = ?`
	d, err := scanTicketDetail(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return d, nil
}

// FindByHash returns the ticket carrying the given issuance token.
// Tokens are unique, so at most one row can match.
func (r *TicketRepo) FindByHash(ctx context.Context, hash string) (*TicketDetail, error) {
	const q = ticketDetailQuery + ` WHERE t.token_hash = ?`
	d, err := scanTicketDetail(r.db.QueryRowContext(ctx, q, hash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return d, nil
}

// Consult searches active tickets by national ID and/or a
// case-insensitive holder-name fragment, newest purchase first.  It
// returns ErrTicketNotFound when nothing matches.  Handlers validate
// that at least one filter is present.
func (r *TicketRepo) Consult(ctx context.Context, nationalID, name string) ([]TicketDetail, error) {
	q := ticketDetailQuery + ` WHERE t.status = ?`
	args := []any{model.TicketStatusActive}
	if nationalID != "" {
		q += ` AND t.national_id = ?`
		args = append(args, nationalID)
	}
	if name != "" {
		q += ` AND LOWER(t.holder_name) LIKE ?`
		args = append(args, "%"+lowerASCII(name)+"%")
	}
	q += ` ORDER BY t.purchased_at DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tickets []TicketDetail
	for rows.Next() {
		d, err := scanTicketDetail(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, ErrTicketNotFound
	}
	return tickets, nil
}

// lowerASCII lowercases ASCII letters only, matching the collation the
// LIKE pattern is compared under.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}

// UpdateStatus overwrites a ticket's status and returns the updated
// ticket.  Only set membership is validated, and that happens in the
// handler; any status may replace any other.
func (r *TicketRepo) UpdateStatus(ctx context.Context, id, status string) (*TicketDetail, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Distinguish "missing" from "status already equal".
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a ticket.  Returns ErrTicketNotFound when no row was
// deleted.
func (r *TicketRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// Stats aggregates ticket counts by status in a single scan.
func (r *TicketRepo) Stats(ctx context.Context) (*model.TicketStats, error) {
	const q = `SELECT COUNT(*),
                      COALESCE(SUM(status = ?), 0),
                      COALESCE(SUM(status = ?), 0),
                      COALESCE(SUM(status = ?), 0)
               FROM tickets`
	var s model.TicketStats
	err := r.db.QueryRowContext(ctx, q,
		model.TicketStatusActive, model.TicketStatusUsed, model.TicketStatusCanceled,
	).Scan(&s.Total, &s.Active, &s.Used, &s.Canceled)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// GuestRepo provides data access to the guests table.  Registration and
// status changes run inside transactions that lock the owning event row,
// so the capacity check, the insert and the denormalized counter update
// are a single atomic unit.  Two concurrent registrations against the
// last free slot therefore cannot both succeed.
type GuestRepo struct {
	db *sql.DB
}

// NewGuestRepo returns a new GuestRepo bound to the given database.
func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need to compose
// transactions across repositories.
func (r *GuestRepo) DB() *sql.DB { return r.db }

const guestColumns = `id, event_id, name, national_id, email, phone, status, note, created_at`

// scanGuest scans one row of guestColumns into a model.Guest.
func scanGuest(row interface{ Scan(...any) error }) (*model.Guest, error) {
	var g model.Guest
	var nationalID, email, phone, note sql.NullString
	err := row.Scan(&g.ID, &g.EventID, &g.Name, &nationalID, &email, &phone, &g.Status, &note, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	if nationalID.Valid {
		v := nationalID.String
		g.NationalID = &v
	}
	if email.Valid {
		v := email.String
		g.Email = &v
	}
	if phone.Valid {
		v := phone.String
		g.Phone = &v
	}
	if note.Valid {
		v := note.String
		g.Note = &v
	}
	return &g, nil
}

// Register creates a guest registration for an event.  The whole
// sequence runs in one transaction:
//
//  1. lock the event row with SELECT ... FOR UPDATE
//  2. count registrations that still occupy capacity (not canceled)
//  3. reject with ErrCapacityExceeded when the count reaches the total
//  4. reject with ErrDuplicateRegistration when the national ID already
//     holds a non-canceled registration for this event
//  5. insert the guest with status "pending"
//  6. refresh the event's tickets_available mirror from the new count
//
// The row lock serialises concurrent registrations for the same event,
// so step 2 never observes a stale count.
func (r *GuestRepo) Register(ctx context.Context, g *model.Guest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var total uint32
	err = tx.QueryRowContext(ctx,
		`SELECT tickets_total FROM events WHERE id = ? FOR UPDATE`, g.EventID,
	).Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return err
	}

	var occupied uint32
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM guests WHERE event_id = ? AND status <> ?`,
		g.EventID, model.GuestStatusCanceled,
	).Scan(&occupied)
	if err != nil {
		return err
	}
	if occupied >= total {
		return ErrCapacityExceeded
	}

	if g.NationalID != nil && *g.NationalID != "" {
		var dup int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM guests WHERE event_id = ? AND national_id = ? AND status <> ?`,
			g.EventID, *g.NationalID, model.GuestStatusCanceled,
		).Scan(&dup)
		if err != nil {
			return err
		}
		if dup > 0 {
			return ErrDuplicateRegistration
		}
	}

	g.ID = uuid.New().String()
	g.Status = model.GuestStatusPending
	const ins = `INSERT INTO guests (id, event_id, name, national_id, email, phone, status, note)
                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, ins,
		g.ID, g.EventID, g.Name, g.NationalID, g.Email, g.Phone, g.Status, g.Note,
	); err != nil {
		return err
	}

	if err := refreshAvailableTx(ctx, tx, g.EventID); err != nil {
		return err
	}

	const sel = `SELECT ` + guestColumns + ` FROM guests WHERE id = ?`
	created, err := scanGuest(tx.QueryRowContext(ctx, sel, g.ID))
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*g = *created
	return nil
}

// refreshAvailableTx recomputes the event's tickets_available mirror
// from the live count of non-canceled guests.  It runs inside the
// caller's transaction while the event row is locked.
func refreshAvailableTx(ctx context.Context, tx *sql.Tx, eventID uint64) error {
	const q = `UPDATE events
               SET tickets_available = GREATEST(
                   CAST(tickets_total AS SIGNED) -
                   (SELECT COUNT(*) FROM guests WHERE event_id = events.id AND status <> ?), 0)
               WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, model.GuestStatusCanceled, eventID)
	return err
}

// ListByEvent returns all registrations for an event, newest first.
// It returns ErrEventNotFound when the event does not exist so callers
// can distinguish "no guests" from "no event".
func (r *GuestRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Guest, error) {
	var exists int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE id = ?`, eventID,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrEventNotFound
	}
	const q = `SELECT ` + guestColumns + ` FROM guests WHERE event_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	guests := make([]model.Guest, 0)
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return guests, nil
}

// GuestDetail pairs a guest with a snapshot of its owning event, the
// shape returned by lookups so attendees see the event name, date and
// location next to their registration.
type GuestDetail struct {
	model.Guest
	Event model.EventSnapshot `json:"event"`
}

const guestDetailQuery = `SELECT g.id, g.event_id, g.name, g.national_id, g.email, g.phone,
                                 g.status, g.note, g.created_at,
                                 e.id, e.name, e.starts_at, e.location
                          FROM guests g
                          JOIN events e ON e.id = g.event_id`

// scanGuestDetail scans one row of guestDetailQuery columns.
func scanGuestDetail(row interface{ Scan(...any) error }) (*GuestDetail, error) {
	var d GuestDetail
	var nationalID, email, phone, note sql.NullString
	err := row.Scan(
		&d.ID, &d.EventID, &d.Name, &nationalID, &email, &phone,
		&d.Status, &note, &d.CreatedAt,
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
	if phone.Valid {
		v := phone.String
		d.Phone = &v
	}
	if note.Valid {
		v := note.String
		d.Note = &v
	}
	return &d, nil
}

// FindByIdentity locates a guest by exact (event, national ID, name)
// match.  It returns ErrGuestNotFound when nothing matches.
func (r *GuestRepo) FindByIdentity(ctx context.Context, eventID uint64, nationalID, name string) (*GuestDetail, error) {
	const q = guestDetailQuery + ` WHERE g.event_id = ? AND g.national_id = ? AND g.name = ?`
	d, err := scanGuestDetail(r.db.QueryRowContext(ctx, q, eventID, nationalID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return d, nil
}

// StatusByIdentity locates a guest by national ID and/or email.  When
// several registrations match (a reused email, say), the most recent
// one wins.  At least one of the two keys must be non-empty; handlers
// validate that before calling.
func (r *GuestRepo) StatusByIdentity(ctx context.Context, nationalID, email string) (*GuestDetail, error) {
	q := guestDetailQuery + ` WHERE 1=1`
	args := make([]any, 0, 2)
	if nationalID != "" {
		q += ` AND g.national_id = ?`
		args = append(args, nationalID)
	}
	if email != "" {
		q += ` AND g.email = ?`
		args = append(args, email)
	}
	q += ` ORDER BY g.created_at DESC LIMIT 1`
	d, err := scanGuestDetail(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return d, nil
}

// UpdateStatusByEmail sets the status of the most recent registration
// carrying the given email, then refreshes the owning event's
// availability mirror in the same transaction.  Returns the updated
// guest with its event snapshot, or ErrGuestNotFound.
func (r *GuestRepo) UpdateStatusByEmail(ctx context.Context, email, status string) (*GuestDetail, error) {
	const sel = guestDetailQuery + ` WHERE g.email = ? ORDER BY g.created_at DESC LIMIT 1`
	d, err := scanGuestDetail(r.db.QueryRowContext(ctx, sel, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return r.setStatus(ctx, d.ID, d.EventID, status)
}

// UpdateStatusByID sets the status of a registration addressed by its
// identifier (the admin-trusted key).  Returns ErrGuestNotFound when
// the registration does not exist.
func (r *GuestRepo) UpdateStatusByID(ctx context.Context, id, status string) (*GuestDetail, error) {
	const sel = guestDetailQuery + ` WHERE g.id = ?`
	d, err := scanGuestDetail(r.db.QueryRowContext(ctx, sel, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return r.setStatus(ctx, id, d.EventID, status)
}

// setStatus performs the status overwrite under the event row lock and
// rederives tickets_available, since moving to or from "canceled"
// changes how many registrations occupy capacity.
func (r *GuestRepo) setStatus(ctx context.Context, guestID string, eventID uint64, status string) (*GuestDetail, error) {
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
	if err := tx.QueryRowContext(ctx,
		`SELECT tickets_total FROM events WHERE id = ? FOR UPDATE`, eventID,
	).Scan(&total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE guests SET status = ? WHERE id = ?`, status, guestID,
	); err != nil {
		return nil, err
	}
	if err := refreshAvailableTx(ctx, tx, eventID); err != nil {
		return nil, err
	}
	const sel = guestDetailQuery + ` WHERE g.id = ?`
	d, err := scanGuestDetail(tx.QueryRowContext(ctx, sel, guestID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return d, nil
}

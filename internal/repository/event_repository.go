// Package repository contains data access logic for the ticketing domain.
// This file defines the repository for events. All SQL lives here; the
// handler layer never touches database/sql directly. Timestamps are
// stored as DATETIME in UTC and scanned into time.Time via the driver's
// parseTime mode.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// EventRepo manages persistence for events.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.  Use this method to
// obtain a *sql.DB when you need fine-grained transaction control.
func (r *EventRepo) DB() *sql.DB {
	return r.db
}

// eventColumns is the canonical column list scanned into model.Event.
const eventColumns = `id, name, description, image_url, starts_at, location,
       price_cents, tickets_total, tickets_available, payment_link, terms,
       status, created_at, updated_at`

// scanEvent scans one row of eventColumns into a model.Event.
func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var imageURL, paymentLink, terms sql.NullString
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &imageURL, &e.StartsAt, &e.Location,
		&e.PriceCents, &e.TicketsTotal, &e.TicketsAvailable, &paymentLink, &terms,
		&e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		v := imageURL.String
		e.ImageURL = &v
	}
	if paymentLink.Valid {
		v := paymentLink.String
		e.PaymentLink = &v
	}
	if terms.Valid {
		v := terms.String
		e.Terms = &v
	}
	return &e, nil
}

// Create inserts a new event and assigns the generated ID back to the
// struct.  Timestamps default in the database; the inserted row is read
// back so the caller sees them.  Input validation (positive price and
// capacity) happens in the handler before this is called.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events
        (name, description, image_url, starts_at, location, price_cents,
         tickets_total, tickets_available, payment_link, terms, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	status := e.Status
	if status == "" {
		status = model.EventStatusActive
	}
	res, err := r.db.ExecContext(ctx, q,
		e.Name, e.Description, e.ImageURL, e.StartsAt.UTC(), e.Location,
		e.PriceCents, e.TicketsTotal, e.TicketsAvailable, e.PaymentLink,
		e.Terms, status,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	const sel = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	created, err := scanEvent(r.db.QueryRowContext(ctx, sel, e.ID))
	if err != nil {
		return err
	}
	*e = *created
	return nil
}

// GetByID retrieves an event by its ID.  It returns ErrEventNotFound
// when no matching row exists.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	e, err := scanEvent(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

// EventWithCount pairs an event with the number of guest registrations
// it holds.  Returned by List so callers avoid a second query per event.
type EventWithCount struct {
	model.Event
	GuestCount uint64 `json:"guest_count"`
}

// List returns all events ordered by start date ascending, each
// annotated with its guest registration count.  When no events exist it
// returns an empty slice and nil error.
func (r *EventRepo) List(ctx context.Context) ([]EventWithCount, error) {
	const q = `SELECT e.id, e.name, e.description, e.image_url, e.starts_at, e.location,
                      e.price_cents, e.tickets_total, e.tickets_available, e.payment_link,
                      e.terms, e.status, e.created_at, e.updated_at,
                      COUNT(g.id)
               FROM events e
               LEFT JOIN guests g ON g.event_id = e.id
               GROUP BY e.id
               ORDER BY e.starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]EventWithCount, 0)
	for rows.Next() {
		var ec EventWithCount
		var imageURL, paymentLink, terms sql.NullString
		if err := rows.Scan(
			&ec.ID, &ec.Name, &ec.Description, &imageURL, &ec.StartsAt, &ec.Location,
			&ec.PriceCents, &ec.TicketsTotal, &ec.TicketsAvailable, &paymentLink,
			&terms, &ec.Status, &ec.CreatedAt, &ec.UpdatedAt,
			&ec.GuestCount,
		); err != nil {
			return nil, err
		}
		if imageURL.Valid {
			v := imageURL.String
			ec.ImageURL = &v
		}
		if paymentLink.Valid {
			v := paymentLink.String
			ec.PaymentLink = &v
		}
		if terms.Valid {
			v := terms.String
			ec.Terms = &v
		}
		result = append(result, ec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Counts returns the total number of events and how many are active.
// Used by the admin statistics endpoint.
func (r *EventRepo) Counts(ctx context.Context) (total, active uint64, err error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(status = ?), 0) FROM events`
	err = r.db.QueryRowContext(ctx, q, model.EventStatusActive).Scan(&total, &active)
	return total, active, err
}

// EventUpdate carries the optional fields of a partial event update.
// Nil pointers leave the column untouched.
type EventUpdate struct {
	Name             *string
	Description      *string
	ImageURL         *string
	StartsAt         *time.Time
	Location         *string
	PriceCents       *uint32
	TicketsTotal     *uint32
	TicketsAvailable *uint32
	PaymentLink      *string
	Terms            *string
	Status           *string
}

// Update applies a partial update to an event and returns the updated
// row.  It returns ErrEventNotFound when the event does not exist.  An
// update carrying no fields simply re-reads the event.
func (r *EventRepo) Update(ctx context.Context, id uint64, u EventUpdate) (*model.Event, error) {
	// Existence check first so a missing event maps to ErrEventNotFound
	// rather than a zero-row UPDATE being silently ignored.
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	set := make([]string, 0, 11)
	args := make([]any, 0, 12)
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.ImageURL != nil {
		add("image_url", *u.ImageURL)
	}
	if u.StartsAt != nil {
		add("starts_at", u.StartsAt.UTC())
	}
	if u.Location != nil {
		add("location", *u.Location)
	}
	if u.PriceCents != nil {
		add("price_cents", *u.PriceCents)
	}
	if u.TicketsTotal != nil {
		add("tickets_total", *u.TicketsTotal)
	}
	if u.TicketsAvailable != nil {
		add("tickets_available", *u.TicketsAvailable)
	}
	if u.PaymentLink != nil {
		add("payment_link", *u.PaymentLink)
	}
	if u.Terms != nil {
		add("terms", *u.Terms)
	}
	if u.Status != nil {
		add("status", *u.Status)
	}
	if len(set) > 0 {
		q := "UPDATE events SET "
		for i, s := range set {
			if i > 0 {
				q += ", "
			}
			q += s
		}
		q += " WHERE id = ?"
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes an event.  Guests and tickets referencing it are
// removed by the FK ON DELETE CASCADE.  It returns ErrEventNotFound
// when no row was deleted.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Availability computes the capacity snapshot for an event at read
// time.  Sold is the live count of non-canceled guest registrations,
// the same occupancy predicate the registration gate enforces; the
// denormalized tickets_available column is deliberately not consulted.
func (r *EventRepo) Availability(ctx context.Context, id uint64) (*model.Availability, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var sold uint32
	const cnt = `SELECT COUNT(*) FROM guests WHERE event_id = ? AND status <> ?`
	if err := r.db.QueryRowContext(ctx, cnt, id, model.GuestStatusCanceled).Scan(&sold); err != nil {
		return nil, err
	}
	avail := uint32(0)
	if sold < e.TicketsTotal {
		avail = e.TicketsTotal - sold
	}
	return &model.Availability{
		EventID:     id,
		Total:       e.TicketsTotal,
		Sold:        sold,
		Available:   avail,
		PriceCents:  e.PriceCents,
		PaymentLink: e.PaymentLink,
	}, nil
}

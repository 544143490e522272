package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// AdminRepo provides read access to the seeded administrator record.
// The platform runs with a single admin whose shared secret is stored
// as a bcrypt hash; the repository never sees the plain secret.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo returns a new AdminRepo bound to the given database.
func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{db: db} }

// Get returns the seeded admin.  When several rows exist (they should
// not), the oldest wins.  Returns ErrAdminNotFound when the table is
// empty, which login treats identically to a wrong secret.
func (r *AdminRepo) Get(ctx context.Context) (*model.Admin, error) {
	const q = `SELECT id, email, secret_hash, display_name, created_at
               FROM admins ORDER BY id ASC LIMIT 1`
	var a model.Admin
	err := r.db.QueryRowContext(ctx, q).Scan(&a.ID, &a.Email, &a.SecretHash, &a.DisplayName, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts an admin row.  Used by the seed command only.
func (r *AdminRepo) Create(ctx context.Context, a *model.Admin) error {
	const q = `INSERT INTO admins (email, secret_hash, display_name) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Email, a.SecretHash, a.DisplayName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

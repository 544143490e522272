package model

import "time"

// Admin represents the administrator record seeded into the `admins`
// table.  The row is immutable after seeding.  SecretHash holds a
// bcrypt hash of the shared admin secret; the plain secret never
// touches the database.
//
// Fields:
//  ID          – primary key identifier.
//  Email       – admin contact email.
//  SecretHash  – bcrypt hash of the shared admin secret.
//  DisplayName – human-readable name shown in the dashboard.
//  CreatedAt   – seeding timestamp.
type Admin struct {
	ID          uint64    // admins.id
	Email       string    // admins.email
	SecretHash  string    // admins.secret_hash
	DisplayName string    // admins.display_name
	CreatedAt   time.Time // admins.created_at
}

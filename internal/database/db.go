package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema holds the table definitions for the ticketing platform.  The
// ON DELETE CASCADE constraints make an event the exclusive owner of
// its guests and tickets: deleting the event removes both.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		email VARCHAR(255) NOT NULL UNIQUE,
		secret_hash VARCHAR(255) NOT NULL,
		display_name VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		image_url VARCHAR(1024) NULL,
		starts_at DATETIME NOT NULL,
		location VARCHAR(255) NOT NULL,
		price_cents INT UNSIGNED NOT NULL,
		tickets_total INT UNSIGNED NOT NULL,
		tickets_available INT UNSIGNED NOT NULL,
		payment_link VARCHAR(1024) NULL,
		terms TEXT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS guests (
		id CHAR(36) PRIMARY KEY,
		event_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		national_id VARCHAR(32) NULL,
		email VARCHAR(255) NULL,
		phone VARCHAR(32) NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'pending',
		note TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_guests_event FOREIGN KEY (event_id)
			REFERENCES events(id) ON DELETE CASCADE,
		INDEX idx_guests_event_national (event_id, national_id),
		INDEX idx_guests_email (email)
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id CHAR(36) PRIMARY KEY,
		event_id BIGINT UNSIGNED NOT NULL,
		event_name VARCHAR(255) NOT NULL,
		holder_name VARCHAR(255) NOT NULL,
		national_id VARCHAR(32) NULL,
		email VARCHAR(255) NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'active',
		token_hash CHAR(64) NOT NULL UNIQUE,
		purchased_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_tickets_event FOREIGN KEY (event_id)
			REFERENCES events(id) ON DELETE CASCADE,
		INDEX idx_tickets_event_status (event_id, status)
	)`,
	`CREATE TABLE IF NOT EXISTS parties (
		id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		quantity_total INT UNSIGNED NOT NULL,
		quantity_sold INT UNSIGNED NOT NULL DEFAULT 0,
		unit_price_cents INT UNSIGNED NOT NULL,
		starts_at DATETIME NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'active'
	)`,
}

// EnsureSchema creates the tables when they do not exist.  Invoked by
// the seed command; the server assumes the schema is in place.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createEventsTable,
		createSeatsTable,
		createBookingsTable,
		createBookingsUserIndex,
		createSeatsStatusIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id VARCHAR(64) PRIMARY KEY,
    title VARCHAR(500) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    date VARCHAR(64) NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    payment_phone VARCHAR(32) NOT NULL DEFAULT '',
    max_seats_per_booking INTEGER NOT NULL DEFAULT 0,
    tables JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createSeatsTable = `
CREATE TABLE IF NOT EXISTS seats (
    event_id VARCHAR(64) NOT NULL,
    id VARCHAR(64) NOT NULL,
    table_id VARCHAR(64) NOT NULL DEFAULT '',
    row_label VARCHAR(32) NOT NULL DEFAULT '',
    seat_number INTEGER NOT NULL DEFAULT 0,
    price BIGINT NOT NULL DEFAULT 0,
    status VARCHAR(16) NOT NULL DEFAULT 'free',
    locked_at TIMESTAMPTZ,
    booked_by VARCHAR(64) NOT NULL DEFAULT '',
    PRIMARY KEY (event_id, id)
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id VARCHAR(64) PRIMARY KEY,
    event_id VARCHAR(64) NOT NULL,
    user_id VARCHAR(64) NOT NULL,
    seat_ids TEXT[] NOT NULL,
    total_price BIGINT NOT NULL DEFAULT 0,
    status VARCHAR(16) NOT NULL DEFAULT 'reserved',
    created_at TIMESTAMPTZ NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL
);`

const createBookingsUserIndex = `
CREATE INDEX IF NOT EXISTS idx_bookings_user_status ON bookings (user_id, status);`

const createSeatsStatusIndex = `
CREATE INDEX IF NOT EXISTS idx_seats_event_status ON seats (event_id, status);`

// Package postgres implements the store contracts on PostgreSQL. Status
// transitions still go through the reservation engine; this layer only
// reads and writes rows.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"tablebook/internal/database"
	"tablebook/internal/models"
	"tablebook/internal/store"
)

// New wires the three postgres-backed stores.
func New(db *database.DB) *store.Stores {
	return &store.Stores{
		Events:   &EventStore{db: db},
		Seats:    &SeatStore{db: db},
		Bookings: &BookingStore{db: db},
	}
}

type EventStore struct {
	db *database.DB
}

func (s *EventStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	query := `
		SELECT id, title, description, date, image_url, payment_phone,
		       max_seats_per_booking, tables, created_at, updated_at
		FROM events
		WHERE id = $1`

	event, err := scanEvent(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return event, err
}

func (s *EventStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	query := `
		SELECT id, title, description, date, image_url, payment_phone,
		       max_seats_per_booking, tables, created_at, updated_at
		FROM events
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}

	return events, rows.Err()
}

func (s *EventStore) PutEvent(ctx context.Context, event *models.Event) error {
	tables, err := json.Marshal(event.Tables)
	if err != nil {
		return fmt.Errorf("failed to marshal tables: %w", err)
	}

	query := `
		INSERT INTO events (id, title, description, date, image_url, payment_phone,
		                    max_seats_per_booking, tables, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			date = EXCLUDED.date,
			image_url = EXCLUDED.image_url,
			payment_phone = EXCLUDED.payment_phone,
			max_seats_per_booking = EXCLUDED.max_seats_per_booking,
			tables = EXCLUDED.tables,
			updated_at = EXCLUDED.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Date,
		event.ImageURL,
		event.PaymentPhone,
		event.MaxSeatsPerBooking,
		tables,
		event.CreatedAt,
		event.UpdatedAt,
	)
	return err
}

func (s *EventStore) DeleteEvent(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	var tables []byte

	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.ImageURL,
		&event.PaymentPhone,
		&event.MaxSeatsPerBooking,
		&tables,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(tables) > 0 {
		if err := json.Unmarshal(tables, &event.Tables); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tables: %w", err)
		}
	}

	return event, nil
}

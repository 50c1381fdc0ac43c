package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"tablebook/internal/database"
	"tablebook/internal/models"
	"tablebook/internal/store"
)

type BookingStore struct {
	db *database.DB
}

func (s *BookingStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	query := `
		SELECT id, event_id, user_id, seat_ids, total_price, status, created_at, expires_at
		FROM bookings
		WHERE id = $1`

	booking, err := scanBooking(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return booking, err
}

func (s *BookingStore) ListBookings(ctx context.Context, filter store.BookingFilter) ([]models.Booking, error) {
	query := `
		SELECT id, event_id, user_id, seat_ids, total_price, status, created_at, expires_at
		FROM bookings
		WHERE ($1 = '' OR event_id = $1)
		  AND ($2 = '' OR user_id = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, filter.EventID, filter.UserID, filter.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}

	return bookings, rows.Err()
}

func (s *BookingStore) AppendBooking(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (id, event_id, user_id, seat_ids, total_price, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		booking.ID,
		booking.EventID,
		booking.UserID,
		pq.Array(booking.SeatIDs),
		booking.TotalPrice,
		booking.Status,
		booking.CreatedAt,
		booking.ExpiresAt,
	)
	return err
}

func (s *BookingStore) UpdateBookingStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1
		WHERE id = $2
		RETURNING id, event_id, user_id, seat_ids, total_price, status, created_at, expires_at`

	booking, err := scanBooking(s.db.QueryRowContext(ctx, query, status, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return booking, err
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	booking := &models.Booking{}

	err := row.Scan(
		&booking.ID,
		&booking.EventID,
		&booking.UserID,
		pq.Array(&booking.SeatIDs),
		&booking.TotalPrice,
		&booking.Status,
		&booking.CreatedAt,
		&booking.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	return booking, nil
}

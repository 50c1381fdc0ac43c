package postgres

import (
	"context"
	"database/sql"

	"tablebook/internal/database"
	"tablebook/internal/models"
)

type SeatStore struct {
	db *database.DB
}

func (s *SeatStore) GetSeat(ctx context.Context, eventID, seatID string) (*models.Seat, error) {
	query := `
		SELECT event_id, id, table_id, row_label, seat_number, price, status, locked_at, booked_by
		FROM seats
		WHERE event_id = $1 AND id = $2`

	seat, err := scanSeat(s.db.QueryRowContext(ctx, query, eventID, seatID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return seat, err
}

func (s *SeatStore) ListSeats(ctx context.Context, eventID string) ([]models.Seat, error) {
	query := `
		SELECT event_id, id, table_id, row_label, seat_number, price, status, locked_at, booked_by
		FROM seats
		WHERE event_id = $1
		ORDER BY row_label, seat_number, id`

	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []models.Seat
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, *seat)
	}

	return seats, rows.Err()
}

func (s *SeatStore) PutSeat(ctx context.Context, seat *models.Seat) error {
	query := `
		INSERT INTO seats (event_id, id, table_id, row_label, seat_number, price, status, locked_at, booked_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (event_id, id) DO UPDATE SET
			table_id = EXCLUDED.table_id,
			row_label = EXCLUDED.row_label,
			seat_number = EXCLUDED.seat_number,
			price = EXCLUDED.price,
			status = EXCLUDED.status,
			locked_at = EXCLUDED.locked_at,
			booked_by = EXCLUDED.booked_by`

	_, err := s.db.ExecContext(ctx, query,
		seat.EventID,
		seat.ID,
		seat.TableID,
		seat.Row,
		seat.Number,
		seat.Price,
		seat.Status,
		seat.LockedAt,
		seat.BookedBy,
	)
	return err
}

func (s *SeatStore) DeleteSeats(ctx context.Context, eventID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM seats WHERE event_id = $1`, eventID)
	return err
}

func scanSeat(row rowScanner) (*models.Seat, error) {
	seat := &models.Seat{}
	var lockedAt sql.NullTime

	err := row.Scan(
		&seat.EventID,
		&seat.ID,
		&seat.TableID,
		&seat.Row,
		&seat.Number,
		&seat.Price,
		&seat.Status,
		&lockedAt,
		&seat.BookedBy,
	)
	if err != nil {
		return nil, err
	}

	if lockedAt.Valid {
		t := lockedAt.Time
		seat.LockedAt = &t
	}

	return seat, nil
}

// Package store defines the persistence contracts of the reservation state.
// The reservation engine owns every status transition on seats and bookings;
// implementations only move bytes and never apply domain rules.
package store

import (
	"context"

	"tablebook/internal/models"
)

// BookingFilter narrows ListBookings. Zero fields match everything.
type BookingFilter struct {
	EventID string
	UserID  string
	Status  string
}

// EventStore holds the event catalog.
type EventStore interface {
	// GetEvent returns (nil, nil) when the event does not exist.
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	PutEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id string) error
}

// SeatStore holds seat records scoped to an event.
type SeatStore interface {
	// GetSeat returns (nil, nil) when the seat does not exist under the event.
	GetSeat(ctx context.Context, eventID, seatID string) (*models.Seat, error)
	ListSeats(ctx context.Context, eventID string) ([]models.Seat, error)
	PutSeat(ctx context.Context, seat *models.Seat) error
	// DeleteSeats removes all seats of an event; used only by event deletion.
	DeleteSeats(ctx context.Context, eventID string) error
}

// BookingStore is an append-only ledger; status is the only mutable field
// and bookings are never deleted.
type BookingStore interface {
	// GetBooking returns (nil, nil) when the booking does not exist.
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	AppendBooking(ctx context.Context, booking *models.Booking) error
	// UpdateBookingStatus returns the updated booking, or (nil, nil) when absent.
	UpdateBookingStatus(ctx context.Context, id, status string) (*models.Booking, error)
}

// Stores bundles the three stores a server instance is wired with.
type Stores struct {
	Events   EventStore
	Seats    SeatStore
	Bookings BookingStore
}

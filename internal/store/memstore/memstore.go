// Package memstore is the in-process store backing a single-writer
// deployment. All state lives behind one RWMutex; values are copied on the
// way in and out so callers never share memory with the store.
package memstore

import (
	"context"
	"sort"
	"sync"

	"tablebook/internal/models"
	"tablebook/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	events   map[string]models.Event
	seats    map[string]map[string]models.Seat // event id -> seat id -> seat
	bookings map[string]models.Booking
	order    []string // booking ids in append order
}

// New returns an empty in-memory store implementing store.EventStore,
// store.SeatStore and store.BookingStore.
func New() *Store {
	return &Store{
		events:   make(map[string]models.Event),
		seats:    make(map[string]map[string]models.Seat),
		bookings: make(map[string]models.Booking),
	}
}

// Stores returns the store wired as all three store facets.
func (s *Store) Stores() *store.Stores {
	return &store.Stores{Events: s, Seats: s, Bookings: s}
}

func (s *Store) GetEvent(_ context.Context, id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return nil, nil
	}
	return copyEvent(event), nil
}

func (s *Store) ListEvents(_ context.Context) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]models.Event, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, *copyEvent(event))
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].ID < events[j].ID
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

func (s *Store) PutEvent(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[event.ID] = *copyEvent(*event)
	return nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.events, id)
	return nil
}

func (s *Store) GetSeat(_ context.Context, eventID, seatID string) (*models.Seat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seat, ok := s.seats[eventID][seatID]
	if !ok {
		return nil, nil
	}
	return copySeat(seat), nil
}

func (s *Store) ListSeats(_ context.Context, eventID string) ([]models.Seat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seats := make([]models.Seat, 0, len(s.seats[eventID]))
	for _, seat := range s.seats[eventID] {
		seats = append(seats, *copySeat(seat))
	}
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Row == seats[j].Row {
			return seats[i].Number < seats[j].Number
		}
		return seats[i].Row < seats[j].Row
	})
	return seats, nil
}

func (s *Store) PutSeat(_ context.Context, seat *models.Seat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.seats[seat.EventID]
	if !ok {
		byID = make(map[string]models.Seat)
		s.seats[seat.EventID] = byID
	}
	byID[seat.ID] = *copySeat(*seat)
	return nil
}

func (s *Store) DeleteSeats(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.seats, eventID)
	return nil
}

func (s *Store) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	return copyBooking(booking), nil
}

func (s *Store) ListBookings(_ context.Context, filter store.BookingFilter) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bookings []models.Booking
	for _, id := range s.order {
		booking := s.bookings[id]
		if filter.EventID != "" && booking.EventID != filter.EventID {
			continue
		}
		if filter.UserID != "" && booking.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && booking.Status != filter.Status {
			continue
		}
		bookings = append(bookings, *copyBooking(booking))
	}
	return bookings, nil
}

func (s *Store) AppendBooking(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookings[booking.ID] = *copyBooking(*booking)
	s.order = append(s.order, booking.ID)
	return nil
}

func (s *Store) UpdateBookingStatus(_ context.Context, id, status string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	booking.Status = status
	s.bookings[id] = booking
	return copyBooking(booking), nil
}

func copyEvent(event models.Event) *models.Event {
	out := event
	out.Tables = append([]models.Table(nil), event.Tables...)
	return &out
}

func copySeat(seat models.Seat) *models.Seat {
	out := seat
	if seat.LockedAt != nil {
		t := *seat.LockedAt
		out.LockedAt = &t
	}
	return &out
}

func copyBooking(booking models.Booking) *models.Booking {
	out := booking
	out.SeatIDs = append([]string(nil), booking.SeatIDs...)
	return &out
}

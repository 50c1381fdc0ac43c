// Package booking implements the reservation state machine: atomically
// claiming seats for a booking, promoting paid bookings, and releasing
// expired locks. The engine is the only writer of seat and booking status.
package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tablebook/internal/apperr"
	"tablebook/internal/clock"
	"tablebook/internal/logger"
	"tablebook/internal/metrics"
	"tablebook/internal/models"
	"tablebook/internal/store"
)

// AdminRecipient is the broadcast target for operator notifications.
const AdminRecipient = "admins"

// Notifier delivers fire-and-forget messages and lifecycle events to an
// external sink. Errors are logged by the engine and never propagate to
// callers.
type Notifier interface {
	Notify(ctx context.Context, recipient, message string) error
	PublishEvent(subject string, payload any) error
}

// Config holds the reservation timing knobs.
type Config struct {
	LockDuration  time.Duration
	SweepInterval time.Duration
}

type Engine struct {
	stores       *store.Stores
	notifier     Notifier
	clock        clock.Clock
	lockDuration time.Duration

	// One mutex per event. All seats of a booking belong to a single event,
	// so holding the event mutex across the check-then-lock sequence makes
	// the whole seat set claim atomic.
	locks sync.Map // event id -> *sync.Mutex
}

func NewEngine(stores *store.Stores, notifier Notifier, clk clock.Clock, lockDuration time.Duration) *Engine {
	return &Engine{
		stores:       stores,
		notifier:     notifier,
		clock:        clk,
		lockDuration: lockDuration,
	}
}

func (e *Engine) eventMu(eventID string) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(eventID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Reserve atomically claims the requested seats and appends a reserved
// booking. Exactly one of two racing attempts on an overlapping seat set
// succeeds; the other observes ErrConflict.
func (e *Engine) Reserve(ctx context.Context, userID string, req *models.CreateBookingRequest) (*models.CreateBookingResponse, error) {
	if len(req.SeatIDs) == 0 {
		return nil, fmt.Errorf("no seats selected: %w", apperr.ErrInvalidRequest)
	}

	seen := make(map[string]struct{}, len(req.SeatIDs))
	for _, id := range req.SeatIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate seat %s: %w", id, apperr.ErrInvalidRequest)
		}
		seen[id] = struct{}{}
	}

	event, err := e.stores.Events.GetEvent(ctx, req.EventID)
	if err != nil {
		metrics.ReservationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", req.EventID, apperr.ErrNotFound)
	}
	if event.MaxSeatsPerBooking > 0 && len(req.SeatIDs) > event.MaxSeatsPerBooking {
		return nil, fmt.Errorf("at most %d seats per booking: %w", event.MaxSeatsPerBooking, apperr.ErrInvalidRequest)
	}

	seatIDs := append([]string(nil), req.SeatIDs...)
	sort.Strings(seatIDs)

	mu := e.eventMu(req.EventID)
	mu.Lock()
	defer mu.Unlock()

	// Critical section: nothing may act on these seats between the
	// availability check and the lock writes below.
	now := e.clock.Now()
	seats := make([]*models.Seat, 0, len(seatIDs))
	var total int64
	for _, id := range seatIDs {
		seat, err := e.stores.Seats.GetSeat(ctx, req.EventID, id)
		if err != nil {
			metrics.ReservationsTotal.WithLabelValues(metrics.ResultError).Inc()
			return nil, fmt.Errorf("failed to get seat %s: %w", id, err)
		}
		if seat == nil {
			return nil, fmt.Errorf("seat %s: %w", id, apperr.ErrNotFound)
		}
		if seat.Status != models.SeatFree {
			metrics.ReservationsTotal.WithLabelValues(metrics.ResultConflict).Inc()
			return nil, fmt.Errorf("seat %s is not available: %w", id, apperr.ErrConflict)
		}
		total += seat.Price
		seats = append(seats, seat)
	}

	locked := make([]*models.Seat, 0, len(seats))
	for _, seat := range seats {
		lockedAt := now
		seat.Status = models.SeatLocked
		seat.LockedAt = &lockedAt
		seat.BookedBy = userID
		if err := e.stores.Seats.PutSeat(ctx, seat); err != nil {
			e.unlockSeats(ctx, locked)
			metrics.ReservationsTotal.WithLabelValues(metrics.ResultError).Inc()
			return nil, fmt.Errorf("failed to lock seat %s: %w", seat.ID, err)
		}
		locked = append(locked, seat)
	}

	booking := &models.Booking{
		ID:         uuid.New().String(),
		EventID:    req.EventID,
		UserID:     userID,
		SeatIDs:    seatIDs,
		TotalPrice: total,
		Status:     models.BookingReserved,
		CreatedAt:  now,
		ExpiresAt:  now.Add(e.lockDuration),
	}
	if err := e.stores.Bookings.AppendBooking(ctx, booking); err != nil {
		e.unlockSeats(ctx, locked)
		metrics.ReservationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("failed to append booking: %w", err)
	}

	metrics.ReservationsTotal.WithLabelValues(metrics.ResultCreated).Inc()
	metrics.SeatsLocked.Add(float64(len(seatIDs)))

	instructions := fmt.Sprintf(
		"Seats %s reserved. Amount due: %d. Transfer to %s and await confirmation in this chat.",
		strings.Join(seatIDs, ", "), total, event.PaymentPhone)

	e.publishEvent(ctx, models.EventBookingCreated, models.BookingCreatedEvent{
		BookingID:  booking.ID,
		EventID:    booking.EventID,
		UserID:     booking.UserID,
		SeatIDs:    booking.SeatIDs,
		TotalPrice: booking.TotalPrice,
		Timestamp:  time.Now(),
	})
	e.notify(ctx, userID, instructions)
	e.notify(ctx, AdminRecipient, fmt.Sprintf(
		"User %s reserved seats %s for %q, total %d. Verify the transfer.",
		userID, strings.Join(seatIDs, ", "), event.Title, total))

	return &models.CreateBookingResponse{Booking: booking, PaymentInstructions: instructions}, nil
}

// Confirm promotes a reserved booking to confirmed and marks its seats sold.
// Admin only; the handler layer enforces the role.
func (e *Engine) Confirm(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := e.stores.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, apperr.ErrNotFound)
	}

	mu := e.eventMu(booking.EventID)
	mu.Lock()
	defer mu.Unlock()

	// Re-read under the event mutex; the sweep may have cancelled it since.
	booking, err = e.stores.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, apperr.ErrNotFound)
	}
	if booking.Status != models.BookingReserved {
		return nil, fmt.Errorf("booking is %s: %w", booking.Status, apperr.ErrInvalidState)
	}
	if e.clock.Now().After(booking.ExpiresAt) {
		return nil, fmt.Errorf("booking lock lapsed: %w", apperr.ErrExpired)
	}

	for _, seatID := range booking.SeatIDs {
		seat, err := e.stores.Seats.GetSeat(ctx, booking.EventID, seatID)
		if err != nil {
			return nil, fmt.Errorf("failed to get seat %s: %w", seatID, err)
		}
		if seat == nil {
			continue
		}
		seat.Status = models.SeatSold
		seat.LockedAt = nil
		seat.BookedBy = ""
		if err := e.stores.Seats.PutSeat(ctx, seat); err != nil {
			return nil, fmt.Errorf("failed to mark seat %s sold: %w", seatID, err)
		}
	}

	updated, err := e.stores.Bookings.UpdateBookingStatus(ctx, bookingID, models.BookingConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	metrics.BookingsConfirmedTotal.Inc()
	metrics.SeatsLocked.Sub(float64(len(booking.SeatIDs)))

	e.publishEvent(ctx, models.EventBookingConfirmed, models.BookingConfirmedEvent{
		BookingID: booking.ID,
		EventID:   booking.EventID,
		UserID:    booking.UserID,
		Timestamp: time.Now(),
	})
	e.notify(ctx, booking.UserID,
		"Payment confirmed. You will receive your tickets in this chat shortly.")

	return updated, nil
}

// Reject cancels a reserved booking before payment and frees its seats.
// The same terminal transition the sweep applies, triggered by an operator.
func (e *Engine) Reject(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := e.stores.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, apperr.ErrNotFound)
	}

	mu := e.eventMu(booking.EventID)
	mu.Lock()
	defer mu.Unlock()

	booking, err = e.stores.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, apperr.ErrNotFound)
	}
	if booking.Status != models.BookingReserved {
		return nil, fmt.Errorf("booking is %s: %w", booking.Status, apperr.ErrInvalidState)
	}

	updated, err := e.cancelLocked(ctx, booking)
	if err != nil {
		return nil, err
	}

	metrics.ReservationsTotal.WithLabelValues(metrics.ResultRejected).Inc()

	e.publishEvent(ctx, models.EventBookingRejected, models.BookingExpiredEvent{
		BookingID: booking.ID,
		EventID:   booking.EventID,
		UserID:    booking.UserID,
		Reason:    "rejected by operator",
		Timestamp: time.Now(),
	})
	e.notify(ctx, booking.UserID,
		"Your reservation was rejected. The seats have been released.")

	return updated, nil
}

// ListActive returns the requester's reserved, not yet expired bookings.
func (e *Engine) ListActive(ctx context.Context, userID string) ([]models.Booking, error) {
	reserved, err := e.stores.Bookings.ListBookings(ctx, store.BookingFilter{
		UserID: userID,
		Status: models.BookingReserved,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	now := e.clock.Now()
	active := make([]models.Booking, 0, len(reserved))
	for _, booking := range reserved {
		if booking.ExpiresAt.After(now) {
			active = append(active, booking)
		}
	}
	return active, nil
}

// ListTickets returns the requester's confirmed bookings.
func (e *Engine) ListTickets(ctx context.Context, userID string) ([]models.Booking, error) {
	tickets, err := e.stores.Bookings.ListBookings(ctx, store.BookingFilter{
		UserID: userID,
		Status: models.BookingConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return tickets, nil
}

// ListLedger returns the full booking ledger, optionally filtered by status.
func (e *Engine) ListLedger(ctx context.Context, status string) ([]models.Booking, error) {
	switch status {
	case "", models.BookingReserved, models.BookingConfirmed, models.BookingCancelled:
	default:
		return nil, fmt.Errorf("unknown status %q: %w", status, apperr.ErrInvalidRequest)
	}

	bookings, err := e.stores.Bookings.ListBookings(ctx, store.BookingFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// cancelLocked releases a booking's seats and sets it cancelled. Caller must
// hold the event mutex and have verified the booking is still reserved.
func (e *Engine) cancelLocked(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	for _, seatID := range booking.SeatIDs {
		seat, err := e.stores.Seats.GetSeat(ctx, booking.EventID, seatID)
		if err != nil {
			return nil, fmt.Errorf("failed to get seat %s: %w", seatID, err)
		}
		if seat == nil || seat.Status != models.SeatLocked {
			continue
		}
		seat.Status = models.SeatFree
		seat.LockedAt = nil
		seat.BookedBy = ""
		if err := e.stores.Seats.PutSeat(ctx, seat); err != nil {
			return nil, fmt.Errorf("failed to release seat %s: %w", seatID, err)
		}
	}

	updated, err := e.stores.Bookings.UpdateBookingStatus(ctx, booking.ID, models.BookingCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	metrics.SeatsLocked.Sub(float64(len(booking.SeatIDs)))
	return updated, nil
}

// unlockSeats rolls partially locked seats back to free after a failed
// reservation write. Best effort; failures are logged and retried by the
// sweep once the stale lock ages out.
func (e *Engine) unlockSeats(ctx context.Context, seats []*models.Seat) {
	for _, seat := range seats {
		seat.Status = models.SeatFree
		seat.LockedAt = nil
		seat.BookedBy = ""
		if err := e.stores.Seats.PutSeat(ctx, seat); err != nil {
			logger.WithContext(ctx).Error("Failed to roll back seat lock",
				"error", err, "seat_id", seat.ID, "event_id", seat.EventID)
		}
	}
}

func (e *Engine) notify(ctx context.Context, recipient, message string) {
	if err := e.notifier.Notify(ctx, recipient, message); err != nil {
		logger.WithContext(ctx).Error("Failed to deliver notification",
			"error", err, "recipient", recipient)
	}
}

func (e *Engine) publishEvent(ctx context.Context, subject string, payload any) {
	if err := e.notifier.PublishEvent(subject, payload); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err, "event_type", subject)
	}
}

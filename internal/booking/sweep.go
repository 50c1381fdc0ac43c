package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tablebook/internal/metrics"
	"tablebook/internal/models"
	"tablebook/internal/store"
)

// ExpireDue runs one sweep pass: every reserved booking whose lock has
// lapsed is cancelled and its seats are released. Idempotent and safe to run
// concurrently with Reserve and Confirm; a booking that fails to expire is
// left untouched and retried on the next pass.
func (e *Engine) ExpireDue(ctx context.Context) (int, error) {
	reserved, err := e.stores.Bookings.ListBookings(ctx, store.BookingFilter{
		Status: models.BookingReserved,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list reserved bookings: %w", err)
	}

	expired := 0
	now := e.clock.Now()
	for _, booking := range reserved {
		if !now.After(booking.ExpiresAt) {
			continue
		}
		if err := e.expire(ctx, booking.ID); err != nil {
			slog.Error("Failed to expire booking",
				"error", err,
				"booking_id", booking.ID,
				"event_id", booking.EventID,
				"created_at", booking.CreatedAt)
			continue
		}
		expired++
	}

	return expired, nil
}

// expire cancels a single lapsed booking. Re-checks state under the event
// mutex, so expiring an already confirmed or cancelled booking is a no-op.
func (e *Engine) expire(ctx context.Context, bookingID string) error {
	booking, err := e.stores.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil
	}

	mu := e.eventMu(booking.EventID)
	mu.Lock()
	defer mu.Unlock()

	booking, err = e.stores.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil || booking.Status != models.BookingReserved {
		return nil
	}
	if !e.clock.Now().After(booking.ExpiresAt) {
		return nil
	}

	if _, err := e.cancelLocked(ctx, booking); err != nil {
		return err
	}

	metrics.BookingsExpiredTotal.Inc()

	e.publishEvent(ctx, models.EventBookingExpired, models.BookingExpiredEvent{
		BookingID: booking.ID,
		EventID:   booking.EventID,
		UserID:    booking.UserID,
		Reason:    "payment window elapsed",
		Timestamp: time.Now(),
	})
	e.notify(ctx, booking.UserID,
		"Your reservation expired and the seats have been released.")

	slog.Info("Booking expired",
		"booking_id", booking.ID,
		"event_id", booking.EventID,
		"seats_released", len(booking.SeatIDs))

	return nil
}

// Sweeper periodically releases expired seat locks.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
}

func NewSweeper(engine *Engine, interval time.Duration) *Sweeper {
	return &Sweeper{
		engine:   engine,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the background sweep at the configured interval. The first
// pass runs immediately.
func (s *Sweeper) Start(ctx context.Context) {
	slog.Info("Starting expiry sweep",
		"interval", s.interval.String(),
		"lock_duration", s.engine.lockDuration.String())

	s.ticker = time.NewTicker(s.interval)

	go s.run(ctx)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				go s.run(ctx)
			case <-s.done:
				slog.Info("Expiry sweep stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweep.
func (s *Sweeper) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)
}

func (s *Sweeper) run(ctx context.Context) {
	expired, err := s.engine.ExpireDue(ctx)
	if err != nil {
		// Store unavailable: the pass is skipped and retried next tick.
		slog.Error("Expiry sweep pass failed", "error", err)
		return
	}
	if expired > 0 {
		slog.Info("Expired bookings processed", "count", expired)
	}
}

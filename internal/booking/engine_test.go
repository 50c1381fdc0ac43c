package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebook/internal/apperr"
	"tablebook/internal/models"
	"tablebook/internal/store"
	"tablebook/internal/store/memstore"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages map[string][]string
	subjects []string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{messages: make(map[string][]string)}
}

func (n *recordingNotifier) Notify(_ context.Context, recipient, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages[recipient] = append(n.messages[recipient], message)
	return nil
}

func (n *recordingNotifier) PublishEvent(subject string, _ any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subjects = append(n.subjects, subject)
	return nil
}

func (n *recordingNotifier) messagesFor(recipient string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages[recipient]...)
}

func (n *recordingNotifier) published() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.subjects...)
}

const testEventID = "evt-1"

func newTestEngine(t *testing.T) (*Engine, *store.Stores, *fakeClock, *recordingNotifier) {
	t.Helper()

	stores := memstore.New().Stores()
	clk := newFakeClock()
	notifier := newRecordingNotifier()
	engine := NewEngine(stores, notifier, clk, 15*time.Minute)

	ctx := context.Background()
	event := &models.Event{
		ID:                 testEventID,
		Title:              "Gala Dinner",
		Date:               clk.Now().Add(48 * time.Hour).Format(time.RFC3339),
		PaymentPhone:       "+1 555 0100",
		MaxSeatsPerBooking: 4,
		Tables:             []models.Table{{ID: "t1", Label: "Table 1"}},
	}
	require.NoError(t, stores.Events.PutEvent(ctx, event))

	seats := []struct {
		id    string
		price int64
	}{
		{"s1", 100},
		{"s2", 150},
		{"s3", 300},
	}
	for i, s := range seats {
		require.NoError(t, stores.Seats.PutSeat(ctx, &models.Seat{
			ID:      s.id,
			EventID: testEventID,
			TableID: "t1",
			Row:     "Table 1",
			Number:  i + 1,
			Price:   s.price,
			Status:  models.SeatFree,
		}))
	}

	return engine, stores, clk, notifier
}

func getSeat(t *testing.T, stores *store.Stores, seatID string) *models.Seat {
	t.Helper()
	seat, err := stores.Seats.GetSeat(context.Background(), testEventID, seatID)
	require.NoError(t, err)
	require.NotNil(t, seat)
	return seat
}

func TestReserve_LocksSeatsAndSnapshotsPrice(t *testing.T) {
	engine, stores, clk, notifier := newTestEngine(t)
	ctx := context.Background()

	resp, err := engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s2", "s1"},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Booking)

	booking := resp.Booking
	assert.Equal(t, models.BookingReserved, booking.Status)
	assert.Equal(t, "user-1", booking.UserID)
	assert.Equal(t, int64(250), booking.TotalPrice)
	assert.Equal(t, []string{"s1", "s2"}, booking.SeatIDs)
	assert.Equal(t, clk.Now().Add(15*time.Minute), booking.ExpiresAt)
	assert.Contains(t, resp.PaymentInstructions, "250")
	assert.Contains(t, resp.PaymentInstructions, "+1 555 0100")

	for _, id := range []string{"s1", "s2"} {
		seat := getSeat(t, stores, id)
		assert.Equal(t, models.SeatLocked, seat.Status)
		assert.Equal(t, "user-1", seat.BookedBy)
		require.NotNil(t, seat.LockedAt)
	}
	assert.Equal(t, models.SeatFree, getSeat(t, stores, "s3").Status)

	assert.Contains(t, notifier.published(), models.EventBookingCreated)
	assert.NotEmpty(t, notifier.messagesFor("user-1"))
	assert.NotEmpty(t, notifier.messagesFor(AdminRecipient))
}

func TestReserve_ValidatesSeatSelection(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: testEventID,
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)

	_, err = engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s1", "s1"},
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)

	_, err = engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s1", "s2", "s3", "s1x", "s2x"},
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestReserve_UnknownTargets(t *testing.T) {
	engine, stores, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: "missing",
		SeatIDs: []string{"s1"},
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s1", "ghost"},
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// The failed attempt must not leave s1 locked.
	assert.Equal(t, models.SeatFree, getSeat(t, stores, "s1").Status)
}

func TestReserve_ConflictLeavesStateUntouched(t *testing.T) {
	engine, stores, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s1"},
	})
	require.NoError(t, err)

	_, err = engine.Reserve(ctx, "user-2", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s2", "s1"},
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// s2 was part of the losing request and must still be free.
	assert.Equal(t, models.SeatFree, getSeat(t, stores, "s2").Status)
	assert.Equal(t, "user-1", getSeat(t, stores, "s1").BookedBy)

	bookings, err := stores.Bookings.ListBookings(ctx, store.BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestReserve_ConcurrentSingleWinner(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	ctx := context.Background()

	const attempts = 16
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
				EventID: testEventID,
				SeatIDs: []string{"s1"},
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	won, lost := 0, 0
	for err := range results {
		if err == nil {
			won++
			continue
		}
		require.ErrorIs(t, err, apperr.ErrConflict)
		lost++
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, attempts-1, lost)
}

func TestConfirm_MarksSeatsSold(t *testing.T) {
	engine, stores, _, notifier := newTestEngine(t)
	ctx := context.Background()

	resp, err := engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s1", "s2"},
	})
	require.NoError(t, err)

	confirmed, err := engine.Confirm(ctx, resp.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, confirmed.Status)

	for _, id := range []string{"s1", "s2"} {
		seat := getSeat(t, stores, id)
		assert.Equal(t, models.SeatSold, seat.Status)
		assert.Nil(t, seat.LockedAt)
		assert.Empty(t, seat.BookedBy)
	}

	assert.Contains(t, notifier.published(), models.EventBookingConfirmed)

	// A confirmed booking cannot be confirmed or rejected again.
	_, err = engine.Confirm(ctx, resp.Booking.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	_, err = engine.Reject(ctx, resp.Booking.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestTotalPriceIsSnapshottedAtReservation(t *testing.T) {
	engine, stores, _, _ := newTestEngine(t)
	ctx := context.Background()

	resp, err := engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s1", "s2"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(250), resp.Booking.TotalPrice)

	// A later price edit does not touch existing bookings.
	seat := getSeat(t, stores, "s1")
	seat.Price = 999
	require.NoError(t, stores.Seats.PutSeat(ctx, seat))

	confirmed, err := engine.Confirm(ctx, resp.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), confirmed.TotalPrice)
}

func TestConfirm_UnknownBooking(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	_, err := engine.Confirm(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestConfirm_AfterLockLapsed(t *testing.T) {
	engine, _, clk, _ := newTestEngine(t)
	ctx := context.Background()

	resp, err := engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s1"},
	})
	require.NoError(t, err)

	clk.Advance(15*time.Minute + time.Second)

	_, err = engine.Confirm(ctx, resp.Booking.ID)
	assert.ErrorIs(t, err, apperr.ErrExpired)
}

func TestReject_FreesSeats(t *testing.T) {
	engine, stores, _, notifier := newTestEngine(t)
	ctx := context.Background()

	resp, err := engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s1", "s2"},
	})
	require.NoError(t, err)

	rejected, err := engine.Reject(ctx, resp.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, rejected.Status)

	for _, id := range []string{"s1", "s2"} {
		seat := getSeat(t, stores, id)
		assert.Equal(t, models.SeatFree, seat.Status)
		assert.Empty(t, seat.BookedBy)
	}

	assert.Contains(t, notifier.published(), models.EventBookingRejected)

	// Released seats are immediately reservable again.
	_, err = engine.Reserve(ctx, "user-2", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s1"},
	})
	assert.NoError(t, err)
}

func TestExpireDue_ReleasesLapsedLocks(t *testing.T) {
	engine, stores, clk, notifier := newTestEngine(t)
	ctx := context.Background()

	resp, err := engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s1", "s2"},
	})
	require.NoError(t, err)

	// Not yet lapsed: nothing to do.
	expired, err := engine.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, expired)

	clk.Advance(15*time.Minute + time.Second)

	expired, err = engine.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	booking, err := stores.Bookings.GetBooking(ctx, resp.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, booking.Status)

	for _, id := range []string{"s1", "s2"} {
		assert.Equal(t, models.SeatFree, getSeat(t, stores, id).Status)
	}

	assert.Contains(t, notifier.published(), models.EventBookingExpired)

	// A second pass has nothing left to expire.
	expired, err = engine.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, expired)

	// The freed seats can be reserved again.
	_, err = engine.Reserve(ctx, "user-2", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s1", "s2"},
	})
	assert.NoError(t, err)
}

func TestExpireDue_SkipsConfirmedBookings(t *testing.T) {
	engine, stores, clk, _ := newTestEngine(t)
	ctx := context.Background()

	resp, err := engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s1"},
	})
	require.NoError(t, err)

	_, err = engine.Confirm(ctx, resp.Booking.ID)
	require.NoError(t, err)

	clk.Advance(time.Hour)

	expired, err := engine.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, expired)

	booking, err := stores.Bookings.GetBooking(ctx, resp.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, models.SeatSold, getSeat(t, stores, "s1").Status)
}

func TestListViews(t *testing.T) {
	engine, _, clk, _ := newTestEngine(t)
	ctx := context.Background()

	first, err := engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s1"},
	})
	require.NoError(t, err)
	second, err := engine.Reserve(ctx, "user-1", &models.CreateBookingRequest{
		EventID: testEventID,
		SeatIDs: []string{"s2"},
	})
	require.NoError(t, err)

	_, err = engine.Confirm(ctx, first.Booking.ID)
	require.NoError(t, err)

	active, err := engine.ListActive(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.Booking.ID, active[0].ID)

	tickets, err := engine.ListTickets(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, first.Booking.ID, tickets[0].ID)

	// Lapsed reservations drop out of the active view even before the sweep.
	clk.Advance(16 * time.Minute)
	active, err = engine.ListActive(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, active)

	ledger, err := engine.ListLedger(ctx, "")
	require.NoError(t, err)
	assert.Len(t, ledger, 2)

	reserved, err := engine.ListLedger(ctx, models.BookingReserved)
	require.NoError(t, err)
	assert.Len(t, reserved, 1)

	_, err = engine.ListLedger(ctx, "PAID")
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

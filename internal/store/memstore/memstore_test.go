package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebook/internal/models"
	"tablebook/internal/store"
)

func TestEventRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	missing, err := s.GetEvent(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	event := &models.Event{
		ID:        "e1",
		Title:     "Gala Dinner",
		Tables:    []models.Table{{ID: "t1", Label: "Table 1"}},
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.PutEvent(ctx, event))

	got, err := s.GetEvent(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Gala Dinner", got.Title)

	// The store hands out copies; mutating a result must not leak back.
	got.Tables[0].Label = "mutated"
	again, err := s.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Table 1", again.Tables[0].Label)

	require.NoError(t, s.DeleteEvent(ctx, "e1"))
	gone, err := s.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestListEventsOrderedByCreation(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.PutEvent(ctx, &models.Event{ID: "later", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, s.PutEvent(ctx, &models.Event{ID: "earlier", CreatedAt: base}))

	events, err := s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "earlier", events[0].ID)
	assert.Equal(t, "later", events[1].ID)
}

func TestSeatScopedToEvent(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.PutSeat(ctx, &models.Seat{ID: "s1", EventID: "e1", Row: "A", Number: 1, Status: models.SeatFree}))
	require.NoError(t, s.PutSeat(ctx, &models.Seat{ID: "s1", EventID: "e2", Row: "A", Number: 1, Status: models.SeatSold}))

	seat, err := s.GetSeat(ctx, "e1", "s1")
	require.NoError(t, err)
	require.NotNil(t, seat)
	assert.Equal(t, models.SeatFree, seat.Status)

	other, err := s.GetSeat(ctx, "e2", "s1")
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.Equal(t, models.SeatSold, other.Status)

	// Wrong event id is a miss, not an error.
	none, err := s.GetSeat(ctx, "e3", "s1")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, s.DeleteSeats(ctx, "e1"))
	deleted, err := s.GetSeat(ctx, "e1", "s1")
	require.NoError(t, err)
	assert.Nil(t, deleted)

	kept, err := s.ListSeats(ctx, "e2")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestListSeatsOrderedByRowAndNumber(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.PutSeat(ctx, &models.Seat{ID: "b2", EventID: "e1", Row: "B", Number: 2}))
	require.NoError(t, s.PutSeat(ctx, &models.Seat{ID: "a2", EventID: "e1", Row: "A", Number: 2}))
	require.NoError(t, s.PutSeat(ctx, &models.Seat{ID: "a1", EventID: "e1", Row: "A", Number: 1}))

	seats, err := s.ListSeats(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, seats, 3)
	assert.Equal(t, []string{"a1", "a2", "b2"}, []string{seats[0].ID, seats[1].ID, seats[2].ID})
}

func TestBookingLedger(t *testing.T) {
	s := New()
	ctx := context.Background()

	bookings := []*models.Booking{
		{ID: "b1", EventID: "e1", UserID: "u1", Status: models.BookingReserved, SeatIDs: []string{"s1"}},
		{ID: "b2", EventID: "e1", UserID: "u2", Status: models.BookingReserved, SeatIDs: []string{"s2"}},
		{ID: "b3", EventID: "e2", UserID: "u1", Status: models.BookingConfirmed, SeatIDs: []string{"s3"}},
	}
	for _, b := range bookings {
		require.NoError(t, s.AppendBooking(ctx, b))
	}

	all, err := s.ListBookings(ctx, store.BookingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Append order is preserved.
	assert.Equal(t, "b1", all[0].ID)
	assert.Equal(t, "b3", all[2].ID)

	byUser, err := s.ListBookings(ctx, store.BookingFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byEventAndStatus, err := s.ListBookings(ctx, store.BookingFilter{
		EventID: "e1",
		Status:  models.BookingReserved,
	})
	require.NoError(t, err)
	assert.Len(t, byEventAndStatus, 2)

	updated, err := s.UpdateBookingStatus(ctx, "b1", models.BookingCancelled)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.BookingCancelled, updated.Status)

	got, err := s.GetBooking(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status)

	missing, err := s.UpdateBookingStatus(ctx, "nope", models.BookingCancelled)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

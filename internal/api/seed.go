package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tablebook/internal/clock"
	"tablebook/internal/models"
	"tablebook/internal/store"
)

// seedIfEmpty loads a demo event into an empty memory store so the API
// is usable out of the box during development.
func seedIfEmpty(stores *store.Stores, clk clock.Clock) {
	ctx := context.Background()

	existing, err := stores.Events.ListEvents(ctx)
	if err != nil || len(existing) > 0 {
		return
	}

	now := clk.Now()
	event := &models.Event{
		ID:                 uuid.New().String(),
		Title:              "Gala Dinner",
		Description:        "Annual charity gala dinner with live music",
		Date:               now.Add(14 * 24 * time.Hour).Format(time.RFC3339),
		PaymentPhone:       "+7 700 000 00 00",
		MaxSeatsPerBooking: 4,
		Tables: []models.Table{
			{ID: "t1", Label: "Table 1"},
			{ID: "t2", Label: "Table 2"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := stores.Events.PutEvent(ctx, event); err != nil {
		slog.Error("Failed to seed demo event", "error", err)
		return
	}

	seats := 0
	for _, table := range event.Tables {
		for n := 1; n <= 4; n++ {
			seat := &models.Seat{
				ID:      fmt.Sprintf("%s-s%d", table.ID, n),
				EventID: event.ID,
				TableID: table.ID,
				Row:     table.Label,
				Number:  n,
				Price:   250,
				Status:  models.SeatFree,
			}
			if err := stores.Seats.PutSeat(ctx, seat); err != nil {
				slog.Error("Failed to seed demo seat", "seat_id", seat.ID, "error", err)
				continue
			}
			seats++
		}
	}

	slog.Info("Seeded demo event", "event_id", event.ID, "seats", seats)
}

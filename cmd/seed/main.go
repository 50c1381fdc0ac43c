package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"tablebook/internal/config"
	"tablebook/internal/database"
	"tablebook/internal/logger"
	"tablebook/internal/models"
	"tablebook/internal/store"
	"tablebook/internal/store/postgres"
)

var (
	clearExisting = flag.Bool("clear", false, "Delete seats of the event before seeding new ones")
	tables        = flag.Int("tables", 10, "Number of tables to create")
	seatsPerTable = flag.Int("seats", 8, "Number of seats per table")
	price         = flag.Int64("price", 250, "Seat price")
	title         = flag.String("title", "Gala Dinner", "Event title")
	dryRun        = flag.Bool("dry-run", false, "Show what would be seeded without writing")
)

type seeder struct {
	stores *store.Stores
}

func main() {
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	slog.Info("Starting seeder")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	s := &seeder{stores: postgres.New(db)}

	if err := s.seed(context.Background()); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Seeding completed")
}

func (s *seeder) seed(ctx context.Context) error {
	now := time.Now().UTC()

	event := &models.Event{
		ID:                 uuid.New().String(),
		Title:              *title,
		Description:        "Seeded event",
		Date:               now.Add(14 * 24 * time.Hour).Format(time.RFC3339),
		PaymentPhone:       "+7 700 000 00 00",
		MaxSeatsPerBooking: 4,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for t := 1; t <= *tables; t++ {
		event.Tables = append(event.Tables, models.Table{
			ID:    fmt.Sprintf("t%d", t),
			Label: fmt.Sprintf("Table %d", t),
		})
	}

	if *dryRun {
		slog.Info("Dry run: would create event",
			"title", event.Title, "tables", *tables, "seats", *tables**seatsPerTable)
		return nil
	}

	if err := s.stores.Events.PutEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	if *clearExisting {
		if err := s.stores.Seats.DeleteSeats(ctx, event.ID); err != nil {
			return fmt.Errorf("failed to clear seats: %w", err)
		}
	}

	created := 0
	for _, table := range event.Tables {
		for n := 1; n <= *seatsPerTable; n++ {
			seat := &models.Seat{
				ID:      fmt.Sprintf("%s-s%d", table.ID, n),
				EventID: event.ID,
				TableID: table.ID,
				Row:     table.Label,
				Number:  n,
				Price:   *price,
				Status:  models.SeatFree,
			}
			if err := s.stores.Seats.PutSeat(ctx, seat); err != nil {
				slog.Error("Failed to create seat", "seat_id", seat.ID, "error", err)
				continue
			}
			created++
		}
	}

	slog.Info("Created event", "event_id", event.ID, "seats", created)
	return nil
}

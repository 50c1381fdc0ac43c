package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"tablebook/internal/apperr"
	"tablebook/internal/cache"
	"tablebook/internal/clock"
	"tablebook/internal/logger"
	"tablebook/internal/models"
	"tablebook/internal/store"
)

// EventService serves the event catalog and the admin-side management of
// events and seats. It never touches seat or booking status; those belong
// to the reservation engine.
type EventService struct {
	stores *store.Stores
	cache  *cache.Client // optional
	clock  clock.Clock
}

func NewEventService(stores *store.Stores, cacheClient *cache.Client, clk clock.Clock) *EventService {
	return &EventService{stores: stores, cache: cacheClient, clock: clk}
}

func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	events, err := s.stores.Events.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.stores.Events.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", id, apperr.ErrNotFound)
	}
	return event, nil
}

func (s *EventService) ListSeats(ctx context.Context, eventID string) ([]models.Seat, error) {
	event, err := s.stores.Events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, apperr.ErrNotFound)
	}

	seats, err := s.stores.Seats.ListSeats(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}
	return seats, nil
}

func (s *EventService) Create(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	now := s.clock.Now()
	event := &models.Event{
		ID:                 uuid.New().String(),
		Title:              req.Title,
		Description:        req.Description,
		Date:               req.Date,
		ImageURL:           req.ImageURL,
		PaymentPhone:       req.PaymentPhone,
		MaxSeatsPerBooking: req.MaxSeatsPerBooking,
		Tables:             req.Tables,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.stores.Events.PutEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.invalidateCatalog(ctx)
	return event, nil
}

func (s *EventService) Update(ctx context.Context, id string, req *models.CreateEventRequest) (*models.Event, error) {
	event, err := s.stores.Events.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", id, apperr.ErrNotFound)
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Date = req.Date
	if req.ImageURL != "" {
		event.ImageURL = req.ImageURL
	}
	if req.PaymentPhone != "" {
		event.PaymentPhone = req.PaymentPhone
	}
	if req.MaxSeatsPerBooking != 0 {
		event.MaxSeatsPerBooking = req.MaxSeatsPerBooking
	}
	if req.Tables != nil {
		event.Tables = req.Tables
	}
	event.UpdatedAt = s.clock.Now()

	if err := s.stores.Events.PutEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.invalidateCatalog(ctx)
	return event, nil
}

// Delete removes an event and its seats. Bookings are kept as audit trail.
func (s *EventService) Delete(ctx context.Context, id string) error {
	event, err := s.stores.Events.GetEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return fmt.Errorf("event %s: %w", id, apperr.ErrNotFound)
	}

	if err := s.stores.Seats.DeleteSeats(ctx, id); err != nil {
		return fmt.Errorf("failed to delete seats: %w", err)
	}
	if err := s.stores.Events.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.invalidateCatalog(ctx)
	return nil
}

// CreateSeats bulk-creates seats for an event. Seats start free.
func (s *EventService) CreateSeats(ctx context.Context, items []models.CreateSeatItem) ([]models.Seat, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no seats given: %w", apperr.ErrInvalidRequest)
	}

	created := make([]models.Seat, 0, len(items))
	for i, item := range items {
		if item.EventID == "" {
			return nil, fmt.Errorf("seat %d: event_id is required: %w", i, apperr.ErrInvalidRequest)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("seat %d: price must be non-negative: %w", i, apperr.ErrInvalidRequest)
		}

		event, err := s.stores.Events.GetEvent(ctx, item.EventID)
		if err != nil {
			return nil, fmt.Errorf("failed to get event: %w", err)
		}
		if event == nil {
			return nil, fmt.Errorf("event %s: %w", item.EventID, apperr.ErrNotFound)
		}

		id := item.ID
		if id == "" {
			id = uuid.New().String()
		}
		existing, err := s.stores.Seats.GetSeat(ctx, item.EventID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get seat: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("seat %s already exists: %w", id, apperr.ErrConflict)
		}

		seat := models.Seat{
			ID:      id,
			EventID: item.EventID,
			TableID: item.TableID,
			Row:     item.Row,
			Number:  item.Number,
			Price:   item.Price,
			Status:  models.SeatFree,
		}
		if err := s.stores.Seats.PutSeat(ctx, &seat); err != nil {
			return nil, fmt.Errorf("failed to create seat %s: %w", id, err)
		}
		created = append(created, seat)
	}

	return created, nil
}

// Analytics computes seat and revenue counters for one event.
func (s *EventService) Analytics(ctx context.Context, eventID string) (*models.AnalyticsResponse, error) {
	event, err := s.stores.Events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, apperr.ErrNotFound)
	}

	seats, err := s.stores.Seats.ListSeats(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}

	resp := &models.AnalyticsResponse{EventID: eventID, TotalSeats: len(seats)}
	for _, seat := range seats {
		switch seat.Status {
		case models.SeatSold:
			resp.SoldSeats++
		case models.SeatLocked:
			resp.LockedSeats++
		default:
			resp.FreeSeats++
		}
	}

	bookings, err := s.stores.Bookings.ListBookings(ctx, store.BookingFilter{EventID: eventID})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	resp.BookingsCount = len(bookings)
	for _, booking := range bookings {
		if booking.Status == models.BookingConfirmed {
			resp.TotalRevenue += booking.TotalPrice
		}
	}

	return resp, nil
}

// CatalogCache exposes the optional cache to the handler layer, which caches
// the raw response JSON the same way the catalog endpoint serves it.
func (s *EventService) CatalogCache() *cache.Client {
	return s.cache
}

func (s *EventService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateEventsList(ctx); err != nil {
		logger.WithContext(ctx).Error("Failed to invalidate events cache", "error", err)
	}
}

package service

import (
	"tablebook/internal/booking"
)

// Services bundles everything the handler layer depends on.
type Services struct {
	Events   *EventService
	Bookings *booking.Engine
}

func NewServices(events *EventService, engine *booking.Engine) *Services {
	return &Services{
		Events:   events,
		Bookings: engine,
	}
}

package models

import "time"

// NATS subjects for booking lifecycle events and user notifications.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingExpired   = "booking.expired"
	EventBookingRejected  = "booking.rejected"
	SubjectNotify         = "notify"
)

// BookingCreatedEvent is published when seats are locked for a new booking.
type BookingCreatedEvent struct {
	BookingID  string    `json:"booking_id"`
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	SeatIDs    []string  `json:"seat_ids"`
	TotalPrice int64     `json:"total_price"`
	Timestamp  time.Time `json:"timestamp"`
}

// BookingConfirmedEvent is published when an admin confirms payment.
type BookingConfirmedEvent struct {
	BookingID string    `json:"booking_id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingExpiredEvent is published when the sweep releases an unpaid booking.
type BookingExpiredEvent struct {
	BookingID string    `json:"booking_id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationMessage is a fire-and-forget message for an external sink.
// Recipient is a user id or the broadcast target "admins".
type NotificationMessage struct {
	Recipient string    `json:"recipient"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

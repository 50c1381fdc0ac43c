package models

import (
	"time"
)

// Seat statuses. A seat moves free -> locked when a booking claims it,
// locked -> sold when the booking is confirmed, and locked -> free when the
// booking expires or is rejected.
const (
	SeatFree   = "free"
	SeatLocked = "locked"
	SeatSold   = "sold"
)

// Booking statuses. Both confirmed and cancelled are terminal.
const (
	BookingReserved  = "reserved"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Event represents an event in the system.
type Event struct {
	ID                 string    `json:"id" db:"id"`
	Title              string    `json:"title" db:"title"`
	Description        string    `json:"description" db:"description"`
	Date               string    `json:"date" db:"date"`
	ImageURL           string    `json:"image_url,omitempty" db:"image_url"`
	PaymentPhone       string    `json:"payment_phone" db:"payment_phone"`
	MaxSeatsPerBooking int       `json:"max_seats_per_booking" db:"max_seats_per_booking"`
	Tables             []Table   `json:"tables,omitempty"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// Table is descriptive seating-plan metadata; seats reference tables by id.
type Table struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Seat represents a single seat of an event. Seat ids are unique within
// their event. LockedAt and BookedBy are set only while the seat is locked
// or sold.
type Seat struct {
	ID       string     `json:"id" db:"id"`
	EventID  string     `json:"event_id" db:"event_id"`
	TableID  string     `json:"table_id,omitempty" db:"table_id"`
	Row      string     `json:"row" db:"row_label"`
	Number   int        `json:"number" db:"seat_number"`
	Price    int64      `json:"price" db:"price"`
	Status   string     `json:"status" db:"status"`
	LockedAt *time.Time `json:"locked_at,omitempty" db:"locked_at"`
	BookedBy string     `json:"booked_by,omitempty" db:"booked_by"`
}

// Booking represents a reservation of one or more seats of a single event.
// TotalPrice is a snapshot taken at reservation time and is never
// recomputed. Bookings are never deleted; they serve as the audit trail.
type Booking struct {
	ID         string    `json:"id" db:"id"`
	EventID    string    `json:"event_id" db:"event_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	SeatIDs    []string  `json:"seat_ids" db:"seat_ids"`
	TotalPrice int64     `json:"total_price" db:"total_price"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
}

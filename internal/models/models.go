package models

// CreateBookingRequest - request body for POST /api/bookings.
type CreateBookingRequest struct {
	EventID string   `json:"event_id" binding:"required"`
	SeatIDs []string `json:"seat_ids" binding:"required"`
}

// CreateBookingResponse carries the created booking together with the
// manual-transfer payment instructions shown to the user.
type CreateBookingResponse struct {
	Booking             *Booking `json:"booking"`
	PaymentInstructions string   `json:"payment_instructions"`
}

// ConfirmBookingResponse - response body for the admin confirm endpoint.
type ConfirmBookingResponse struct {
	Booking *Booking `json:"booking"`
}

// CreateEventRequest - request body for admin event creation and update.
type CreateEventRequest struct {
	Title              string  `json:"title" binding:"required"`
	Description        string  `json:"description" binding:"required"`
	Date               string  `json:"date" binding:"required"`
	ImageURL           string  `json:"image_url"`
	PaymentPhone       string  `json:"payment_phone"`
	MaxSeatsPerBooking int     `json:"max_seats_per_booking"`
	Tables             []Table `json:"tables"`
}

// CreateSeatItem - one seat in an admin bulk seat creation request.
type CreateSeatItem struct {
	ID      string `json:"id"`
	EventID string `json:"event_id" binding:"required"`
	TableID string `json:"table_id"`
	Row     string `json:"row"`
	Number  int    `json:"number"`
	Price   int64  `json:"price"`
}

// MyBookingsResponse - the two disjoint views of a user's bookings.
type MyBookingsResponse struct {
	Bookings []Booking `json:"bookings"`
}

// AnalyticsResponse - per-event seat and revenue counters for admins.
type AnalyticsResponse struct {
	EventID       string `json:"event_id"`
	TotalSeats    int    `json:"total_seats"`
	SoldSeats     int    `json:"sold_seats"`
	LockedSeats   int    `json:"locked_seats"`
	FreeSeats     int    `json:"free_seats"`
	TotalRevenue  int64  `json:"total_revenue"`
	BookingsCount int    `json:"bookings_count"`
}

// AdminLoginRequest - request body for POST /api/auth/admin-login.
type AdminLoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserLoginRequest - request body for POST /api/auth/user-login.
type UserLoginRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// TokenResponse - issued bearer token plus the resolved role.
type TokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

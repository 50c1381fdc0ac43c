// Package validation runs an end-to-end smoke check against a running
// API instance: logs in, creates an event with seats, reserves them and
// walks the booking through confirmation.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"tablebook/internal/models"
)

type SmokeValidator struct {
	baseURL    string
	adminToken string
	userToken  string
}

func NewSmokeValidator(baseURL string) *SmokeValidator {
	return &SmokeValidator{baseURL: baseURL}
}

func (v *SmokeValidator) ValidateAll() error {
	log.Println("Starting API smoke check...")

	if err := v.validateAuth(); err != nil {
		return fmt.Errorf("auth validation failed: %w", err)
	}
	if err := v.validateCatalog(); err != nil {
		return fmt.Errorf("catalog validation failed: %w", err)
	}
	if err := v.validateBookingFlow(); err != nil {
		return fmt.Errorf("booking flow validation failed: %w", err)
	}

	log.Println("All endpoints passed the smoke check")
	return nil
}

func (v *SmokeValidator) validateAuth() error {
	log.Println("Checking auth endpoints...")

	resp, err := v.makeRequest("POST", "/api/auth/admin-login", models.AdminLoginRequest{
		Login:    envOr("ADMIN_LOGIN", "admin"),
		Password: envOr("ADMIN_PASSWORD", "admin"),
	}, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("POST /api/auth/admin-login: expected 200, got %d", resp.StatusCode)
	}
	var adminResp models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&adminResp); err != nil {
		return fmt.Errorf("POST /api/auth/admin-login: failed to decode response: %w", err)
	}
	resp.Body.Close()
	if adminResp.Token == "" {
		return fmt.Errorf("POST /api/auth/admin-login: expected a token")
	}
	v.adminToken = adminResp.Token

	resp, err = v.makeRequest("POST", "/api/auth/user-login", models.UserLoginRequest{
		UserID: "smoke-user",
	}, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("POST /api/auth/user-login: expected 200, got %d", resp.StatusCode)
	}
	var userResp models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&userResp); err != nil {
		return fmt.Errorf("POST /api/auth/user-login: failed to decode response: %w", err)
	}
	resp.Body.Close()
	if userResp.Token == "" {
		return fmt.Errorf("POST /api/auth/user-login: expected a token")
	}
	v.userToken = userResp.Token

	log.Println("Auth endpoints OK")
	return nil
}

func (v *SmokeValidator) validateCatalog() error {
	log.Println("Checking catalog endpoints...")

	resp, err := v.makeRequest("GET", "/api/events", nil, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /api/events: expected 200, got %d", resp.StatusCode)
	}
	var events []models.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return fmt.Errorf("GET /api/events: failed to decode response: %w", err)
	}
	resp.Body.Close()

	log.Println("Catalog endpoints OK")
	return nil
}

func (v *SmokeValidator) validateBookingFlow() error {
	log.Println("Checking booking flow...")

	// Create a throwaway event with one table.
	eventReq := models.CreateEventRequest{
		Title:       "Smoke Check Event",
		Description: "Created by the smoke validator",
		Date:        time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		Tables:      []models.Table{{ID: "t1", Label: "Table 1"}},
	}
	resp, err := v.makeRequest("POST", "/api/admin/events", eventReq, v.adminToken)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("POST /api/admin/events: expected 201, got %d", resp.StatusCode)
	}
	var event models.Event
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return fmt.Errorf("POST /api/admin/events: failed to decode response: %w", err)
	}
	resp.Body.Close()
	if event.ID == "" {
		return fmt.Errorf("POST /api/admin/events: expected a non-empty id")
	}

	// Bulk seat creation.
	seats := []models.CreateSeatItem{
		{ID: "s1", EventID: event.ID, TableID: "t1", Row: "Table 1", Number: 1, Price: 100},
		{ID: "s2", EventID: event.ID, TableID: "t1", Row: "Table 1", Number: 2, Price: 150},
	}
	resp, err = v.makeRequest("POST", "/api/admin/seats", seats, v.adminToken)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("POST /api/admin/seats: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Reserve both seats.
	bookingReq := models.CreateBookingRequest{
		EventID: event.ID,
		SeatIDs: []string{"s1", "s2"},
	}
	resp, err = v.makeRequest("POST", "/api/bookings", bookingReq, v.userToken)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("POST /api/bookings: expected 201, got %d", resp.StatusCode)
	}
	var created models.CreateBookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return fmt.Errorf("POST /api/bookings: failed to decode response: %w", err)
	}
	resp.Body.Close()
	if created.Booking == nil || created.Booking.ID == "" {
		return fmt.Errorf("POST /api/bookings: expected a booking")
	}
	if created.Booking.TotalPrice != 250 {
		return fmt.Errorf("POST /api/bookings: expected total 250, got %d", created.Booking.TotalPrice)
	}

	// The same seats may not be reserved twice.
	resp, err = v.makeRequest("POST", "/api/bookings", bookingReq, v.userToken)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("POST /api/bookings (taken seats): expected 409, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Active bookings view.
	resp, err = v.makeRequest("GET", "/api/me/bookings", nil, v.userToken)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /api/me/bookings: expected 200, got %d", resp.StatusCode)
	}
	var mine models.MyBookingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&mine); err != nil {
		return fmt.Errorf("GET /api/me/bookings: failed to decode response: %w", err)
	}
	resp.Body.Close()
	if len(mine.Bookings) == 0 {
		return fmt.Errorf("GET /api/me/bookings: expected a non-empty list")
	}

	// Admin confirms the payment.
	confirmPath := fmt.Sprintf("/api/admin/bookings/%s/confirm", created.Booking.ID)
	resp, err = v.makeRequest("POST", confirmPath, nil, v.adminToken)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("POST %s: expected 200, got %d", confirmPath, resp.StatusCode)
	}
	resp.Body.Close()

	// The booking now shows up as a ticket.
	resp, err = v.makeRequest("GET", "/api/me/tickets", nil, v.userToken)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /api/me/tickets: expected 200, got %d", resp.StatusCode)
	}
	var tickets models.MyBookingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tickets); err != nil {
		return fmt.Errorf("GET /api/me/tickets: failed to decode response: %w", err)
	}
	resp.Body.Close()
	if len(tickets.Bookings) == 0 {
		return fmt.Errorf("GET /api/me/tickets: expected a non-empty list")
	}

	log.Println("Booking flow OK")
	return nil
}

func (v *SmokeValidator) makeRequest(method, path string, body interface{}, token string) (*http.Response, error) {
	var req *http.Request
	var err error

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		req, err = http.NewRequest(method, v.baseURL+path, bytes.NewBuffer(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(method, v.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	return resp, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// RunValidation runs the smoke check against a locally running instance.
func RunValidation() {
	baseURL := "http://localhost:" + envOr("PORT", "8080")

	validator := NewSmokeValidator(baseURL)
	if err := validator.ValidateAll(); err != nil {
		log.Fatalf("Smoke check failed: %v", err)
	}
}

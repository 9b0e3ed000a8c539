// internal/models/trip.go
package models

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-date format used across the API.
const DateLayout = "2006-01-02"

// TravelInput describes the trip window requested by the user.
type TravelInput struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	ReturnDate  string `json:"return_date"`
}

// Validate checks date formats and ordering.
func (t TravelInput) Validate() error {
	if t.Origin == "" || t.Destination == "" {
		return fmt.Errorf("origin and destination are required")
	}
	start, err := time.Parse(DateLayout, t.StartDate)
	if err != nil {
		return fmt.Errorf("start_date must be in YYYY-MM-DD format: %q", t.StartDate)
	}
	ret, err := time.Parse(DateLayout, t.ReturnDate)
	if err != nil {
		return fmt.Errorf("return_date must be in YYYY-MM-DD format: %q", t.ReturnDate)
	}
	if ret.Before(start) {
		return fmt.Errorf("return_date %s is before start_date %s", t.ReturnDate, t.StartDate)
	}
	return nil
}

// Days returns the trip length in calendar days, inclusive of both endpoints.
func (t TravelInput) Days() (int, error) {
	start, err := time.Parse(DateLayout, t.StartDate)
	if err != nil {
		return 0, fmt.Errorf("parse start_date: %w", err)
	}
	ret, err := time.Parse(DateLayout, t.ReturnDate)
	if err != nil {
		return 0, fmt.Errorf("parse return_date: %w", err)
	}
	return int(ret.Sub(start).Hours()/24) + 1, nil
}

// UserPreferences carries budget and taste information for itinerary generation.
type UserPreferences struct {
	Budget               float64  `json:"budget"`
	Activities           []string `json:"activities"`
	MealPreferences      []string `json:"meal_preferences"`
	PreferredPlaces      []string `json:"preferred_places"`
	TransportPreferences []string `json:"transport_preferences"`
	AccommodationType    string   `json:"accommodation_type,omitempty"`
}

// Validate rejects negative budgets.
func (p UserPreferences) Validate() error {
	if p.Budget < 0 {
		return fmt.Errorf("budget must be non-negative, got %.2f", p.Budget)
	}
	return nil
}

// ItineraryRequest is the body accepted by POST /api/itinerary.
type ItineraryRequest struct {
	TravelInput     TravelInput     `json:"travel_input"`
	UserPreferences UserPreferences `json:"user_preferences"`
}

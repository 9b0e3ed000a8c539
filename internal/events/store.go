// internal/events/store.go
package events

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "itinerary-planner/internal/common/errors"
	"itinerary-planner/internal/common/metrics"
)

// earthRadiusKm is used by the haversine distance.
const earthRadiusKm = 6371.0

// ValidCategories is the closed set of accepted event categories.
var ValidCategories = []string{"Music", "Sports", "Arts", "Food", "Theater", "Festival", "Exhibition"}

var priceRangeRe = regexp.MustCompile(`^\$\d+(?:\s*-\s*\$\d+)?$|^Free$`)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EventInput carries the caller-supplied fields for creates and updates.
type EventInput struct {
	Name        string       `json:"name"`
	Date        time.Time    `json:"date"`
	Venue       string       `json:"venue"`
	Category    string       `json:"category"`
	PriceRange  string       `json:"price_range,omitempty"`
	Description string       `json:"description,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Event is a stored event with its assigned identifier.
type Event struct {
	ID string `json:"id"`
	EventInput
}

// Filter narrows List results. Zero-value fields are ignored, except Limit
// which defaults to 10.
type Filter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Latitude   *float64
	Longitude  *float64
	RadiusKm   *float64
	Categories []string
	Limit      int
}

// Store is an in-memory event store guarded by a mutex. Filtering and sorting
// happen on a snapshot so the lock is held only for the copy.
type Store struct {
	mu     sync.Mutex
	events []Event
}

func NewStore() *Store {
	return &Store{}
}

// Validate checks the input against the category whitelist, the price-range
// grammar, and the future-date rule.
func (in EventInput) Validate(now time.Time) error {
	if strings.TrimSpace(in.Name) == "" || len(in.Name) > 100 {
		return apperrors.NewInvalidInputError("name must be 1-100 characters")
	}
	if strings.TrimSpace(in.Venue) == "" || len(in.Venue) > 100 {
		return apperrors.NewInvalidInputError("venue must be 1-100 characters")
	}
	if in.Date.Before(now) {
		return apperrors.NewInvalidInputError("event date must be in the future")
	}
	if !isValidCategory(in.Category) {
		return apperrors.NewInvalidInputError("invalid category, must be one of: " + strings.Join(ValidCategories, ", "))
	}
	if in.PriceRange != "" && !priceRangeRe.MatchString(in.PriceRange) {
		return apperrors.NewInvalidInputError(`invalid price range format, must be like "$10", "$10 - $20", or "Free"`)
	}
	if len(in.Description) > 500 {
		return apperrors.NewInvalidInputError("description must be at most 500 characters")
	}
	if in.Coordinates != nil {
		if in.Coordinates.Latitude < -90 || in.Coordinates.Latitude > 90 {
			return apperrors.NewInvalidInputError("latitude must be between -90 and 90")
		}
		if in.Coordinates.Longitude < -180 || in.Coordinates.Longitude > 180 {
			return apperrors.NewInvalidInputError("longitude must be between -180 and 180")
		}
	}
	return nil
}

func isValidCategory(c string) bool {
	for _, valid := range ValidCategories {
		if c == valid {
			return true
		}
	}
	return false
}

// Create validates the input, assigns a UUID, and stores the event.
func (s *Store) Create(in EventInput) (Event, error) {
	if err := in.Validate(time.Now()); err != nil {
		return Event{}, err
	}

	event := Event{ID: uuid.NewString(), EventInput: in}

	s.mu.Lock()
	s.events = append(s.events, event)
	count := len(s.events)
	s.mu.Unlock()

	metrics.EventsStored.Set(float64(count))
	return event, nil
}

// Get returns the event with the given ID.
func (s *Store) Get(id string) (Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Event{}, apperrors.NewInvalidInputError("invalid event ID format")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID == id {
			return e, nil
		}
	}
	return Event{}, apperrors.NewNotFoundError("Event")
}

// Update replaces the stored fields of an existing event, keeping its ID.
func (s *Store) Update(id string, in EventInput) (Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Event{}, apperrors.NewInvalidInputError("invalid event ID format")
	}
	if err := in.Validate(time.Now()); err != nil {
		return Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.events {
		if e.ID == id {
			updated := Event{ID: id, EventInput: in}
			s.events[i] = updated
			return updated, nil
		}
	}
	return Event{}, apperrors.NewNotFoundError("Event")
}

// Delete removes the event with the given ID.
func (s *Store) Delete(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewInvalidInputError("invalid event ID format")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.events {
		if e.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			metrics.EventsStored.Set(float64(len(s.events)))
			return nil
		}
	}
	return apperrors.NewNotFoundError("Event")
}

// List returns events matching the filter, sorted by date (and by distance
// from the query point for same-date events when a location is given).
func (s *Store) List(f Filter) ([]Event, error) {
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	for _, c := range f.Categories {
		if !isValidCategory(c) {
			return nil, apperrors.NewInvalidInputError("invalid category: " + c)
		}
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return nil, apperrors.NewInvalidInputError("end_date must be after start_date")
	}

	s.mu.Lock()
	snapshot := make([]Event, len(s.events))
	copy(snapshot, s.events)
	s.mu.Unlock()

	filtered := snapshot[:0]
	for _, e := range snapshot {
		if f.StartDate != nil && e.Date.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && e.Date.After(*f.EndDate) {
			continue
		}
		if len(f.Categories) > 0 && !contains(f.Categories, e.Category) {
			continue
		}
		if f.Latitude != nil && f.Longitude != nil && f.RadiusKm != nil {
			if e.Coordinates == nil {
				continue
			}
			d := haversineKm(*f.Latitude, *f.Longitude, e.Coordinates.Latitude, e.Coordinates.Longitude)
			if d > *f.RadiusKm {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].Date.Equal(filtered[j].Date) {
			return filtered[i].Date.Before(filtered[j].Date)
		}
		if f.Latitude == nil || f.Longitude == nil {
			return false
		}
		return distanceOrInf(f, filtered[i]) < distanceOrInf(f, filtered[j])
	})

	if len(filtered) > f.Limit {
		filtered = filtered[:f.Limit]
	}
	return filtered, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func distanceOrInf(f Filter, e Event) float64 {
	if e.Coordinates == nil {
		return math.Inf(1)
	}
	return haversineKm(*f.Latitude, *f.Longitude, e.Coordinates.Latitude, e.Coordinates.Longitude)
}

// haversineKm computes the great-circle distance between two points.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlon1 := lon1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlon2 := lon2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// internal/models/itinerary.go
package models

// WeatherInfo is one day of the authoritative forecast. Numeric-looking fields
// stay strings because the upstream provider and the generation schema both
// exchange them as strings.
type WeatherInfo struct {
	Date                string `json:"date"`
	TemperatureCelsius  string `json:"temperature_celsius"`
	Condition           string `json:"condition"`
	PrecipitationChance string `json:"precipitation_chance"`
	Humidity            string `json:"humidity"`
}

// LocalEvent is an externally sourced happening considered for a day's plan.
type LocalEvent struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Venue       string `json:"venue"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	PriceRange  string `json:"price_range,omitempty"`
}

// WeatherResponse bundles the forecast with the events found for the window.
type WeatherResponse struct {
	WeatherForecast []WeatherInfo `json:"weather_forecast"`
	LocalEvents     []LocalEvent  `json:"local_events"`
}

// Activity is a single timed itinerary entry.
type Activity struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}

// Meal is a meal slot with a suggestion.
type Meal struct {
	Type       string `json:"type"`
	Suggestion string `json:"suggestion"`
}

// Transport is a single transport leg within a day.
type Transport struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}

// Accommodation is the lodging record for a day.
type Accommodation struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Details string `json:"details"`
}

// WeatherSummary is the model's own prose about a day's weather.
type WeatherSummary struct {
	Description     string `json:"description"`
	Recommendations string `json:"recommendations"`
}

// EstimatedCosts is a day's cost breakdown.
type EstimatedCosts struct {
	Activities    float64 `json:"activities"`
	Meals         float64 `json:"meals"`
	Transport     float64 `json:"transport"`
	Accommodation float64 `json:"accommodation"`
}

// Total sums the four components.
func (c EstimatedCosts) Total() float64 {
	return c.Activities + c.Meals + c.Transport + c.Accommodation
}

// RouteStop is one point on a day's route.
type RouteStop struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	StopName  string  `json:"stop_name"`
}

// DailyItinerary is one fully assembled day.
type DailyItinerary struct {
	Date           string         `json:"date"`
	Activities     []Activity     `json:"activities"`
	Meals          []Meal         `json:"meals"`
	Transport      []Transport    `json:"transport"`
	Accommodation  Accommodation  `json:"accommodation"`
	Weather        WeatherInfo    `json:"weather"`
	EstimatedCosts EstimatedCosts `json:"estimated_costs"`
	WeatherSummary WeatherSummary `json:"weather_summary"`
	LocalEvents    []LocalEvent   `json:"local_events"`
	DailyRoute     []RouteStop    `json:"daily_route"`
}

// TripSummary is the free-text overview block.
type TripSummary struct {
	TripDates       string `json:"trip_dates"`
	Destination     string `json:"destination"`
	Budget          string `json:"budget"`
	Preferences     string `json:"preferences"`
	MustVisitPlaces string `json:"must_visit_places"`
	TripGoal        string `json:"trip_goal"`
}

// TransportOption is a single inter-city travel option.
type TransportOption struct {
	Mode      string `json:"mode"`
	Provider  string `json:"provider"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Price     string `json:"price"`
	Duration  string `json:"duration"`
	Details   string `json:"details"`
}

// TransportResponse is the transport agent's output.
type TransportResponse struct {
	Options []TransportOption `json:"options"`
}

// ItineraryResponse is the complete validated itinerary returned to the caller.
type ItineraryResponse struct {
	TripSummary       TripSummary       `json:"trip_summary"`
	DailyItineraries  []DailyItinerary  `json:"daily_itineraries"`
	TotalCost         float64           `json:"total_cost"`
	Recommendations   []string          `json:"recommendations"`
	WeatherForecast   []WeatherInfo     `json:"weather_forecast"`
	TransportOptions  []TransportOption `json:"transport_options"`
	EmergencyContacts map[string]string `json:"emergency_contacts"`
	UsefulPhrases     map[string]string `json:"useful_phrases"`
}

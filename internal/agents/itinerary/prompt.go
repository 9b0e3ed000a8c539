// internal/agents/itinerary/prompt.go
package itinerary

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "itinerary-planner/internal/common/errors"
	"itinerary-planner/internal/models"
)

// topEventCount is how many ranked events are surfaced to the model.
const topEventCount = 5

// Budget split hints embedded in the prompt. Guidance only, never enforced on
// the generated output.
const (
	activityShare    = 0.4
	mealShare        = 0.3
	transportShare   = 0.2
	contingencyShare = 0.1
)

// weatherActivityTable maps condition keywords to activity guidance phrases.
var weatherActivityTable = []struct {
	keyword     string
	suggestions []string
}{
	{"sunny", []string{
		"Schedule outdoor activities early morning or late afternoon",
		"Include water-based activities",
		"Plan for shade breaks",
		"Consider indoor alternatives during peak heat",
	}},
	{"rainy", []string{
		"Prioritize indoor cultural activities",
		"Have backup indoor plans for outdoor activities",
		"Include covered transport options",
		"Schedule flexible activities that can be moved",
	}},
	{"cloudy", []string{
		"Ideal for outdoor sightseeing",
		"Good for photography tours",
		"Plan mix of indoor and outdoor activities",
		"Include weather-independent activities",
	}},
	{"clear", []string{
		"Perfect for outdoor adventures",
		"Schedule sunset viewing opportunities",
		"Plan outdoor dining experiences",
		"Include nature-based activities",
	}},
}

type promptWeatherDay struct {
	Date                string `json:"date"`
	Temperature         string `json:"temperature"`
	Condition           string `json:"condition"`
	PrecipitationChance string `json:"precipitation_chance"`
	Humidity            string `json:"humidity"`
}

type promptEvent struct {
	Name       string  `json:"name"`
	Date       string  `json:"date"`
	Venue      string  `json:"venue"`
	Category   string  `json:"category"`
	PriceRange string  `json:"price_range"`
	Relevance  float64 `json:"relevance"`
}

// responseFormat is the literal JSON shape demanded from the model.
const responseFormat = `{
    "trip_summary": {
        "trip_dates": "string",
        "destination": "string",
        "budget": "string",
        "preferences": "string",
        "must_visit_places": "string",
        "trip_goal": "string"
    },
    "daily_itineraries": [
        {
            "date": "YYYY-MM-DD",
            "activities": [
                {"time": "HH:MM", "description": "activity description"}
            ],
            "meals": [
                {"type": "breakfast/lunch/dinner", "suggestion": "restaurant or meal suggestion"}
            ],
            "transport": [
                {"time": "HH:MM", "description": "transport details"}
            ],
            "accommodation": {
                "name": "hotel/guest house name",
                "address": "area or full address",
                "details": "additional details"
            },
            "weather": {
                "temperature_celsius": "string",
                "condition": "string",
                "precipitation_chance": "string",
                "humidity": "string"
            },
            "weather_summary": {
                "description": "string",
                "recommendations": "string"
            },
            "local_events": [
                {"name": "string", "time": "string", "location": "string"}
            ],
            "daily_route": [
                {
                    "latitude": 48.8566,
                    "longitude": 2.3522,
                    "stop_name": "Location Name"
                }
            ],
            "estimated_costs": {
                "activities": float,
                "meals": float,
                "transport": float,
                "accommodation": float
            }
        }
    ],
    "total_cost": float,
    "recommendations": ["recommendation1", "recommendation2"],
    "weather_forecast": [
        {
            "date": "YYYY-MM-DD",
            "temperature_celsius": "string",
            "condition": "string",
            "precipitation_chance": "string",
            "humidity": "string"
        }
    ]
}`

// BuildItineraryPrompt renders the complete generation request. The render is
// deterministic for a fixed input: condition labels and suggestion phrases
// keep first-seen order, events are ranked by descending relevance.
func BuildItineraryPrompt(input models.TravelInput, prefs models.UserPreferences, weather models.WeatherResponse) (string, error) {
	days, err := input.Days()
	if err != nil {
		return "", apperrors.NewInvalidInputError(err.Error())
	}
	if days <= 0 {
		return "", apperrors.NewInvalidInputError(fmt.Sprintf("trip window spans %d days", days))
	}

	conditions := distinctConditions(weather.WeatherForecast)
	suggestions := weatherBasedSuggestions(conditions)

	weatherDays := make([]promptWeatherDay, 0, len(weather.WeatherForecast))
	for _, d := range weather.WeatherForecast {
		weatherDays = append(weatherDays, promptWeatherDay{
			Date:                d.Date,
			Temperature:         d.TemperatureCelsius,
			Condition:           d.Condition,
			PrecipitationChance: d.PrecipitationChance,
			Humidity:            d.Humidity,
		})
	}

	ranked := RankEvents(weather.LocalEvents, prefs.Activities, weather.WeatherForecast, topEventCount)
	topEvents := make([]promptEvent, 0, len(ranked))
	for _, s := range ranked {
		topEvents = append(topEvents, promptEvent{
			Name:       s.Event.Name,
			Date:       s.Event.Date,
			Venue:      s.Event.Venue,
			Category:   s.Event.Category,
			PriceRange: s.Event.PriceRange,
			Relevance:  s.Score,
		})
	}

	weatherJSON, err := json.MarshalIndent(weatherDays, "", "  ")
	if err != nil {
		return "", apperrors.NewUnexpectedError(err)
	}
	eventsJSON, err := json.MarshalIndent(topEvents, "", "  ")
	if err != nil {
		return "", apperrors.NewUnexpectedError(err)
	}

	dailyBudget := prefs.Budget / float64(days)

	transportPrefs := "Any"
	if len(prefs.TransportPreferences) > 0 {
		transportPrefs = strings.Join(prefs.TransportPreferences, ", ")
	}
	accommodation := "Any"
	if prefs.AccommodationType != "" {
		accommodation = prefs.AccommodationType
	}

	var b strings.Builder

	fmt.Fprintf(&b, "As a travel itinerary expert, create a detailed day-by-day travel plan for a trip from %s to %s from %s to %s.\n\n",
		input.Origin, input.Destination, input.StartDate, input.ReturnDate)
	fmt.Fprintf(&b, "The destination %s typically experiences %s during this period. Plan activities accordingly and include indoor alternatives where appropriate.\n\n",
		input.Destination, strings.Join(conditions, ", "))

	fmt.Fprintf(&b, "User Preferences:\n")
	fmt.Fprintf(&b, "- Daily Budget: $%.2f (Total: $%.2f)\n", dailyBudget, prefs.Budget)
	fmt.Fprintf(&b, "  * Suggested split:\n")
	fmt.Fprintf(&b, "    - Activities: 40%% ($%.2f)\n", dailyBudget*activityShare)
	fmt.Fprintf(&b, "    - Meals: 30%% ($%.2f)\n", dailyBudget*mealShare)
	fmt.Fprintf(&b, "    - Transport: 20%% ($%.2f)\n", dailyBudget*transportShare)
	fmt.Fprintf(&b, "    - Contingency: 10%% ($%.2f)\n", dailyBudget*contingencyShare)
	fmt.Fprintf(&b, "- Preferred Activities: %s\n", strings.Join(prefs.Activities, ", "))
	fmt.Fprintf(&b, "- Meal Preferences: %s\n", strings.Join(prefs.MealPreferences, ", "))
	fmt.Fprintf(&b, "- Must-Visit Places: %s\n", strings.Join(prefs.PreferredPlaces, ", "))
	fmt.Fprintf(&b, "- Transport Preferences: %s\n", transportPrefs)
	fmt.Fprintf(&b, "- Accommodation Type: %s\n\n", accommodation)

	fmt.Fprintf(&b, "Weather-Based Activity Suggestions:\n%s\n\n", suggestions)

	fmt.Fprintf(&b, "Daily Weather Forecast:\n%s\n\n", weatherJSON)
	fmt.Fprintf(&b, "Local Events (Sorted by Relevance to User Preferences):\n%s\n\n", eventsJSON)

	b.WriteString(`Event Integration Guidelines:
- Prioritize events with relevance score > 1.5
- Consider weather conditions when scheduling outdoor events
- Ensure event timing aligns with daily schedule
- Account for transport time to/from events

Please create a detailed itinerary that includes:
1. Trip Summary:
   - Overview of the complete journey
   - Daily highlights and main attractions
   - Budget allocation strategy
   - Weather contingency plans

2. Daily Itineraries:
   - Weather-appropriate activities
   - Meal recommendations matching preferences
   - Transport logistics between locations
   - Accommodation details with area benefits
   - Backup plans for weather-sensitive activities
   - Weather summary for the day
   - Local events happening that day
   - Daily route with coordinates

3. Practical Considerations:
   - Indoor alternatives for bad weather
   - Rest periods between activities
   - Transport connection times
   - Meal timing with activities
   - Local customs and etiquette

4. Cost Management:
   - Activity costs with alternatives
   - Transport fare estimates
   - Meal budget options
   - Accommodation rates
   - Emergency fund allocation

`)

	fmt.Fprintf(&b, "Format the response as a JSON object with this structure:\n%s", responseFormat)

	return b.String(), nil
}

// distinctConditions returns the lowercase condition labels in first-seen order.
func distinctConditions(forecast []models.WeatherInfo) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range forecast {
		c := strings.ToLower(d.Condition)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// weatherBasedSuggestions keyword-matches each condition label against the
// suggestion table, deduplicating phrases across conditions.
func weatherBasedSuggestions(conditions []string) string {
	seen := make(map[string]bool)
	var lines []string
	for _, condition := range conditions {
		for _, entry := range weatherActivityTable {
			if strings.Contains(condition, entry.keyword) {
				for _, s := range entry.suggestions {
					if !seen[s] {
						seen[s] = true
						lines = append(lines, "- "+s)
					}
				}
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

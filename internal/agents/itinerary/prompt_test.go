// internal/agents/itinerary/prompt_test.go
package itinerary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "itinerary-planner/internal/common/errors"
	"itinerary-planner/internal/models"
)

func testTravelInput() models.TravelInput {
	return models.TravelInput{
		Origin:      "Paris",
		Destination: "Rome",
		StartDate:   "2025-02-01",
		ReturnDate:  "2025-02-05",
	}
}

func testPreferences() models.UserPreferences {
	return models.UserPreferences{
		Budget:               2000,
		Activities:           []string{"museums", "food tours"},
		MealPreferences:      []string{"vegetarian"},
		PreferredPlaces:      []string{"Colosseum"},
		TransportPreferences: []string{"train"},
		AccommodationType:    "hotel",
	}
}

func testWeatherResponse() models.WeatherResponse {
	return models.WeatherResponse{
		WeatherForecast: []models.WeatherInfo{
			{Date: "2025-02-01", TemperatureCelsius: "15", Condition: "Sunny", PrecipitationChance: "5", Humidity: "45"},
			{Date: "2025-02-02", TemperatureCelsius: "12", Condition: "Rainy", PrecipitationChance: "75", Humidity: "80"},
		},
		LocalEvents: []models.LocalEvent{
			{Name: "Opera Night", Date: "2025-02-01", Venue: "Teatro", Category: "Music", PriceRange: "$30 - $80"},
		},
	}
}

func TestBuildItineraryPrompt_BudgetSplit(t *testing.T) {
	prompt, err := BuildItineraryPrompt(testTravelInput(), testPreferences(), testWeatherResponse())
	require.NoError(t, err)

	// 5 inclusive days, $2000 total.
	assert.Contains(t, prompt, "Daily Budget: $400.00 (Total: $2000.00)")
	assert.Contains(t, prompt, "Activities: 40% ($160.00)")
	assert.Contains(t, prompt, "Meals: 30% ($120.00)")
	assert.Contains(t, prompt, "Transport: 20% ($80.00)")
	assert.Contains(t, prompt, "Contingency: 10% ($40.00)")
}

func TestBuildItineraryPrompt_TripFraming(t *testing.T) {
	prompt, err := BuildItineraryPrompt(testTravelInput(), testPreferences(), testWeatherResponse())
	require.NoError(t, err)

	assert.Contains(t, prompt, "from Paris to Rome from 2025-02-01 to 2025-02-05")
	assert.Contains(t, prompt, "typically experiences sunny, rainy during this period")
}

func TestBuildItineraryPrompt_WeatherSuggestions(t *testing.T) {
	prompt, err := BuildItineraryPrompt(testTravelInput(), testPreferences(), testWeatherResponse())
	require.NoError(t, err)

	// One phrase from each matched condition's table entry.
	assert.Contains(t, prompt, "- Schedule outdoor activities early morning or late afternoon")
	assert.Contains(t, prompt, "- Prioritize indoor cultural activities")
}

func TestBuildItineraryPrompt_IncludesRankedEvents(t *testing.T) {
	prompt, err := BuildItineraryPrompt(testTravelInput(), testPreferences(), testWeatherResponse())
	require.NoError(t, err)

	assert.Contains(t, prompt, "Local Events (Sorted by Relevance to User Preferences):")
	assert.Contains(t, prompt, `"name": "Opera Night"`)
	assert.Contains(t, prompt, `"relevance": 1`)
}

func TestBuildItineraryPrompt_IncludesResponseFormat(t *testing.T) {
	prompt, err := BuildItineraryPrompt(testTravelInput(), testPreferences(), testWeatherResponse())
	require.NoError(t, err)

	assert.Contains(t, prompt, "Format the response as a JSON object with this structure:")
	assert.Contains(t, prompt, `"daily_itineraries": [`)
	assert.Contains(t, prompt, `"estimated_costs": {`)
}

func TestBuildItineraryPrompt_PreferenceFallbacks(t *testing.T) {
	prefs := testPreferences()
	prefs.TransportPreferences = nil
	prefs.AccommodationType = ""

	prompt, err := BuildItineraryPrompt(testTravelInput(), prefs, testWeatherResponse())
	require.NoError(t, err)

	assert.Contains(t, prompt, "Transport Preferences: Any")
	assert.Contains(t, prompt, "Accommodation Type: Any")
}

func TestBuildItineraryPrompt_InvalidDates(t *testing.T) {
	input := testTravelInput()
	input.StartDate = "not-a-date"

	_, err := BuildItineraryPrompt(input, testPreferences(), testWeatherResponse())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.CodeOf(err))
}

func TestBuildItineraryPrompt_Deterministic(t *testing.T) {
	first, err := BuildItineraryPrompt(testTravelInput(), testPreferences(), testWeatherResponse())
	require.NoError(t, err)
	second, err := BuildItineraryPrompt(testTravelInput(), testPreferences(), testWeatherResponse())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildItineraryPrompt_ConditionOrderFirstSeen(t *testing.T) {
	weather := testWeatherResponse()
	weather.WeatherForecast = append(weather.WeatherForecast,
		models.WeatherInfo{Date: "2025-02-03", Condition: "Sunny"},
	)

	prompt, err := BuildItineraryPrompt(testTravelInput(), testPreferences(), weather)
	require.NoError(t, err)

	// Repeated conditions are deduplicated in first-seen order.
	assert.Equal(t, 1, strings.Count(prompt, "typically experiences sunny, rainy"))
}

// internal/agents/itinerary/assemble.go
package itinerary

import (
	"encoding/json"
	"fmt"
	"strconv"

	apperrors "itinerary-planner/internal/common/errors"
	"itinerary-planner/internal/models"
)

// Fixed fallbacks used while assembling days.
const (
	defaultLatitude    = 48.8566
	defaultLongitude   = 2.3522
	defaultStopName    = "Unknown Stop"
	fallbackStopName   = "Default Location"
	defaultHotelName   = "Default Hotel"
	defaultHotelAddr   = "City Center"
	defaultHotelDetail = "Standard Accommodation"
	noDataText         = "No data"
)

var requiredTopLevelFields = []string{"trip_summary", "daily_itineraries", "recommendations"}

var requiredDayFields = []string{"date", "activities", "meals", "transport", "accommodation"}

// Assemble validates repaired JSON, reconciles it against the authoritative
// forecast, fills missing sub-fields with fixed defaults, and constructs the
// final itinerary. Structural failures (missing top-level or per-day fields,
// malformed activity/meal/transport entries) abort the whole assembly; weather
// lookup, route stops, and accommodation self-heal with defaults instead.
func Assemble(repaired string, forecast []models.WeatherInfo) (*models.ItineraryResponse, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(repaired), &top); err != nil {
		return nil, apperrors.NewMalformedResponseError(err)
	}

	var missing []string
	for _, f := range requiredTopLevelFields {
		if _, ok := top[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingFieldsError(missing)
	}

	var rawDays []json.RawMessage
	if err := json.Unmarshal(top["daily_itineraries"], &rawDays); err != nil {
		return nil, apperrors.NewMissingFieldsError([]string{"daily_itineraries (not a list)"})
	}
	if len(rawDays) == 0 {
		return nil, apperrors.NewMissingFieldsError([]string{"daily_itineraries (empty)"})
	}

	days := make([]models.DailyItinerary, 0, len(rawDays))
	var total float64
	for i, rawDay := range rawDays {
		day, err := assembleDay(i, rawDay, forecast)
		if err != nil {
			return nil, err
		}
		total += day.EstimatedCosts.Total()
		days = append(days, *day)
	}

	var summary models.TripSummary
	if err := json.Unmarshal(top["trip_summary"], &summary); err != nil {
		return nil, apperrors.NewUnexpectedError(fmt.Errorf("trip_summary: %v", err))
	}

	var recommendations []string
	if err := json.Unmarshal(top["recommendations"], &recommendations); err != nil {
		return nil, apperrors.NewUnexpectedError(fmt.Errorf("recommendations: %v", err))
	}

	return &models.ItineraryResponse{
		TripSummary:      summary,
		DailyItineraries: days,
		// Always recomputed from the assembled days, never trusted from
		// the model's own total_cost.
		TotalCost:         total,
		Recommendations:   recommendations,
		WeatherForecast:   forecast,
		TransportOptions:  []models.TransportOption{},
		EmergencyContacts: defaultEmergencyContacts(),
		UsefulPhrases:     defaultUsefulPhrases(),
	}, nil
}

func assembleDay(index int, rawDay json.RawMessage, forecast []models.WeatherInfo) (*models.DailyItinerary, error) {
	var day map[string]json.RawMessage
	if err := json.Unmarshal(rawDay, &day); err != nil {
		return nil, apperrors.NewMissingDayFieldsError(index, []string{"(entry is not an object)"})
	}

	var missing []string
	for _, f := range requiredDayFields {
		if _, ok := day[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingDayFieldsError(index, missing)
	}

	var date string
	if err := json.Unmarshal(day["date"], &date); err != nil {
		return nil, apperrors.NewMissingDayFieldsError(index, []string{"date (not a string)"})
	}

	activities, err := buildActivities(day["activities"])
	if err != nil {
		return nil, apperrors.NewMissingDayFieldsError(index, []string{err.Error()})
	}
	meals, err := buildMeals(day["meals"])
	if err != nil {
		return nil, apperrors.NewMissingDayFieldsError(index, []string{err.Error()})
	}
	transport, err := buildTransport(day["transport"])
	if err != nil {
		return nil, apperrors.NewMissingDayFieldsError(index, []string{err.Error()})
	}

	costs, err := buildCosts(day["estimated_costs"])
	if err != nil {
		return nil, apperrors.NewUnexpectedError(fmt.Errorf("day %d estimated_costs: %v", index, err))
	}

	return &models.DailyItinerary{
		Date:           date,
		Activities:     activities,
		Meals:          meals,
		Transport:      transport,
		Accommodation:  buildAccommodation(day["accommodation"]),
		Weather:        lookupWeather(date, forecast),
		EstimatedCosts: costs,
		WeatherSummary: buildWeatherSummary(day["weather_summary"]),
		LocalEvents:    buildLocalEvents(day["local_events"]),
		DailyRoute:     buildRouteStops(day["daily_route"]),
	}, nil
}

// lookupWeather finds the forecast entry matching date exactly, or returns a
// placeholder so a missing day never aborts assembly.
func lookupWeather(date string, forecast []models.WeatherInfo) models.WeatherInfo {
	for _, w := range forecast {
		if w.Date == date {
			return w
		}
	}
	return models.WeatherInfo{
		Date:                date,
		TemperatureCelsius:  "0",
		Condition:           "Unknown",
		PrecipitationChance: "0",
		Humidity:            "0",
	}
}

// buildRouteStops coerces provided stops to numeric coordinates with fixed
// fallbacks. When nothing usable was provided it synthesizes exactly one
// fallback stop.
func buildRouteStops(raw json.RawMessage) []models.RouteStop {
	fallback := []models.RouteStop{{
		Latitude:  defaultLatitude,
		Longitude: defaultLongitude,
		StopName:  fallbackStopName,
	}}

	if len(raw) == 0 {
		return fallback
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(raw, &entries); err != nil || len(entries) == 0 {
		return fallback
	}

	stops := make([]models.RouteStop, 0, len(entries))
	for _, entry := range entries {
		stops = append(stops, models.RouteStop{
			Latitude:  coordOrDefault(entry["latitude"], defaultLatitude),
			Longitude: coordOrDefault(entry["longitude"], defaultLongitude),
			StopName:  stringOrDefault(entry["stop_name"], defaultStopName),
		})
	}
	return stops
}

func coordOrDefault(v interface{}, def float64) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return def
}

func stringOrDefault(v interface{}, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

func buildActivities(raw json.RawMessage) ([]models.Activity, error) {
	entries, err := objectList(raw, "activities")
	if err != nil {
		return nil, err
	}
	out := make([]models.Activity, 0, len(entries))
	for i, entry := range entries {
		if err := requireKeys(entry, "activities", i, "time", "description"); err != nil {
			return nil, err
		}
		var a models.Activity
		if err := json.Unmarshal(entryBytes(entry), &a); err != nil {
			return nil, fmt.Errorf("activities[%d]: %v", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func buildMeals(raw json.RawMessage) ([]models.Meal, error) {
	entries, err := objectList(raw, "meals")
	if err != nil {
		return nil, err
	}
	out := make([]models.Meal, 0, len(entries))
	for i, entry := range entries {
		if err := requireKeys(entry, "meals", i, "type", "suggestion"); err != nil {
			return nil, err
		}
		var m models.Meal
		if err := json.Unmarshal(entryBytes(entry), &m); err != nil {
			return nil, fmt.Errorf("meals[%d]: %v", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func buildTransport(raw json.RawMessage) ([]models.Transport, error) {
	entries, err := objectList(raw, "transport")
	if err != nil {
		return nil, err
	}
	out := make([]models.Transport, 0, len(entries))
	for i, entry := range entries {
		if err := requireKeys(entry, "transport", i, "time", "description"); err != nil {
			return nil, err
		}
		var tr models.Transport
		if err := json.Unmarshal(entryBytes(entry), &tr); err != nil {
			return nil, fmt.Errorf("transport[%d]: %v", i, err)
		}
		out = append(out, tr)
	}
	return out, nil
}

func objectList(raw json.RawMessage, field string) ([]map[string]json.RawMessage, error) {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%s (not a list of objects)", field)
	}
	return entries, nil
}

func requireKeys(entry map[string]json.RawMessage, field string, index int, keys ...string) error {
	for _, k := range keys {
		if _, ok := entry[k]; !ok {
			return fmt.Errorf("%s[%d].%s", field, index, k)
		}
	}
	return nil
}

func entryBytes(entry map[string]json.RawMessage) []byte {
	b, _ := json.Marshal(entry)
	return b
}

// buildAccommodation substitutes fixed defaults for any missing field, and
// falls back to an all-default record when the value is not an object.
func buildAccommodation(raw json.RawMessage) models.Accommodation {
	acc := models.Accommodation{
		Name:    defaultHotelName,
		Address: defaultHotelAddr,
		Details: defaultHotelDetail,
	}
	if len(raw) == 0 {
		return acc
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return acc
	}

	acc.Name = stringOrDefault(fields["name"], defaultHotelName)
	acc.Address = stringOrDefault(fields["address"], defaultHotelAddr)
	acc.Details = stringOrDefault(fields["details"], defaultHotelDetail)
	return acc
}

// buildCosts defaults every missing component to zero. A component that is
// present but not numeric fails the assembly.
func buildCosts(raw json.RawMessage) (models.EstimatedCosts, error) {
	var costs models.EstimatedCosts
	if len(raw) == 0 {
		return costs, nil
	}
	if err := json.Unmarshal(raw, &costs); err != nil {
		return models.EstimatedCosts{}, err
	}
	return costs, nil
}

func buildWeatherSummary(raw json.RawMessage) models.WeatherSummary {
	summary := models.WeatherSummary{
		Description:     noDataText,
		Recommendations: noDataText,
	}
	if len(raw) == 0 {
		return summary
	}

	var parsed models.WeatherSummary
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return summary
	}
	if parsed.Description != "" {
		summary.Description = parsed.Description
	}
	if parsed.Recommendations != "" {
		summary.Recommendations = parsed.Recommendations
	}
	return summary
}

func buildLocalEvents(raw json.RawMessage) []models.LocalEvent {
	if len(raw) == 0 {
		return []models.LocalEvent{}
	}
	var events []models.LocalEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return []models.LocalEvent{}
	}
	return events
}

func defaultEmergencyContacts() map[string]string {
	return map[string]string{
		"police":           "112",
		"ambulance":        "112",
		"tourist_helpline": "1363",
	}
}

func defaultUsefulPhrases() map[string]string {
	return map[string]string{
		"hello":     "Hello",
		"thank_you": "Thank you",
		"help":      "Help",
	}
}

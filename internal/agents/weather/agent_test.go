// internal/agents/weather/agent_test.go
package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-planner/internal/common/logger"
	"itinerary-planner/internal/models"
)

const forecastBody = `{
	"forecast": {
		"forecastday": [
			{
				"date": "2025-02-01",
				"day": {
					"avgtemp_c": 15.5,
					"daily_chance_of_rain": 10,
					"avghumidity": 45,
					"condition": {"text": "Sunny"}
				}
			},
			{
				"date": "2025-02-02",
				"day": {
					"avgtemp_c": 12,
					"daily_chance_of_rain": 80,
					"avghumidity": 70,
					"condition": {"text": "Rainy"}
				}
			}
		]
	}
}`

const eventsBody = `{
	"_embedded": {
		"events": [
			{
				"name": "Opera Night",
				"description": "A night at the opera",
				"priceRanges": [{"min": 30, "max": 80}],
				"classifications": [{"segment": {"name": "Music"}}],
				"dates": {"start": {"dateTime": "2025-02-01T19:00:00Z"}},
				"_embedded": {"venues": [{"name": "Teatro"}]}
			},
			{
				"name": "Mystery Event",
				"dates": {"start": {}}
			}
		]
	}
}`

func testInput() models.TravelInput {
	return models.TravelInput{
		Origin:      "Paris",
		Destination: "Rome",
		StartDate:   "2025-02-01",
		ReturnDate:  "2025-02-02",
	}
}

func newTestAgent(t *testing.T, weatherURL, eventsURL string, cache *redis.Client) *Agent {
	t.Helper()
	return NewAgent(Config{
		WeatherAPIKey:      "weather-key",
		WeatherBaseURL:     weatherURL,
		TicketmasterAPIKey: "tm-key",
		TicketmasterURL:    eventsURL,
		MaxRetries:         2,
		RetryDelay:         time.Millisecond,
		RequestTimeout:     time.Second,
	}, cache, logger.NewTestLogger(t))
}

func newProviderServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetWeatherAndEvents_Success(t *testing.T) {
	weatherSrv := newProviderServer(t, http.StatusOK, forecastBody)
	eventsSrv := newProviderServer(t, http.StatusOK, eventsBody)
	agent := newTestAgent(t, weatherSrv.URL, eventsSrv.URL, nil)

	resp := agent.GetWeatherAndEvents(context.Background(), testInput())

	require.Len(t, resp.WeatherForecast, 2)
	assert.Equal(t, "2025-02-01", resp.WeatherForecast[0].Date)
	assert.Equal(t, "15.5", resp.WeatherForecast[0].TemperatureCelsius)
	assert.Equal(t, "Sunny", resp.WeatherForecast[0].Condition)
	assert.Equal(t, "10", resp.WeatherForecast[0].PrecipitationChance)
	assert.Equal(t, "45", resp.WeatherForecast[0].Humidity)

	require.Len(t, resp.LocalEvents, 2)
	first := resp.LocalEvents[0]
	assert.Equal(t, "Opera Night", first.Name)
	assert.Equal(t, "2025-02-01", first.Date)
	assert.Equal(t, "Teatro", first.Venue)
	assert.Equal(t, "Music", first.Category)
	assert.Equal(t, "$30-$80", first.PriceRange)

	// Sparse events pick up every default.
	second := resp.LocalEvents[1]
	assert.Equal(t, "Mystery Event", second.Name)
	assert.Equal(t, "Unknown Venue", second.Venue)
	assert.Equal(t, "Other", second.Category)
	assert.Equal(t, "N/A", second.PriceRange)
	assert.Equal(t, "No description available", second.Description)
}

func TestGetWeatherAndEvents_WeatherProviderDown(t *testing.T) {
	weatherSrv := newProviderServer(t, http.StatusInternalServerError, "")
	eventsSrv := newProviderServer(t, http.StatusOK, eventsBody)
	agent := newTestAgent(t, weatherSrv.URL, eventsSrv.URL, nil)

	resp := agent.GetWeatherAndEvents(context.Background(), testInput())

	assert.Empty(t, resp.WeatherForecast)
	assert.Len(t, resp.LocalEvents, 2)
}

func TestGetWeatherAndEvents_EventsProviderDown(t *testing.T) {
	weatherSrv := newProviderServer(t, http.StatusOK, forecastBody)
	eventsSrv := newProviderServer(t, http.StatusForbidden, "")
	agent := newTestAgent(t, weatherSrv.URL, eventsSrv.URL, nil)

	resp := agent.GetWeatherAndEvents(context.Background(), testInput())

	assert.Len(t, resp.WeatherForecast, 2)
	assert.Empty(t, resp.LocalEvents)
	assert.NotNil(t, resp.LocalEvents)
}

func TestGetWeatherAndEvents_InvalidDates(t *testing.T) {
	weatherSrv := newProviderServer(t, http.StatusOK, forecastBody)
	agent := newTestAgent(t, weatherSrv.URL, weatherSrv.URL, nil)

	input := testInput()
	input.StartDate = "02/01/2025"

	resp := agent.GetWeatherAndEvents(context.Background(), input)

	assert.Empty(t, resp.WeatherForecast)
	assert.Empty(t, resp.LocalEvents)
}

func TestGetWeatherAndEvents_RetriesTransientFailure(t *testing.T) {
	var weatherCalls int32
	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&weatherCalls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, forecastBody)
	}))
	defer weatherSrv.Close()
	eventsSrv := newProviderServer(t, http.StatusOK, eventsBody)
	agent := newTestAgent(t, weatherSrv.URL, eventsSrv.URL, nil)

	resp := agent.GetWeatherAndEvents(context.Background(), testInput())

	assert.Len(t, resp.WeatherForecast, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&weatherCalls))
}

func TestGetWeatherAndEvents_CachesResponse(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	var weatherCalls int32
	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&weatherCalls, 1)
		fmt.Fprint(w, forecastBody)
	}))
	defer weatherSrv.Close()
	eventsSrv := newProviderServer(t, http.StatusOK, eventsBody)
	agent := newTestAgent(t, weatherSrv.URL, eventsSrv.URL, cache)

	first := agent.GetWeatherAndEvents(context.Background(), testInput())
	second := agent.GetWeatherAndEvents(context.Background(), testInput())

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&weatherCalls))
}

func TestGetWeatherAndEvents_EmptyForecastNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	weatherSrv := newProviderServer(t, http.StatusInternalServerError, "")
	eventsSrv := newProviderServer(t, http.StatusOK, eventsBody)
	agent := newTestAgent(t, weatherSrv.URL, eventsSrv.URL, cache)

	agent.GetWeatherAndEvents(context.Background(), testInput())

	assert.Empty(t, mr.Keys())
}

func TestFormatLocation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Rome", "Rome"},
		{"spaces collapse and encode", "New   York", "New+York"},
		{"strips unusual characters", "São Paulo!@#", "So+Paulo"},
		{"keeps hyphen and comma", "Stratford-upon-Avon, UK", "Stratford-upon-Avon%2C+UK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatLocation(tt.in))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "15", formatNumber(15))
	assert.Equal(t, "15.5", formatNumber(15.5))
	assert.Equal(t, "0", formatNumber(0))
}

// internal/agents/weather/agent.go
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"itinerary-planner/internal/common/httpclient"
	"itinerary-planner/internal/common/logger"
	"itinerary-planner/internal/models"
)

// forecastDayCap is the provider's forecast horizon.
const forecastDayCap = 14

// eventPageSize limits how many events are requested per trip window.
const eventPageSize = 20

var locationSanitizeRe = regexp.MustCompile(`[^\w\s\-.,]`)

// Config holds provider endpoints, credentials, and retry/cache settings.
type Config struct {
	WeatherAPIKey      string
	WeatherBaseURL     string
	TicketmasterAPIKey string
	TicketmasterURL    string
	MaxRetries         int
	RetryDelay         time.Duration
	CacheTTL           time.Duration
	RequestTimeout     time.Duration
}

// Agent fetches the authoritative forecast and local events for a trip
// window. Responses are optionally cached in Redis; fetch failures degrade to
// empty lists so itinerary generation can decide how to proceed.
type Agent struct {
	config Config
	client *httpclient.Client
	cache  *redis.Client
	logger logger.Logger
}

// NewAgent constructs the agent. cache may be nil to disable caching.
func NewAgent(config Config, cache *redis.Client, log logger.Logger) *Agent {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 15 * time.Minute
	}
	return &Agent{
		config: config,
		client: httpclient.New(config.RequestTimeout),
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"component": "weather-agent"}),
	}
}

// GetWeatherAndEvents returns the forecast and events for the trip window.
func (a *Agent) GetWeatherAndEvents(ctx context.Context, input models.TravelInput) models.WeatherResponse {
	start, err := time.Parse(models.DateLayout, input.StartDate)
	if err != nil {
		a.logger.Error("invalid start date", map[string]interface{}{"startDate": input.StartDate})
		return emptyResponse()
	}
	end, err := time.Parse(models.DateLayout, input.ReturnDate)
	if err != nil {
		a.logger.Error("invalid return date", map[string]interface{}{"returnDate": input.ReturnDate})
		return emptyResponse()
	}

	cacheKey := fmt.Sprintf("weather:%s:%s:%s", strings.ToLower(input.Destination), input.StartDate, input.ReturnDate)
	if cached, ok := a.fromCache(ctx, cacheKey); ok {
		return cached
	}

	forecast := a.fetchForecast(ctx, input.Destination, start, end)
	events := a.fetchLocalEvents(ctx, input.Destination, start, end)

	resp := models.WeatherResponse{
		WeatherForecast: forecast,
		LocalEvents:     events,
	}
	if resp.WeatherForecast == nil {
		resp.WeatherForecast = []models.WeatherInfo{}
	}
	if resp.LocalEvents == nil {
		resp.LocalEvents = []models.LocalEvent{}
	}

	if len(resp.WeatherForecast) > 0 {
		a.toCache(ctx, cacheKey, resp)
	}
	return resp
}

func emptyResponse() models.WeatherResponse {
	return models.WeatherResponse{
		WeatherForecast: []models.WeatherInfo{},
		LocalEvents:     []models.LocalEvent{},
	}
}

func (a *Agent) fromCache(ctx context.Context, key string) (models.WeatherResponse, bool) {
	if a.cache == nil {
		return models.WeatherResponse{}, false
	}
	val, err := a.cache.Get(ctx, key).Result()
	if err != nil {
		return models.WeatherResponse{}, false
	}
	var resp models.WeatherResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return models.WeatherResponse{}, false
	}
	a.logger.Debug("weather cache hit", map[string]interface{}{"key": key})
	return resp, true
}

func (a *Agent) toCache(ctx context.Context, key string, resp models.WeatherResponse) {
	if a.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	a.cache.Set(ctx, key, data, a.config.CacheTTL)
}

// formatLocation strips unusual characters, collapses spaces, and URL-encodes
// the location for provider query strings.
func formatLocation(location string) string {
	formatted := locationSanitizeRe.ReplaceAllString(location, "")
	formatted = strings.Join(strings.Fields(formatted), " ")
	return url.QueryEscape(formatted)
}

type weatherAPIResponse struct {
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				AvgTempC          float64 `json:"avgtemp_c"`
				DailyChanceOfRain float64 `json:"daily_chance_of_rain"`
				AvgHumidity       float64 `json:"avghumidity"`
				Condition         struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (a *Agent) fetchForecast(ctx context.Context, location string, start, end time.Time) []models.WeatherInfo {
	days := int(end.Sub(start).Hours()/24) + 1
	if days > forecastDayCap {
		days = forecastDayCap
	}

	reqURL := fmt.Sprintf("%s/forecast.json?key=%s&q=%s&days=%d&aqi=no",
		strings.TrimRight(a.config.WeatherBaseURL, "/"),
		url.QueryEscape(a.config.WeatherAPIKey),
		formatLocation(location),
		days,
	)

	a.logger.Info("fetching weather forecast", map[string]interface{}{
		"location": location,
		"days":     days,
	})

	var parsed weatherAPIResponse
	if err := a.getJSONWithRetry(ctx, reqURL, &parsed); err != nil {
		a.logger.Error("weather forecast fetch failed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	forecast := make([]models.WeatherInfo, 0, len(parsed.Forecast.ForecastDay))
	for _, d := range parsed.Forecast.ForecastDay {
		forecast = append(forecast, models.WeatherInfo{
			Date:                d.Date,
			TemperatureCelsius:  formatNumber(d.Day.AvgTempC),
			Condition:           d.Day.Condition.Text,
			PrecipitationChance: formatNumber(d.Day.DailyChanceOfRain),
			Humidity:            formatNumber(d.Day.AvgHumidity),
		})
	}

	if len(forecast) == 0 {
		a.logger.Warn("no weather data found", map[string]interface{}{"location": location})
	}
	return forecast
}

// formatNumber renders provider numerics the way the generation schema expects:
// whole numbers without a decimal point.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

type ticketmasterResponse struct {
	Embedded struct {
		Events []ticketmasterEvent `json:"events"`
	} `json:"_embedded"`
}

type ticketmasterEvent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceRanges []struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"priceRanges"`
	Classifications []struct {
		Segment struct {
			Name string `json:"name"`
		} `json:"segment"`
	} `json:"classifications"`
	Dates struct {
		Start struct {
			DateTime string `json:"dateTime"`
		} `json:"start"`
	} `json:"dates"`
	Embedded struct {
		Venues []struct {
			Name string `json:"name"`
		} `json:"venues"`
	} `json:"_embedded"`
}

func (a *Agent) fetchLocalEvents(ctx context.Context, location string, start, end time.Time) []models.LocalEvent {
	startDT := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDT := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)

	reqURL := fmt.Sprintf("%s/events.json?apikey=%s&city=%s&startDateTime=%s&endDateTime=%s&size=%d",
		strings.TrimRight(a.config.TicketmasterURL, "/"),
		url.QueryEscape(a.config.TicketmasterAPIKey),
		formatLocation(location),
		startDT.Format("2006-01-02T15:04:05Z"),
		endDT.Format("2006-01-02T15:04:05Z"),
		eventPageSize,
	)

	var parsed ticketmasterResponse
	if err := a.getJSONWithRetry(ctx, reqURL, &parsed); err != nil {
		a.logger.Error("local events fetch failed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	events := make([]models.LocalEvent, 0, len(parsed.Embedded.Events))
	for _, e := range parsed.Embedded.Events {
		events = append(events, convertEvent(e))
	}
	return events
}

func convertEvent(e ticketmasterEvent) models.LocalEvent {
	priceRange := "N/A"
	if len(e.PriceRanges) > 0 && (e.PriceRanges[0].Min != 0 || e.PriceRanges[0].Max != 0) {
		priceRange = fmt.Sprintf("$%g-$%g", e.PriceRanges[0].Min, e.PriceRanges[0].Max)
	}

	venue := "Unknown Venue"
	if len(e.Embedded.Venues) > 0 && e.Embedded.Venues[0].Name != "" {
		venue = e.Embedded.Venues[0].Name
	}

	category := "Other"
	if len(e.Classifications) > 0 && e.Classifications[0].Segment.Name != "" {
		category = e.Classifications[0].Segment.Name
	}

	date := time.Now().Format(models.DateLayout)
	if e.Dates.Start.DateTime != "" {
		raw := strings.Replace(e.Dates.Start.DateTime, "Z", "+00:00", 1)
		if parsed, err := time.Parse("2006-01-02T15:04:05-07:00", raw); err == nil {
			date = parsed.Format(models.DateLayout)
		}
	}

	name := e.Name
	if name == "" {
		name = "Unnamed Event"
	}
	description := e.Description
	if description == "" {
		description = "No description available"
	}

	return models.LocalEvent{
		Name:        name,
		Date:        date,
		Venue:       venue,
		Category:    category,
		PriceRange:  priceRange,
		Description: description,
	}
}

// getJSONWithRetry performs a GET with exponential backoff and decodes the
// body into out.
func (a *Agent) getJSONWithRetry(ctx context.Context, reqURL string, out interface{}) error {
	var lastErr error
	delay := a.config.RetryDelay

	for attempt := 0; attempt < a.config.MaxRetries; attempt++ {
		if attempt > 0 {
			a.logger.Warn("provider call failed, retrying", map[string]interface{}{
				"attempt":     attempt,
				"nextRetryIn": delay.String(),
				"error":       lastErr.Error(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}

		lastErr = a.getJSON(ctx, reqURL, out)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func (a *Agent) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

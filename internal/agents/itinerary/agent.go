// internal/agents/itinerary/agent.go
package itinerary

import (
	"context"
	"time"

	apperrors "itinerary-planner/internal/common/errors"
	"itinerary-planner/internal/common/logger"
	"itinerary-planner/internal/common/metrics"
	"itinerary-planner/internal/genai"
	"itinerary-planner/internal/models"
)

// Config bounds the external generation call.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	AttemptTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: time.Second,
		AttemptTimeout: 60 * time.Second,
	}
}

// Agent drives the full generation pipeline: compose the prompt, call the
// external generator with bounded retry, repair the raw text, and assemble
// the validated itinerary.
type Agent struct {
	generator genai.Generator
	config    Config
	logger    logger.Logger
}

func NewAgent(generator genai.Generator, config Config, log logger.Logger) *Agent {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 1
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = time.Second
	}
	return &Agent{
		generator: generator,
		config:    config,
		logger:    log.WithFields(map[string]interface{}{"component": "itinerary-agent"}),
	}
}

// GenerateItinerary produces a validated itinerary for the trip, or fails
// with a categorized error. Only the external generation call is retried;
// repair and assembly failures are terminal for the request.
func (a *Agent) GenerateItinerary(ctx context.Context, input models.TravelInput, prefs models.UserPreferences, weather models.WeatherResponse) (*models.ItineraryResponse, error) {
	if len(weather.WeatherForecast) == 0 {
		return nil, apperrors.NewWeatherUnavailableError("weather data is required for itinerary generation")
	}

	a.logger.Info("starting itinerary generation", map[string]interface{}{
		"destination": input.Destination,
		"startDate":   input.StartDate,
		"returnDate":  input.ReturnDate,
		"events":      len(weather.LocalEvents),
	})

	composeStart := time.Now()
	prompt, err := BuildItineraryPrompt(input, prefs, weather)
	if err != nil {
		return nil, err
	}
	metrics.PipelineStageDuration.WithLabelValues("compose").Observe(time.Since(composeStart).Seconds())

	text, err := a.generateWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	repairStart := time.Now()
	repaired, err := Repair(text)
	if err != nil {
		return nil, err
	}
	metrics.PipelineStageDuration.WithLabelValues("repair").Observe(time.Since(repairStart).Seconds())

	assembleStart := time.Now()
	result, err := Assemble(repaired, weather.WeatherForecast)
	if err != nil {
		return nil, err
	}
	metrics.PipelineStageDuration.WithLabelValues("assemble").Observe(time.Since(assembleStart).Seconds())

	if len(result.DailyItineraries) == 0 {
		return nil, apperrors.NewUpstreamEmptyError("itinerary generation")
	}

	a.logger.Info("itinerary generation completed", map[string]interface{}{
		"days":      len(result.DailyItineraries),
		"totalCost": result.TotalCost,
	})

	return result, nil
}

// generateWithRetry calls the external generator with exponential backoff.
// Each attempt is independently bounded by the configured timeout and a
// timed-out attempt counts against the budget like any other failure.
func (a *Agent) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	delay := a.config.InitialBackoff

	for attempt := 0; attempt < a.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", apperrors.NewGenerationFailedError(ctx.Err())
			}
			delay *= 2
		}

		text, err := a.call(ctx, prompt)
		if err == nil {
			metrics.GenerationAttempts.WithLabelValues("success").Inc()
			return text, nil
		}
		metrics.GenerationAttempts.WithLabelValues("failure").Inc()

		if !apperrors.IsRetryable(err) {
			return "", err
		}
		lastErr = err
		a.logger.Warn("generation attempt failed", map[string]interface{}{
			"attempt":     attempt + 1,
			"maxRetries":  a.config.MaxRetries,
			"nextRetryIn": delay.String(),
			"error":       err.Error(),
		})
	}

	return "", lastErr
}

func (a *Agent) call(ctx context.Context, prompt string) (string, error) {
	if a.config.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.AttemptTimeout)
		defer cancel()
	}

	start := time.Now()
	text, err := a.generator.GenerateContent(ctx, prompt)
	metrics.PipelineStageDuration.WithLabelValues("generate").Observe(time.Since(start).Seconds())
	return text, err
}

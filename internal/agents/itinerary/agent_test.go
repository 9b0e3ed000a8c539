// internal/agents/itinerary/agent_test.go
package itinerary

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "itinerary-planner/internal/common/errors"
	"itinerary-planner/internal/common/logger"
	"itinerary-planner/internal/models"
)

// fakeGenerator returns scripted responses per call.
type fakeGenerator struct {
	responses []fakeResponse
	calls     int
}

type fakeResponse struct {
	text string
	err  error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperrors.NewGenerationFailedError(err)
	}
	i := f.calls
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	f.calls++
	return f.responses[i].text, f.responses[i].err
}

func fastConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		AttemptTimeout: time.Second,
	}
}

func newTestAgent(t *testing.T, gen *fakeGenerator) *Agent {
	t.Helper()
	return NewAgent(gen, fastConfig(), logger.NewTestLogger(t))
}

func TestAgent_GenerateItinerary_Success(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{text: "```json\n" + mustJSON(t, validPayload()) + "\n```"},
	}}
	agent := newTestAgent(t, gen)

	result, err := agent.GenerateItinerary(context.Background(), testTravelInput(), testPreferences(), testWeatherResponse())

	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Len(t, result.DailyItineraries, 2)
	assert.Equal(t, 500.0, result.TotalCost)
}

func TestAgent_GenerateItinerary_RetriesRetryableFailures(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{err: apperrors.NewGenerationFailedError(assert.AnError)},
		{err: apperrors.NewGenerationFailedError(assert.AnError)},
		{text: mustJSON(t, validPayload())},
	}}
	agent := newTestAgent(t, gen)

	result, err := agent.GenerateItinerary(context.Background(), testTravelInput(), testPreferences(), testWeatherResponse())

	require.NoError(t, err)
	assert.Equal(t, 3, gen.calls)
	assert.NotNil(t, result)
}

func TestAgent_GenerateItinerary_ExhaustsRetryBudget(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{err: apperrors.NewGenerationFailedError(assert.AnError)},
	}}
	agent := newTestAgent(t, gen)

	_, err := agent.GenerateItinerary(context.Background(), testTravelInput(), testPreferences(), testWeatherResponse())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeGenerationFailed, apperrors.CodeOf(err))
	assert.Equal(t, 3, gen.calls)
}

func TestAgent_GenerateItinerary_EmptyResponseIsTerminal(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{err: apperrors.NewUpstreamEmptyError("gemini")},
	}}
	agent := newTestAgent(t, gen)

	_, err := agent.GenerateItinerary(context.Background(), testTravelInput(), testPreferences(), testWeatherResponse())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUpstreamEmpty, apperrors.CodeOf(err))
	// Non-retryable errors never consume further attempts.
	assert.Equal(t, 1, gen.calls)
}

func TestAgent_GenerateItinerary_MalformedResponseIsTerminal(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{text: "absolutely not json"},
	}}
	agent := newTestAgent(t, gen)

	_, err := agent.GenerateItinerary(context.Background(), testTravelInput(), testPreferences(), testWeatherResponse())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMalformedResponse, apperrors.CodeOf(err))
	assert.Equal(t, 1, gen.calls)
}

func TestAgent_GenerateItinerary_NoForecast(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{{text: "{}"}}}
	agent := newTestAgent(t, gen)

	weather := models.WeatherResponse{}
	_, err := agent.GenerateItinerary(context.Background(), testTravelInput(), testPreferences(), weather)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeWeatherUnavailable, apperrors.CodeOf(err))
	assert.Zero(t, gen.calls)
}

func TestAgent_GenerateItinerary_CancelledContext(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{err: apperrors.NewGenerationFailedError(assert.AnError)},
	}}
	agent := newTestAgent(t, gen)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agent.GenerateItinerary(ctx, testTravelInput(), testPreferences(), testWeatherResponse())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeGenerationFailed, apperrors.CodeOf(err))
}

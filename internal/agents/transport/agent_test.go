// internal/agents/transport/agent_test.go
package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "itinerary-planner/internal/common/errors"
	"itinerary-planner/internal/common/logger"
	"itinerary-planner/internal/models"
)

type fakeGenerator struct {
	text   string
	err    error
	prompt string
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}

func testInput() models.TravelInput {
	return models.TravelInput{
		Origin:      "Paris",
		Destination: "Rome",
		StartDate:   "2025-02-01",
		ReturnDate:  "2025-02-05",
	}
}

const validOptionsJSON = `[
	{
		"mode": "Train",
		"provider": "Trenitalia",
		"departure_time": "2025-02-01 08:00",
		"arrival_time": "2025-02-01 19:30",
		"price": "120.50",
		"duration_minutes": "690",
		"details": {"route": "Paris - Milan - Rome", "class": "Second"}
	},
	{
		"mode": "Bus",
		"provider": "FlixBus",
		"departure_time": "2025-02-01 07:00",
		"arrival_time": "2025-02-02 04:00",
		"price": 55,
		"duration_minutes": 1260
	}
]`

func TestGetTransportOptions_Success(t *testing.T) {
	gen := &fakeGenerator{text: validOptionsJSON}
	agent := NewAgent(gen, logger.NewTestLogger(t))

	resp, err := agent.GetTransportOptions(context.Background(), testInput())

	require.NoError(t, err)
	require.Len(t, resp.Options, 2)

	train := resp.Options[0]
	assert.Equal(t, "Train", train.Mode)
	assert.Equal(t, "Trenitalia", train.Provider)
	assert.Equal(t, "2025-02-01 08:00", train.Departure)
	assert.Equal(t, "2025-02-01 19:30", train.Arrival)
	assert.Equal(t, "120.5", train.Price)
	assert.Equal(t, "690", train.Duration)
	assert.Contains(t, train.Details, "Paris - Milan - Rome")

	bus := resp.Options[1]
	assert.Equal(t, "55", bus.Price)
	assert.Equal(t, "1260", bus.Duration)
	assert.Equal(t, "{}", bus.Details)
}

func TestGetTransportOptions_PromptContent(t *testing.T) {
	gen := &fakeGenerator{text: `[]`}
	agent := NewAgent(gen, logger.NewTestLogger(t))

	_, err := agent.GetTransportOptions(context.Background(), testInput())
	require.NoError(t, err)

	assert.Contains(t, gen.prompt, "between Paris and Rome")
	assert.Contains(t, gen.prompt, "from 2025-02-01 to 2025-02-05")
	assert.Contains(t, gen.prompt, `"departure_time": "YYYY-MM-DD HH:MM"`)
}

func TestGetTransportOptions_SkipsIncompleteOptions(t *testing.T) {
	gen := &fakeGenerator{text: `[
		{"mode": "Train", "provider": "SNCF"},
		{"mode": "Cab", "provider": "Uber", "departure_time": "2025-02-01 08:00", "arrival_time": "2025-02-01 12:00", "price": "200", "duration_minutes": "240"}
	]`}
	agent := NewAgent(gen, logger.NewTestLogger(t))

	resp, err := agent.GetTransportOptions(context.Background(), testInput())

	require.NoError(t, err)
	require.Len(t, resp.Options, 1)
	assert.Equal(t, "Cab", resp.Options[0].Mode)
}

func TestGetTransportOptions_SkipsNonNumericPrice(t *testing.T) {
	gen := &fakeGenerator{text: `[
		{"mode": "Train", "provider": "X", "departure_time": "a", "arrival_time": "b", "price": "cheap", "duration_minutes": "60"}
	]`}
	agent := NewAgent(gen, logger.NewTestLogger(t))

	resp, err := agent.GetTransportOptions(context.Background(), testInput())

	require.NoError(t, err)
	assert.Empty(t, resp.Options)
}

func TestGetTransportOptions_FencedResponse(t *testing.T) {
	gen := &fakeGenerator{text: "```json\n" + validOptionsJSON + "\n```"}
	agent := NewAgent(gen, logger.NewTestLogger(t))

	resp, err := agent.GetTransportOptions(context.Background(), testInput())

	require.NoError(t, err)
	assert.Len(t, resp.Options, 2)
}

func TestGetTransportOptions_NotAList(t *testing.T) {
	gen := &fakeGenerator{text: `{"mode": "Train"}`}
	agent := NewAgent(gen, logger.NewTestLogger(t))

	_, err := agent.GetTransportOptions(context.Background(), testInput())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMalformedResponse, apperrors.CodeOf(err))
}

func TestGetTransportOptions_MissingOriginOrDestination(t *testing.T) {
	agent := NewAgent(&fakeGenerator{}, logger.NewTestLogger(t))

	input := testInput()
	input.Origin = ""

	_, err := agent.GetTransportOptions(context.Background(), input)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.CodeOf(err))
}

func TestGetTransportOptions_GeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: apperrors.NewUpstreamEmptyError("gemini")}
	agent := NewAgent(gen, logger.NewTestLogger(t))

	_, err := agent.GetTransportOptions(context.Background(), testInput())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUpstreamEmpty, apperrors.CodeOf(err))
}

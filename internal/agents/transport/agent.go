// internal/agents/transport/agent.go
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"itinerary-planner/internal/agents/itinerary"
	apperrors "itinerary-planner/internal/common/errors"
	"itinerary-planner/internal/common/logger"
	"itinerary-planner/internal/genai"
	"itinerary-planner/internal/models"
)

// Agent suggests inter-city transport options between the trip's origin and
// destination, using the same external generator as itinerary generation.
type Agent struct {
	generator genai.Generator
	logger    logger.Logger
}

func NewAgent(generator genai.Generator, log logger.Logger) *Agent {
	return &Agent{
		generator: generator,
		logger:    log.WithFields(map[string]interface{}{"component": "transport-agent"}),
	}
}

// rawOption matches the JSON shape requested from the model. Fields arrive
// with loose typing, so everything decodes into interface{} first.
type rawOption struct {
	Mode            interface{}     `json:"mode"`
	Provider        interface{}     `json:"provider"`
	DepartureTime   interface{}     `json:"departure_time"`
	ArrivalTime     interface{}     `json:"arrival_time"`
	Price           interface{}     `json:"price"`
	DurationMinutes interface{}     `json:"duration_minutes"`
	Details         json.RawMessage `json:"details"`
}

// GetTransportOptions returns inter-city options for the trip window. Options
// missing required fields are skipped rather than failing the whole request.
func (a *Agent) GetTransportOptions(ctx context.Context, input models.TravelInput) (*models.TransportResponse, error) {
	if input.Origin == "" || input.Destination == "" {
		return nil, apperrors.NewInvalidInputError("origin and destination are required")
	}

	a.logger.Info("getting transport options", map[string]interface{}{
		"origin":      input.Origin,
		"destination": input.Destination,
	})

	text, err := a.generator.GenerateContent(ctx, buildTransportPrompt(input))
	if err != nil {
		return nil, err
	}

	repaired, err := itinerary.Repair(text)
	if err != nil {
		return nil, err
	}

	options, err := parseOptions(repaired, a.logger)
	if err != nil {
		return nil, err
	}

	a.logger.Info("transport options retrieved", map[string]interface{}{"count": len(options)})
	return &models.TransportResponse{Options: options}, nil
}

func buildTransportPrompt(input models.TravelInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As a travel transport expert, suggest the best transport options between %s and %s for travel dates from %s to %s.\n\n",
		input.Origin, input.Destination, input.StartDate, input.ReturnDate)
	b.WriteString(`Please provide multiple options including trains, buses, and cabs where available.
For each option, include:
- Mode of transport
- Provider name
- Departure and arrival times
- Price in USD
- Duration
- Additional details (route information, stops, amenities, etc.)

Format the response as a JSON array of transport options.
Each option should follow this structure:
{
    "mode": "string",
    "provider": "string",
    "departure_time": "YYYY-MM-DD HH:MM",
    "arrival_time": "YYYY-MM-DD HH:MM",
    "price": "0.00",
    "duration_minutes": "0",
    "details": {
        "route": "string",
        "stops": ["stop1", "stop2"],
        "amenities": "string",
        "class": "string",
        "notes": "string"
    }
}`)
	return b.String()
}

func parseOptions(repaired string, log logger.Logger) ([]models.TransportOption, error) {
	var raw []rawOption
	if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
		return nil, apperrors.NewMalformedResponseError(fmt.Errorf("transport data must be a list: %v", err))
	}

	options := make([]models.TransportOption, 0, len(raw))
	for i, opt := range raw {
		converted, err := convertOption(opt)
		if err != nil {
			log.Warn("skipping transport option", map[string]interface{}{
				"index": i,
				"error": err.Error(),
			})
			continue
		}
		options = append(options, converted)
	}
	return options, nil
}

func convertOption(opt rawOption) (models.TransportOption, error) {
	var missing []string
	for name, v := range map[string]interface{}{
		"mode":             opt.Mode,
		"provider":         opt.Provider,
		"departure_time":   opt.DepartureTime,
		"arrival_time":     opt.ArrivalTime,
		"price":            opt.Price,
		"duration_minutes": opt.DurationMinutes,
	} {
		if v == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return models.TransportOption{}, fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}

	price, err := asPrice(opt.Price)
	if err != nil {
		return models.TransportOption{}, fmt.Errorf("price: %v", err)
	}

	details := "{}"
	if len(opt.Details) > 0 {
		details = string(opt.Details)
	}

	return models.TransportOption{
		Mode:      asString(opt.Mode),
		Provider:  asString(opt.Provider),
		Departure: asString(opt.DepartureTime),
		Arrival:   asString(opt.ArrivalTime),
		Price:     price,
		Duration:  asString(opt.DurationMinutes),
		Details:   details,
	}, nil
}

func asString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// asPrice accepts a number or a numeric string and renders it normalized.
func asPrice(v interface{}) (string, error) {
	switch val := v.(type) {
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimPrefix(val, "$"), 64)
		if err != nil {
			return "", fmt.Errorf("not numeric: %q", val)
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}

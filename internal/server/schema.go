// internal/server/schema.go
package server

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "itinerary-planner/internal/common/errors"
)

// itineraryRequestSchema is the JSON Schema enforced on POST /api/itinerary
// bodies before any model-level validation runs.
const itineraryRequestSchema = `{
    "type": "object",
    "required": ["travel_input", "user_preferences"],
    "properties": {
        "travel_input": {
            "type": "object",
            "required": ["origin", "destination", "start_date", "return_date"],
            "properties": {
                "origin": {"type": "string", "minLength": 1},
                "destination": {"type": "string", "minLength": 1},
                "start_date": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
                "return_date": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"}
            }
        },
        "user_preferences": {
            "type": "object",
            "required": ["budget", "activities", "meal_preferences", "preferred_places"],
            "properties": {
                "budget": {"type": "number", "exclusiveMinimum": 0},
                "activities": {"type": "array", "items": {"type": "string"}},
                "meal_preferences": {"type": "array", "items": {"type": "string"}},
                "preferred_places": {"type": "array", "items": {"type": "string"}},
                "transport_preferences": {"type": "array", "items": {"type": "string"}},
                "accommodation_type": {"type": "string"}
            }
        }
    }
}`

var itinerarySchema = gojsonschema.NewStringLoader(itineraryRequestSchema)

// validateItineraryRequest runs the schema against the raw body.
func validateItineraryRequest(body []byte) error {
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(itinerarySchema, documentLoader)
	if err != nil {
		return apperrors.NewInvalidInputError(fmt.Sprintf("request body is not valid JSON: %v", err))
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			errs[i] = e.String()
		}
		return apperrors.NewInvalidInputError(strings.Join(errs, "; "))
	}
	return nil
}

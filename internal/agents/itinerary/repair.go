// internal/agents/itinerary/repair.go
package itinerary

import (
	"encoding/json"
	"regexp"
	"strings"

	apperrors "itinerary-planner/internal/common/errors"
)

var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

// Repair normalizes a raw model response into a string that parses as JSON.
//
// It extracts the interior of a ```json fenced block when present, strips
// trailing commas before closing braces/brackets, and trims whitespace. If
// the result still fails to parse, a second pass removes every character
// outside the printable ASCII range and parsing is retried once. A second
// failure is a Malformed-Response error; repair itself is never retried.
func Repair(raw string) (string, error) {
	cleaned := stripCodeFence(raw)
	cleaned = stripTrailingCommas(cleaned)
	cleaned = strings.TrimSpace(cleaned)

	if json.Valid([]byte(cleaned)) {
		return cleaned, nil
	}

	aggressive := stripNonPrintable(cleaned)
	if json.Valid([]byte(aggressive)) {
		return aggressive, nil
	}

	// Decode once more to surface the parser's own message in the error.
	var probe interface{}
	err := json.Unmarshal([]byte(aggressive), &probe)
	return "", apperrors.NewMalformedResponseError(err)
}

// stripCodeFence returns the interior of the first ```json fenced block, or
// the input unchanged when no such block exists.
func stripCodeFence(s string) string {
	_, after, found := strings.Cut(s, "```json")
	if !found {
		return s
	}
	interior, _, _ := strings.Cut(after, "```")
	return interior
}

// stripTrailingCommas drops commas that immediately precede a closing brace
// or bracket.
func stripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// stripNonPrintable removes every byte outside 0x20..0x7E.
func stripNonPrintable(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x20 && s[i] <= 0x7E {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

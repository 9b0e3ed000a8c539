// internal/agents/itinerary/relevance.go
package itinerary

import (
	"sort"
	"strconv"
	"strings"

	"itinerary-planner/internal/models"
)

// ScoredEvent pairs a candidate event with its relevance score.
type ScoredEvent struct {
	Event models.LocalEvent
	Score float64
}

// EventRelevance scores a candidate event against user interests and weather.
//
// The score starts at 1.0 and gains 1.0 for every interest that appears as a
// case-insensitive substring of the event category. If the event is outdoor
// and its date has a forecast entry, it loses 0.5 when the condition mentions
// rain and another 0.5 when the precipitation chance exceeds 50. Scores are
// unbounded and may go negative.
func EventRelevance(event models.LocalEvent, interests []string, forecast []models.WeatherInfo) float64 {
	score := 1.0

	category := strings.ToLower(event.Category)
	for _, interest := range interests {
		if interest != "" && strings.Contains(category, strings.ToLower(interest)) {
			score += 1.0
		}
	}

	for _, day := range forecast {
		if day.Date != event.Date {
			continue
		}
		if strings.Contains(strings.ToLower(event.Description), "outdoor") {
			if strings.Contains(strings.ToLower(day.Condition), "rain") {
				score -= 0.5
			}
			if chance, err := strconv.ParseFloat(day.PrecipitationChance, 64); err == nil && chance > 50 {
				score -= 0.5
			}
		}
		break
	}

	return score
}

// RankEvents scores every event and returns the top n in descending score
// order. The input slice is not modified.
func RankEvents(events []models.LocalEvent, interests []string, forecast []models.WeatherInfo, n int) []ScoredEvent {
	scored := make([]ScoredEvent, 0, len(events))
	for _, e := range events {
		scored = append(scored, ScoredEvent{
			Event: e,
			Score: EventRelevance(e, interests, forecast),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if n > 0 && len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

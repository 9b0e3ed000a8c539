// internal/models/trip_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTravelInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   TravelInput
		wantErr bool
	}{
		{
			name:  "valid window",
			input: TravelInput{Origin: "Paris", Destination: "Rome", StartDate: "2025-02-01", ReturnDate: "2025-02-05"},
		},
		{
			name:  "single day trip",
			input: TravelInput{Origin: "Paris", Destination: "Rome", StartDate: "2025-02-01", ReturnDate: "2025-02-01"},
		},
		{
			name:    "missing origin",
			input:   TravelInput{Destination: "Rome", StartDate: "2025-02-01", ReturnDate: "2025-02-05"},
			wantErr: true,
		},
		{
			name:    "bad start date format",
			input:   TravelInput{Origin: "Paris", Destination: "Rome", StartDate: "02/01/2025", ReturnDate: "2025-02-05"},
			wantErr: true,
		},
		{
			name:    "return before start",
			input:   TravelInput{Origin: "Paris", Destination: "Rome", StartDate: "2025-02-05", ReturnDate: "2025-02-01"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTravelInput_Days(t *testing.T) {
	input := TravelInput{StartDate: "2025-02-01", ReturnDate: "2025-02-05"}

	days, err := input.Days()

	require.NoError(t, err)
	// Both endpoints count.
	assert.Equal(t, 5, days)
}

func TestTravelInput_DaysSingleDay(t *testing.T) {
	input := TravelInput{StartDate: "2025-02-01", ReturnDate: "2025-02-01"}

	days, err := input.Days()

	require.NoError(t, err)
	assert.Equal(t, 1, days)
}

func TestTravelInput_DaysBadDate(t *testing.T) {
	input := TravelInput{StartDate: "soon", ReturnDate: "2025-02-01"}

	_, err := input.Days()

	assert.Error(t, err)
}

func TestUserPreferences_Validate(t *testing.T) {
	assert.NoError(t, UserPreferences{Budget: 2000}.Validate())
	assert.NoError(t, UserPreferences{Budget: 0}.Validate())
	assert.Error(t, UserPreferences{Budget: -1}.Validate())
}

func TestEstimatedCosts_Total(t *testing.T) {
	costs := EstimatedCosts{Activities: 100, Meals: 50, Transport: 20, Accommodation: 80}

	assert.Equal(t, 250.0, costs.Total())
}

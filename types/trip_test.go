package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTripStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   TripStatus
		expected bool
	}{
		{"planned is valid", TripStatusPlanned, true},
		{"ongoing is valid", TripStatusOngoing, true},
		{"completed is valid", TripStatusCompleted, true},
		{"invalid status", TripStatus("cancelled"), false},
		{"empty status", TripStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}

func TestTripStatus_IsValidTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     TripStatus
		to       TripStatus
		expected bool
	}{
		{"planned to ongoing", TripStatusPlanned, TripStatusOngoing, true},
		{"planned to completed", TripStatusPlanned, TripStatusCompleted, true},
		{"ongoing to completed", TripStatusOngoing, TripStatusCompleted, true},
		{"ongoing to planned", TripStatusOngoing, TripStatusPlanned, false},
		{"completed to planned", TripStatusCompleted, TripStatusPlanned, false},
		{"completed to ongoing", TripStatusCompleted, TripStatusOngoing, false},
		{"completed to completed", TripStatusCompleted, TripStatusCompleted, false},
		{"planned to planned", TripStatusPlanned, TripStatusPlanned, false},
		{"unknown status", TripStatus("cancelled"), TripStatusOngoing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.IsValidTransition(tt.to))
		})
	}
}

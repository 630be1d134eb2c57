package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/tripacker/tripacker-backend/internal/types"
)

func TestBuildPackingPrompt(t *testing.T) {
	pb := NewPromptBuilder(testLogger(t))

	maxWeight := 23.0
	luggage := datatypes.NewJSONType(types.Luggage{MaxWeight: &maxWeight, Dimensions: "55x40x20"})
	trip := &types.Trip{
		Destination:      "Lisbon",
		DurationDays:     5,
		NumAdults:        2,
		ChildrenAges:     datatypes.NewJSONSlice([]int{4}),
		Season:           types.SeasonSummer,
		Transport:        types.TransportPlane,
		Activities:       datatypes.NewJSONSlice([]string{"swimming"}),
		AvailableLuggage: &luggage,
	}

	system, user := pb.BuildPackingPrompt(trip)
	assert.Contains(t, system, "JSON array")
	assert.Contains(t, user, "Lisbon")
	assert.Contains(t, user, "5 day(s)")
	assert.Contains(t, user, "2 adult(s)")
	assert.Contains(t, user, "aged 4")
	assert.Contains(t, user, "summer")
	assert.Contains(t, user, "23.0 kg")
	assert.Contains(t, user, "55x40x20")
}

func TestBuildPackingPromptEscapesBraces(t *testing.T) {
	pb := NewPromptBuilder(testLogger(t))

	trip := &types.Trip{Destination: "Olso {weird}", DurationDays: 2, NumAdults: 1}
	_, user := pb.BuildPackingPrompt(trip)
	assert.Contains(t, user, "{{weird}}")
	assert.False(t, strings.Contains(user, "{weird}") && !strings.Contains(user, "{{weird}}"))
}

func TestBuildPackingPromptSystemInstructionFromEnv(t *testing.T) {
	t.Setenv("OPENROUTER_SYSTEM_PROMPT", "You are a terse packing robot.")

	pb := NewPromptBuilder(testLogger(t))
	system, _ := pb.BuildPackingPrompt(&types.Trip{Destination: "Bergen", DurationDays: 3, NumAdults: 1})
	assert.Equal(t, "You are a terse packing robot.", system)

	// The degraded path carries the override too.
	system, _ = pb.BuildPackingPrompt(nil)
	assert.Equal(t, "You are a terse packing robot.", system)
}

func TestBuildPackingPromptDegradesToMinimal(t *testing.T) {
	pb := NewPromptBuilder(testLogger(t))

	_, user := pb.BuildPackingPrompt(nil)
	require.Equal(t, minimalPackingPrompt, user)

	_, user = pb.BuildPackingPrompt(&types.Trip{Destination: "   "})
	require.Equal(t, minimalPackingPrompt, user)
}

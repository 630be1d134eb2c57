package services

import (
	"fmt"
	"strings"

	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/types"
	"github.com/tripacker/tripacker-backend/internal/utils"
)

// Default system instruction; operators can replace it through
// OPENROUTER_SYSTEM_PROMPT without a rebuild.
const packingSystemInstruction = "You are a travel packing assistant. " +
	"Reply with a JSON array of packing items only, no prose. " +
	"Each item is an object with fields: name (string), quantity (integer), " +
	"category (string), weight (kilograms, number, optional), dimensions " +
	"(\"WxHxD\" in centimeters, string, optional). " +
	"Allowed categories: Clothing, Hygiene, Toiletries, Documents, Electronics, " +
	"Health, Accessories, Unspecified."

const minimalPackingPrompt = "Produce a general-purpose packing list for a short trip. " +
	"Reply with a JSON array of {name, quantity, category} objects."

type PromptBuilder interface {
	// BuildPackingPrompt renders trip attributes into the user prompt. It
	// never fails; when the trip cannot be rendered it falls back to a
	// minimal generic prompt.
	BuildPackingPrompt(trip *types.Trip) (system string, user string)
}

type promptBuilder struct {
	log    *logger.Logger
	system string
}

func NewPromptBuilder(log *logger.Logger) PromptBuilder {
	promptLog := log.With("service", "PromptBuilder")
	return &promptBuilder{
		log:    promptLog,
		system: utils.GetEnv("OPENROUTER_SYSTEM_PROMPT", packingSystemInstruction, promptLog),
	}
}

func (pb *promptBuilder) BuildPackingPrompt(trip *types.Trip) (string, string) {
	if trip == nil || strings.TrimSpace(trip.Destination) == "" {
		pb.log.Warn("Trip not renderable, degrading to minimal prompt")
		return pb.system, minimalPackingPrompt
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a packing list for a trip to %s lasting %d day(s).\n",
		escapeBraces(trip.Destination), trip.DurationDays)
	fmt.Fprintf(&b, "Travelers: %d adult(s)", trip.NumAdults)
	if len(trip.ChildrenAges) > 0 {
		ages := make([]string, len(trip.ChildrenAges))
		for i, a := range trip.ChildrenAges {
			ages[i] = fmt.Sprintf("%d", a)
		}
		fmt.Fprintf(&b, " and %d child(ren) aged %s", len(trip.ChildrenAges), strings.Join(ages, ", "))
	}
	b.WriteString(".\n")

	if trip.Season != "" {
		fmt.Fprintf(&b, "Season: %s.\n", escapeBraces(trip.Season))
	}
	if trip.Accommodation != "" {
		fmt.Fprintf(&b, "Accommodation: %s.\n", escapeBraces(trip.Accommodation))
	}
	if trip.Transport != "" {
		fmt.Fprintf(&b, "Transport: %s.\n", escapeBraces(trip.Transport))
	}
	if len(trip.Activities) > 0 {
		escaped := make([]string, len(trip.Activities))
		for i, a := range trip.Activities {
			escaped[i] = escapeBraces(a)
		}
		fmt.Fprintf(&b, "Planned activities: %s.\n", strings.Join(escaped, ", "))
	}
	if trip.AvailableLuggage != nil {
		luggage := trip.AvailableLuggage.Data()
		if luggage.MaxWeight != nil {
			fmt.Fprintf(&b, "Luggage weight limit: %.1f kg.\n", *luggage.MaxWeight)
		}
		if luggage.Dimensions != "" {
			fmt.Fprintf(&b, "Luggage dimensions: %s.\n", escapeBraces(luggage.Dimensions))
		}
	}

	b.WriteString("Quantities are per adult; do not multiply for the group.\n")
	b.WriteString("Reply with the JSON array only.")
	return pb.system, b.String()
}

// escapeBraces doubles curly braces in free-text fields so user-supplied
// input cannot be mistaken for template placeholders downstream.
func escapeBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "{{")
	return strings.ReplaceAll(s, "}", "}}")
}

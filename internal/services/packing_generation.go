package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/tripacker/tripacker-backend/internal/llmparse"
	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/types"
)

// ErrUnusableCompletion marks a reply the parser could not salvage anything
// from. Callers treat it like any other generation failure and substitute the
// fallback list.
var ErrUnusableCompletion = errors.New("unusable completion")

// ItemDraft is a packing-list entry before persistence. ItemID is set only
// for entries that came from a special list and reference the item catalog.
type ItemDraft struct {
	ItemID     *uuid.UUID
	Name       string
	Quantity   int
	Category   string
	Weight     *float64
	Dimensions string
}

type PackingGenerator interface {
	// Generate produces the draft packing list for a trip: model output,
	// activity kits, then special-list entries, filtered by excluded
	// categories and scaled to the traveler count.
	Generate(ctx context.Context, trip *types.Trip, specialLists []*types.SpecialList, excludeCategories []string) ([]ItemDraft, error)
}

type packingGenerator struct {
	log    *logger.Logger
	llm    LLMClient
	prompt PromptBuilder
}

func NewPackingGenerator(log *logger.Logger, llm LLMClient, prompt PromptBuilder) PackingGenerator {
	return &packingGenerator{
		log:    log.With("service", "PackingGenerator"),
		llm:    llm,
		prompt: prompt,
	}
}

// activityKits are appended for activities the model tends to under-pack for.
var activityKits = map[string][]ItemDraft{
	"sightseeing": {
		{Name: "Comfortable Walking Shoes", Quantity: 1, Category: "Clothing"},
		{Name: "Daypack", Quantity: 1, Category: "Accessories"},
		{Name: "City Guidebook", Quantity: 1, Category: "Accessories"},
	},
	"swimming": {
		{Name: "Swimsuit", Quantity: 1, Category: "Clothing"},
		{Name: "Beach Towel", Quantity: 1, Category: "Hygiene"},
		{Name: "Flip-flops", Quantity: 1, Category: "Clothing"},
		{Name: "Sunscreen", Quantity: 1, Category: "Hygiene"},
	},
	"hiking": {
		{Name: "Hiking Boots", Quantity: 1, Category: "Clothing"},
		{Name: "Water Bottle", Quantity: 1, Category: "Accessories"},
		{Name: "Trail First Aid Kit", Quantity: 1, Category: "Health"},
		{Name: "Rain Jacket", Quantity: 1, Category: "Clothing"},
	},
}

// scaledCategories are multiplied by the traveler count; everything else is
// shared group equipment and keeps its quantity.
var scaledCategories = map[string]bool{
	"clothing":   true,
	"hygiene":    true,
	"toiletries": true,
}

// FallbackDrafts is the fixed substitute list used when generation fails
// outright. It is intentionally never excluded or scaled.
func FallbackDrafts() []ItemDraft {
	return []ItemDraft{
		{Name: "Toothbrush", Quantity: 1, Category: "Hygiene"},
		{Name: "Passport", Quantity: 1, Category: "Documents"},
		{Name: "Phone Charger", Quantity: 1, Category: "Electronics"},
		{Name: "First Aid Kit", Quantity: 1, Category: "Health"},
	}
}

func (pg *packingGenerator) Generate(ctx context.Context, trip *types.Trip, specialLists []*types.SpecialList, excludeCategories []string) ([]ItemDraft, error) {
	system, user := pg.prompt.BuildPackingPrompt(trip)

	reply, err := pg.llm.Complete(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("completing packing prompt: %w", err)
	}

	parsed := llmparse.Parse(reply)
	if len(parsed) == 0 {
		pg.log.Warn("No items recoverable from completion", "tripID", trip.ID, "replyLength", len(reply))
		return nil, ErrUnusableCompletion
	}

	drafts := lo.Map(parsed, func(it llmparse.Item, _ int) ItemDraft {
		return ItemDraft{
			Name:       it.Name,
			Quantity:   it.Quantity,
			Category:   it.Category,
			Weight:     it.Weight,
			Dimensions: it.Dimensions,
		}
	})

	drafts = appendActivityKits(drafts, trip.Activities)
	drafts = append(drafts, specialListDrafts(specialLists)...)
	drafts = dropExcluded(drafts, excludeCategories)
	drafts = scaleQuantities(drafts, trip)

	pg.log.Info("Packing list generated", "tripID", trip.ID, "itemCount", len(drafts))
	return drafts, nil
}

func appendActivityKits(drafts []ItemDraft, activities []string) []ItemDraft {
	seen := make(map[string]bool, len(drafts))
	for _, d := range drafts {
		seen[strings.ToLower(d.Name)] = true
	}
	for _, activity := range activities {
		kit, ok := activityKits[strings.ToLower(strings.TrimSpace(activity))]
		if !ok {
			continue
		}
		for _, d := range kit {
			key := strings.ToLower(d.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			drafts = append(drafts, d)
		}
	}
	return drafts
}

// specialListDrafts snapshots every special-list entry. Entries whose catalog
// item has been removed still travel along under a sentinel name; the item_id
// reference is kept either way.
func specialListDrafts(specialLists []*types.SpecialList) []ItemDraft {
	var drafts []ItemDraft
	for _, list := range specialLists {
		for _, entry := range list.Items {
			itemID := entry.ItemID
			draft := ItemDraft{
				ItemID:   &itemID,
				Name:     "Custom Item",
				Quantity: entry.Quantity,
				Category: llmparse.CanonicalCategory(list.Category),
			}
			if entry.Item != nil {
				draft.Name = entry.Item.Name
				draft.Category = llmparse.CanonicalCategory(entry.Item.Category)
				draft.Weight = entry.Item.Weight
				draft.Dimensions = entry.Item.Dimensions
			}
			drafts = append(drafts, draft)
		}
	}
	return drafts
}

func dropExcluded(drafts []ItemDraft, excludeCategories []string) []ItemDraft {
	if len(excludeCategories) == 0 {
		return drafts
	}
	excluded := make(map[string]bool, len(excludeCategories))
	for _, c := range excludeCategories {
		excluded[strings.ToLower(llmparse.CanonicalCategory(c))] = true
	}
	return lo.Filter(drafts, func(d ItemDraft, _ int) bool {
		return !excluded[strings.ToLower(d.Category)]
	})
}

func scaleQuantities(drafts []ItemDraft, trip *types.Trip) []ItemDraft {
	children := len(trip.ChildrenAges)
	for i := range drafts {
		if !scaledCategories[strings.ToLower(drafts[i].Category)] {
			continue
		}
		drafts[i].Quantity = drafts[i].Quantity*trip.NumAdults + children
		if drafts[i].Quantity < 1 {
			drafts[i].Quantity = 1
		}
	}
	return drafts
}

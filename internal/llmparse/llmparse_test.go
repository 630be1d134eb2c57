package llmparse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCleanArray(t *testing.T) {
	raw := `[
		{"name": "T-shirt", "quantity": 3, "category": "Clothing", "weight": 0.2},
		{"name": "Passport", "quantity": 1, "category": "Documents"}
	]`
	items := Parse(raw)
	require.Len(t, items, 2)
	assert.Equal(t, "T-shirt", items[0].Name)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "Clothing", items[0].Category)
	require.NotNil(t, items[0].Weight)
	assert.InDelta(t, 0.2, *items[0].Weight, 1e-9)
	assert.Equal(t, "Documents", items[1].Category)
	assert.Nil(t, items[1].Weight)
}

func TestParseStripsMarkdownFences(t *testing.T) {
	raw := "```json\n[{\"name\": \"Sunscreen\", \"quantity\": 1, \"category\": \"Hygiene\"}]\n```"
	items := Parse(raw)
	require.Len(t, items, 1)
	assert.Equal(t, "Sunscreen", items[0].Name)
}

func TestParseExtractsArrayFromProse(t *testing.T) {
	raw := `Here is your packing list:
[{"name": "Towel", "quantity": 2, "category": "Hygiene"}]
Let me know if you need anything else!`
	items := Parse(raw)
	require.Len(t, items, 1)
	assert.Equal(t, "Towel", items[0].Name)
}

func TestParseTruncatedReply(t *testing.T) {
	// Reply cut off mid-object: the complete records survive, the tail is
	// dropped.
	raw := `[{"name": "Socks", "quantity": 4, "category": "Clothing"}, {"name": "Char`
	items := Parse(raw)
	require.Len(t, items, 1)
	assert.Equal(t, "Socks", items[0].Name)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestParseTrailingCommas(t *testing.T) {
	raw := `[{"name": "Hat", "quantity": 1, "category": "Accessories",},]`
	items := Parse(raw)
	require.Len(t, items, 1)
	assert.Equal(t, "Hat", items[0].Name)
}

func TestParseMissingClosers(t *testing.T) {
	raw := `[{"name": "Jacket", "quantity": 1, "category": "Clothing"}`
	items := Parse(raw)
	require.Len(t, items, 1)
	assert.Equal(t, "Jacket", items[0].Name)
}

func TestParseRegexFallback(t *testing.T) {
	// No array at all, but the object pattern is still recognizable.
	raw := `name: list
{"name": "Charger", "quantity": 1, "category": "Electronics"}
{"name": "Adapter", "quantity": "2", "category": "Electronics", "weight": "0.1"}
{"quantity": 9, "category": "Orphan"}`
	items := Parse(raw)
	require.Len(t, items, 2)
	assert.Equal(t, "Charger", items[0].Name)
	assert.Equal(t, 2, items[1].Quantity)
	require.NotNil(t, items[1].Weight)
	assert.InDelta(t, 0.1, *items[1].Weight, 1e-9)
}

func TestParseUnrecoverableReturnsEmpty(t *testing.T) {
	assert.Empty(t, Parse("I cannot help with that request."))
	assert.Empty(t, Parse(""))
}

func TestParseNormalization(t *testing.T) {
	raw := `[
		{"name": "  Comb ", "quantity": "not a number", "weight": "heavy"},
		{"name": "Soap", "quantity": 0, "category": ""},
		{"quantity": 2, "category": "Clothing"},
		{"name": "Scarf", "quantity": 2.9, "category": "kosmetyki"},
		{"name": "Belt", "quantity": -2, "category": "Accessories"}
	]`
	items := Parse(raw)
	require.Len(t, items, 4)

	assert.Equal(t, "Comb", items[0].Name)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Nil(t, items[0].Weight)
	assert.Equal(t, CategoryUnspecified, items[0].Category)

	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, CategoryUnspecified, items[1].Category)

	assert.Equal(t, "Scarf", items[2].Name)
	assert.Equal(t, 2, items[2].Quantity)
	assert.Equal(t, "Hygiene", items[2].Category)

	assert.Equal(t, "Belt", items[3].Name)
	assert.Equal(t, 1, items[3].Quantity)
}

func TestRepairJSONValidInputUnchanged(t *testing.T) {
	in := `[{"name": "x", "nested": {"a": [1, 2]}}]`
	assert.Equal(t, in, RepairJSON(in))
}

func TestRepairJSONIdempotent(t *testing.T) {
	inputs := []string{
		`[{"name": "a", "quantity": 1,}`,
		`[{"name": "a"}, {"name": "b"`,
		`[{"name": "a", "tags": ["x", "y"`,
	}
	for _, in := range inputs {
		once := RepairJSON(in)
		require.True(t, json.Valid([]byte(once)), "first pass should yield valid JSON for %q", in)
		assert.Equal(t, once, RepairJSON(once))
	}
}

func TestRepairJSONIgnoresBracketsInStrings(t *testing.T) {
	in := `[{"name": "bag [small]", "dimensions": "{40x30x20}"}`
	out := RepairJSON(in)
	require.True(t, json.Valid([]byte(out)))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "bag [small]", decoded[0]["name"])
}

func TestCanonicalCategory(t *testing.T) {
	assert.Equal(t, "Clothing", CanonicalCategory("ubrania"))
	assert.Equal(t, "Clothing", CanonicalCategory("CLOTHING"))
	assert.Equal(t, "Hygiene", CanonicalCategory("Kosmetyki"))
	assert.Equal(t, "Health", CanonicalCategory("apteczka"))
	assert.Equal(t, CategoryUnspecified, CanonicalCategory("inne"))
	assert.Equal(t, CategoryUnspecified, CanonicalCategory("  "))
	assert.Equal(t, "Snorkeling Gear", CanonicalCategory("Snorkeling Gear"))
}

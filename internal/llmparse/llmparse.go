// Package llmparse recovers structured packing items from the semi-structured
// replies a language model produces. Model output routinely violates strict
// JSON syntax: wrapped in markdown fences, missing closing brackets, trailing
// commas, or truncated mid-object. The repair pipeline here is deliberately
// forgiving; an unrecoverable reply yields an empty sequence, never an error.
package llmparse

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

const CategoryUnspecified = "Unspecified"

// Item is one recovered packing-item record. Name is the only required
// field; everything else is normalized or defaulted at this boundary.
type Item struct {
	Name       string
	Quantity   int
	Category   string
	Weight     *float64
	Dimensions string
}

var (
	fenceRe    = regexp.MustCompile("(?s)```(?:[a-zA-Z]+)?\\s*(.*?)\\s*```")
	arrayRe    = regexp.MustCompile(`(?s)\[.*\]`)
	trailingRe = regexp.MustCompile(`,\s*([}\]])`)

	objRe      = regexp.MustCompile(`\{[^{}]*\}`)
	nameRe     = regexp.MustCompile(`"name"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	quantityRe = regexp.MustCompile(`"quantity"\s*:\s*"?(-?\d+)"?`)
	categoryRe = regexp.MustCompile(`"category"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	weightRe   = regexp.MustCompile(`"weight"\s*:\s*"?(-?\d+(?:\.\d+)?)"?`)
	dimsRe     = regexp.MustCompile(`"dimensions"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// Polish labels appeared in earlier revisions of the upstream prompt; the
// canonical internal vocabulary is English and mapping happens only here.
var categoryAliases = map[string]string{
	"clothing":    "Clothing",
	"ubrania":     "Clothing",
	"odziez":      "Clothing",
	"odzież":      "Clothing",
	"hygiene":     "Hygiene",
	"higiena":     "Hygiene",
	"kosmetyki":   "Hygiene",
	"toiletries":  "Toiletries",
	"documents":   "Documents",
	"dokumenty":   "Documents",
	"electronics": "Electronics",
	"elektronika": "Electronics",
	"health":      "Health",
	"zdrowie":     "Health",
	"apteczka":    "Health",
	"accessories": "Accessories",
	"akcesoria":   "Accessories",
	"inne":        CategoryUnspecified,
	"other":       CategoryUnspecified,
}

// Parse runs the full recovery pipeline on a raw model reply and returns the
// ordered item records it could salvage.
func Parse(raw string) []Item {
	text := stripFences(raw)
	if arr := arrayRe.FindString(text); arr != "" {
		text = arr
	}
	repaired := RepairJSON(text)

	var decoded []any
	if err := json.Unmarshal([]byte(repaired), &decoded); err != nil {
		return scanObjects(text)
	}

	items := make([]Item, 0, len(decoded))
	for _, el := range decoded {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if it, ok := normalizeRecord(m); ok {
			items = append(items, it)
		}
	}
	return items
}

// RepairJSON applies textual repairs in a fixed order: trailing-comma removal,
// bracket balancing, then trimming of an incomplete trailing object. Input
// that is already valid JSON is returned byte-for-byte unchanged.
func RepairJSON(raw string) string {
	if json.Valid([]byte(raw)) {
		return raw
	}

	fixed := trailingRe.ReplaceAllString(raw, "$1")
	if json.Valid([]byte(fixed)) {
		return fixed
	}

	closed := fixed + missingClosers(fixed)
	if json.Valid([]byte(closed)) {
		return closed
	}

	// The tail may be an object cut off mid-stream that no number of closers
	// can fix. Drop everything past the last complete object and re-close.
	if i := strings.LastIndex(fixed, "}"); i >= 0 {
		trimmed := trailingRe.ReplaceAllString(fixed[:i+1], "$1")
		trimmed += missingClosers(trimmed)
		if json.Valid([]byte(trimmed)) {
			return trimmed
		}
	}
	return closed
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	// An opening fence without its closing pair still needs to go.
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	return strings.TrimSpace(s)
}

// missingClosers returns the closers for every { and [ left unmatched at the
// end of s, innermost first. Brackets inside string literals are ignored.
func missingClosers(s string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{', '[':
			if !inString {
				stack = append(stack, c)
			}
		case '}', ']':
			if !inString && len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	var b strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

// scanObjects is the second-pass recovery: a flat regex scan over whatever
// text is left, reconstructing records from objects that carry at least the
// name, quantity and category fields.
func scanObjects(text string) []Item {
	var items []Item
	for _, obj := range objRe.FindAllString(text, -1) {
		name := nameRe.FindStringSubmatch(obj)
		qty := quantityRe.FindStringSubmatch(obj)
		cat := categoryRe.FindStringSubmatch(obj)
		if name == nil || qty == nil || cat == nil {
			continue
		}
		m := map[string]any{
			"name":     name[1],
			"quantity": qty[1],
			"category": cat[1],
		}
		if w := weightRe.FindStringSubmatch(obj); w != nil {
			m["weight"] = w[1]
		}
		if d := dimsRe.FindStringSubmatch(obj); d != nil {
			m["dimensions"] = d[1]
		}
		if it, ok := normalizeRecord(m); ok {
			items = append(items, it)
		}
	}
	return items
}

func normalizeRecord(m map[string]any) (Item, bool) {
	name := strings.TrimSpace(asString(m["name"]))
	if name == "" {
		return Item{}, false
	}
	it := Item{
		Name:       name,
		Quantity:   coerceQuantity(m["quantity"]),
		Category:   CanonicalCategory(asString(m["category"])),
		Weight:     coerceWeight(m["weight"]),
		Dimensions: strings.TrimSpace(asString(m["dimensions"])),
	}
	return it, true
}

// CanonicalCategory maps a model- or user-supplied category label onto the
// canonical vocabulary. Unknown labels pass through trimmed; absent ones
// become the unspecified sentinel.
func CanonicalCategory(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CategoryUnspecified
	}
	if canonical, ok := categoryAliases[strings.ToLower(raw)]; ok {
		return canonical
	}
	return raw
}

func coerceQuantity(v any) int {
	switch t := v.(type) {
	case float64:
		if q := int(t); q >= 1 {
			return q
		}
	case int:
		if t >= 1 {
			return t
		}
	case string:
		if q, err := strconv.Atoi(strings.TrimSpace(t)); err == nil && q >= 1 {
			return q
		}
	}
	return 1
}

// coerceWeight drops unparsable weights rather than defaulting them; a wrong
// zero weight is worse than no weight.
func coerceWeight(v any) *float64 {
	switch t := v.(type) {
	case float64:
		if t >= 0 {
			return &t
		}
	case string:
		if w, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil && w >= 0 {
			return &w
		}
	}
	return nil
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

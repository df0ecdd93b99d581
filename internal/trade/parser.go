package trade

import (
	"regexp"
	"strconv"

	"barkeep/internal/domain"
)

// Entry is one parsed item request: a name (or id) and a quantity.
type Entry struct {
	Name   string
	Amount float64
}

// ParsedItems groups parsed entries by kind.
type ParsedItems map[domain.ItemKind][]Entry

// Token shapes: "kind:name:quantity" or "kind name" (quantity defaults to 1).
// Kind accepts short (d, g, i) and long (drink, glass, ingredient) forms.
var tokenPattern = regexp.MustCompile(`([A-Za-z]+)[: ]+([\w ]+):*(\d+)?`)

// ParseItems extracts typed item quantities from a free-text trade string.
// Tokens with an unrecognized kind or a non-positive amount are silently
// dropped; that leniency is part of the contract, not an error.
func ParseItems(input string) ParsedItems {
	out := ParsedItems{
		domain.KindIngredient: nil,
		domain.KindDrink:      nil,
		domain.KindGlass:      nil,
	}

	for _, match := range tokenPattern.FindAllStringSubmatch(input, -1) {
		kind, ok := domain.ParseItemKind(match[1])
		if !ok {
			continue
		}

		amount := 1.0
		if match[3] != "" {
			parsed, err := strconv.Atoi(match[3])
			if err != nil {
				continue
			}
			amount = float64(parsed)
		}
		if amount <= 0 {
			continue
		}

		out[kind] = append(out[kind], Entry{Name: match[2], Amount: amount})
	}

	return out
}

// Empty reports whether nothing parseable was found.
func (p ParsedItems) Empty() bool {
	for _, entries := range p {
		if len(entries) > 0 {
			return false
		}
	}
	return true
}

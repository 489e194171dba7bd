// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingredient canonicalizes raw ingredient strings into base
// ingredient keys. The key is the single unit of comparison used by
// similarity scoring, missing-ingredient matching and suggestions, so
// Normalize must behave identically at training time and query time.
package ingredient

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/recipe-engine/pkg/types"
)

// parenthetical matches one parenthesized comment, e.g. "(gehackt)".
var parenthetical = regexp.MustCompile(`\([^)]*\)`)

// Normalize reduces a raw ingredient string to its base ingredient key:
// lower-cased, parenthesized comments removed, qualifiers after the first
// comma dropped, surrounding whitespace trimmed. Deliberately a cheap
// lexical policy, not NLP; no stemming.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = parenthetical.ReplaceAllString(s, "")
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// NormalizeAll maps Normalize over a list, dropping entries that normalize
// to the empty string.
func NormalizeAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if key := Normalize(r); key != "" {
			out = append(out, key)
		}
	}
	return out
}

// KeySet returns the set of base ingredient keys for a recipe's lines.
func KeySet(lines []types.IngredientLine) map[string]struct{} {
	set := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if key := Normalize(line.Ingredient); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

// Text joins the normalized base ingredients of a recipe's lines into one
// string, source order preserved and duplicates kept. This is the document
// the feature builder vectorizes.
func Text(lines []types.IngredientLine) string {
	keys := make([]string, 0, len(lines))
	for _, line := range lines {
		if key := Normalize(line.Ingredient); key != "" {
			keys = append(keys, key)
		}
	}
	return strings.Join(keys, " ")
}

var fractionReplacer = strings.NewReplacer("¼", ".25", "½", ".5", "¾", ".75")

// ParseAmount interprets a quantity string from a corpus record. It handles
// decimal commas ("1,5"), unicode fractions ("½", "1½") and ranges
// ("1-2", averaged). Anything else keeps the original text.
func ParseAmount(text string) types.Amount {
	s := strings.TrimSpace(text)
	if s == "" {
		return types.Unparsed(text)
	}

	if v, err := parseNumber(s); err == nil {
		return types.Number(v)
	}

	if strings.ContainsAny(s, "-–") {
		parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '–' })
		if len(parts) == 2 {
			lo, errLo := parseNumber(strings.TrimSpace(parts[0]))
			hi, errHi := parseNumber(strings.TrimSpace(parts[1]))
			if errLo == nil && errHi == nil {
				return types.Number((lo + hi) / 2)
			}
		}
	}

	return types.Unparsed(text)
}

// parseNumber parses a single quantity, accepting decimal commas and
// unicode fraction glyphs (a bare "½" as well as a suffixed "1½").
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(fractionReplacer.Replace(s))
	s = strings.ReplaceAll(s, ",", ".")
	// "1 ½" leaves a gap between the integer and fraction parts.
	s = strings.ReplaceAll(s, " .", ".")
	return strconv.ParseFloat(s, 64)
}

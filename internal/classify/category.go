// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"sort"
	"strings"
)

// Category labels used when the corpus carries none of its own.
const (
	CategoryPastry    = "Pastry"
	CategoryMeat      = "Meat Dish"
	CategoryFish      = "Fish Dish"
	CategoryVegetable = "Vegetable Dish"
	CategoryOther     = "Other"
)

// categoryRule assigns a label when any keyword (or, when allOf is set, the
// allOf keyword plus any keyword) occurs in the ingredients text.
type categoryRule struct {
	label    string
	allOf    string
	keywords []string
}

// categoryRules are evaluated top to bottom, first match wins. Keywords
// cover both the German source corpus and their English equivalents.
var categoryRules = []categoryRule{
	{label: CategoryPastry, allOf: "mehl|flour", keywords: []string{"zucker", "sugar", "schokolade", "chocolate"}},
	{label: CategoryMeat, keywords: []string{"fleisch", "meat", "huhn", "chicken", "rind", "beef"}},
	{label: CategoryFish, keywords: []string{"fisch", "fish", "lachs", "salmon"}},
	{label: CategoryVegetable, keywords: []string{"gemüse", "vegetable", "tomate", "tomato", "salat", "salad"}},
}

// AssignCategory synthesizes a category label from a recipe's normalized
// ingredients text.
func AssignCategory(ingredientsText string) string {
	for _, rule := range categoryRules {
		if rule.allOf != "" && !containsAny(ingredientsText, strings.Split(rule.allOf, "|")) {
			continue
		}
		if containsAny(ingredientsText, rule.keywords) {
			return rule.label
		}
	}
	return CategoryOther
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// CategoryMap is the bijection between category labels and dense ids,
// derived once from the corpus at training time and stable for the lifetime
// of a trained engine.
type CategoryMap struct {
	ByLabel map[string]int
	Labels  []string
}

// NewCategoryMap assigns dense ids over the sorted distinct labels.
func NewCategoryMap(labels []string) *CategoryMap {
	distinct := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		distinct[l] = struct{}{}
	}
	sorted := make([]string, 0, len(distinct))
	for l := range distinct {
		sorted = append(sorted, l)
	}
	sort.Strings(sorted)

	byLabel := make(map[string]int, len(sorted))
	for id, l := range sorted {
		byLabel[l] = id
	}
	return &CategoryMap{ByLabel: byLabel, Labels: sorted}
}

// ID returns the dense id for a label, -1 when unknown.
func (m *CategoryMap) ID(label string) int {
	if id, ok := m.ByLabel[label]; ok {
		return id
	}
	return -1
}

// Label returns the label for a dense id, "" when out of range.
func (m *CategoryMap) Label(id int) string {
	if id < 0 || id >= len(m.Labels) {
		return ""
	}
	return m.Labels[id]
}

// Len returns the number of categories.
func (m *CategoryMap) Len() int { return len(m.Labels) }

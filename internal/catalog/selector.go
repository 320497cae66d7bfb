package catalog

import "strings"

// Reserved selector values.
const (
	// SelectorAll matches every item.
	SelectorAll = "all"
	// SelectorSaved matches only items in the saved set.
	SelectorSaved = "Saved Tools"
	// AllSubcategories, used as the child part of a compound selector,
	// matches every item of the parent category.
	AllSubcategories = "all"
)

// SelectorKind classifies a category selector.
type SelectorKind int

const (
	KindAll SelectorKind = iota
	KindSaved
	KindCategory
	KindSubcategory
)

// Selector is a parsed category selector. Raw keeps the original string,
// which is also the key used in the expansion set.
type Selector struct {
	Raw         string
	Kind        SelectorKind
	Category    string
	Subcategory string
}

// ParseSelector classifies raw. The empty string is treated as "all".
// Compound selectors are split at the first ':' into parent and child.
func ParseSelector(raw string) Selector {
	switch {
	case raw == "" || raw == SelectorAll:
		return Selector{Raw: raw, Kind: KindAll}
	case raw == SelectorSaved:
		return Selector{Raw: raw, Kind: KindSaved}
	}
	if parent, sub, ok := strings.Cut(raw, ":"); ok {
		return Selector{Raw: raw, Kind: KindSubcategory, Category: parent, Subcategory: sub}
	}
	return Selector{Raw: raw, Kind: KindCategory, Category: raw}
}

// Compound builds the selector string for a subcategory of parent.
func Compound(parent, sub string) string {
	return parent + ":" + sub
}

package catalog

import (
	"strings"

	pkgcatalog "github.com/HerbHall/toolhub/pkg/catalog"
)

// DefaultPageSize is the number of items shown before "show more".
const DefaultPageSize = 9

// Set is a string set used for saved item ids and expanded selectors.
type Set map[string]struct{}

// NewSet returns a Set holding keys.
func NewSet(keys ...string) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether key is in the set. A nil Set is empty.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Filter reduces items to those matching the search term or, when the search
// term is blank, the category selector. Search overrides the selector: a
// non-empty term searches the whole catalog. Input order is preserved and the
// input slice is never modified.
func Filter(items []pkgcatalog.Item, searchTerm, selector string, saved Set) []pkgcatalog.Item {
	if term := strings.TrimSpace(searchTerm); term != "" {
		needle := strings.ToLower(term)
		return keep(items, func(it *pkgcatalog.Item) bool {
			return strings.Contains(strings.ToLower(it.Name), needle) ||
				strings.Contains(strings.ToLower(it.Description), needle)
		})
	}

	sel := ParseSelector(selector)
	switch sel.Kind {
	case KindSaved:
		return keep(items, func(it *pkgcatalog.Item) bool { return saved.Has(it.ID) })
	case KindSubcategory:
		if sel.Subcategory == AllSubcategories {
			return keep(items, func(it *pkgcatalog.Item) bool { return it.Category == sel.Category })
		}
		return keep(items, func(it *pkgcatalog.Item) bool {
			return it.Category == sel.Category && it.Subcategory == sel.Subcategory
		})
	case KindCategory:
		return keep(items, func(it *pkgcatalog.Item) bool { return it.Category == sel.Category })
	default:
		return keep(items, func(*pkgcatalog.Item) bool { return true })
	}
}

func keep(items []pkgcatalog.Item, match func(*pkgcatalog.Item) bool) []pkgcatalog.Item {
	result := make([]pkgcatalog.Item, 0, len(items))
	for i := range items {
		if match(&items[i]) {
			result = append(result, items[i])
		}
	}
	return result
}

// Rank moves items whose category matches a declared interest ahead of the
// rest. It is a stable two-bucket partition: relative order inside each bucket
// is the input order. Blank interests never match.
func Rank(items []pkgcatalog.Item, interests []string) []pkgcatalog.Item {
	needles := normalizeInterests(interests)
	if len(needles) == 0 {
		return keep(items, func(*pkgcatalog.Item) bool { return true })
	}

	preferred := make([]pkgcatalog.Item, 0, len(items))
	var rest []pkgcatalog.Item
	for i := range items {
		if matchesInterest(items[i].Category, needles) {
			preferred = append(preferred, items[i])
		} else {
			rest = append(rest, items[i])
		}
	}
	return append(preferred, rest...)
}

func normalizeInterests(interests []string) []string {
	needles := make([]string, 0, len(interests))
	for _, in := range interests {
		if n := strings.ToLower(strings.TrimSpace(in)); n != "" {
			needles = append(needles, n)
		}
	}
	return needles
}

// matchesInterest reports whether category equals or contains any needle,
// case-insensitively. Equality is a special case of containment.
func matchesInterest(category string, needles []string) bool {
	cat := strings.ToLower(category)
	for _, n := range needles {
		if strings.Contains(cat, n) {
			return true
		}
	}
	return false
}

// Disclose applies the "show more" policy. The full list is returned while a
// search is active or once selector has been expanded; otherwise only the
// first pageSize items are.
func Disclose(ranked []pkgcatalog.Item, selector string, expanded Set, searchActive bool, pageSize int) []pkgcatalog.Item {
	if pageSize < 0 {
		pageSize = 0
	}
	if searchActive || expanded.Has(selector) || len(ranked) <= pageSize {
		return ranked
	}
	return ranked[:pageSize:pageSize]
}

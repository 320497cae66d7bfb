package testutil

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/HerbHall/toolhub/pkg/catalog"
)

// NewItem returns a catalog Item with sensible defaults, suitable for test fixtures.
// Override individual fields with options.
func NewItem(opts ...func(*catalog.Item)) catalog.Item {
	it := catalog.Item{
		ID:          uuid.New().String(),
		Name:        "Test Tool",
		Description: "A tool used in tests.",
		Category:    "AI Writing",
		URL:         "https://example.com/tool",
		Rating:      4.0,
		Pricing:     "Free",
	}
	for _, opt := range opts {
		opt(&it)
	}
	return it
}

// Items returns n items in category with ids "<prefix>-<i>" for i in [1, n].
func Items(n int, prefix, category string) []catalog.Item {
	out := make([]catalog.Item, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("%s-%d", prefix, i)
		out = append(out, NewItem(WithID(id), WithName(id), WithCategory(category)))
	}
	return out
}

// WithID sets the item id.
func WithID(id string) func(*catalog.Item) {
	return func(it *catalog.Item) { it.ID = id }
}

// WithName sets the item name.
func WithName(name string) func(*catalog.Item) {
	return func(it *catalog.Item) { it.Name = name }
}

// WithDescription sets the item description.
func WithDescription(desc string) func(*catalog.Item) {
	return func(it *catalog.Item) { it.Description = desc }
}

// WithCategory sets the item category.
func WithCategory(cat string) func(*catalog.Item) {
	return func(it *catalog.Item) { it.Category = cat }
}

// WithSubcategory sets the item subcategory.
func WithSubcategory(sub string) func(*catalog.Item) {
	return func(it *catalog.Item) { it.Subcategory = sub }
}

// IDs returns the ids of items in order.
func IDs(items []catalog.Item) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

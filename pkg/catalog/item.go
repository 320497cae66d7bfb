// Package catalog defines the tool catalog records and the sources that load
// them: the embedded default catalog and an optional hot-reloaded YAML file.
package catalog

// Item is a single catalog entry (a "tool"). Items are immutable once loaded;
// identity is ID.
type Item struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Category    string   `yaml:"category" json:"category"`
	Subcategory string   `yaml:"subcategory,omitempty" json:"subcategory,omitempty"`
	URL         string   `yaml:"url" json:"url"`
	Rating      float64  `yaml:"rating" json:"rating"`
	Pricing     string   `yaml:"pricing" json:"pricing"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Source supplies the catalog snapshot used for a single query.
// Implementations must return a slice the caller is free to modify.
type Source interface {
	Items() ([]Item, error)
}

// CategoryNode is one top-level category with its subcategories, in catalog order.
type CategoryNode struct {
	Name          string            `json:"name"`
	Count         int               `json:"count"`
	Subcategories []SubcategoryNode `json:"subcategories,omitempty"`
}

// SubcategoryNode is a subcategory and the number of items filed under it.
type SubcategoryNode struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Tree groups items by category and subcategory, preserving the order in
// which each name first appears in the catalog.
func Tree(items []Item) []CategoryNode {
	var nodes []CategoryNode
	index := make(map[string]int)
	subIndex := make(map[string]map[string]int)

	for i := range items {
		cat := items[i].Category
		pos, ok := index[cat]
		if !ok {
			pos = len(nodes)
			index[cat] = pos
			subIndex[cat] = make(map[string]int)
			nodes = append(nodes, CategoryNode{Name: cat})
		}
		nodes[pos].Count++

		sub := items[i].Subcategory
		if sub == "" {
			continue
		}
		subPos, ok := subIndex[cat][sub]
		if !ok {
			subPos = len(nodes[pos].Subcategories)
			subIndex[cat][sub] = subPos
			nodes[pos].Subcategories = append(nodes[pos].Subcategories, SubcategoryNode{Name: sub})
		}
		nodes[pos].Subcategories[subPos].Count++
	}
	return nodes
}

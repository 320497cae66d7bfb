package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogRawData []byte

// ErrInvalidCatalog is returned when catalog data fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// catalogFile is the top-level structure of a catalog YAML document.
type catalogFile struct {
	Items []Item `yaml:"items"`
}

// Compile-time interface guard.
var _ Source = (*Catalog)(nil)

// Catalog provides lazy-loaded access to a static catalog document.
type Catalog struct {
	raw   []byte
	once  sync.Once
	items []Item
	err   error
}

// NewCatalog creates a Catalog that parses the embedded YAML on first access.
func NewCatalog() *Catalog {
	return &Catalog{raw: catalogRawData}
}

// NewCatalogFromBytes creates a Catalog over the given YAML document.
func NewCatalogFromBytes(data []byte) *Catalog {
	return &Catalog{raw: data}
}

// Items returns a copy of all catalog items in document order.
func (c *Catalog) Items() ([]Item, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	return cloneItems(c.items), nil
}

func (c *Catalog) load() {
	c.items, c.err = Parse(c.raw)
}

// Parse decodes and validates a catalog YAML document.
func Parse(data []byte) ([]Item, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}
	if err := validate(f.Items); err != nil {
		return nil, err
	}
	return f.Items, nil
}

// validate enforces unique non-empty ids and the fields every query relies on.
func validate(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		it := &items[i]
		switch {
		case it.ID == "":
			return fmt.Errorf("%w: item %d has no id", ErrInvalidCatalog, i)
		case it.Name == "":
			return fmt.Errorf("%w: item %q has no name", ErrInvalidCatalog, it.ID)
		case it.Category == "":
			return fmt.Errorf("%w: item %q has no category", ErrInvalidCatalog, it.ID)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

func cloneItems(items []Item) []Item {
	cp := make([]Item, len(items))
	copy(cp, items)
	return cp
}

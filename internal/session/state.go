// Package session holds the interactive discovery state of each client: the
// search term, the active category selector, and the saved and expanded sets.
package session

import (
	"maps"
	"slices"
	"time"

	"github.com/HerbHall/toolhub/internal/catalog"
)

// State is one client's interactive state. The saved set only changes
// through ToggleSaved and the expanded set only grows; neither is touched by
// filtering.
type State struct {
	ID         string
	UserID     string
	SearchTerm string
	Selector   string
	Saved      catalog.Set
	Expanded   catalog.Set
	CreatedAt  time.Time
	LastSeen   time.Time
}

func newState(id, userID string, now time.Time) *State {
	return &State{
		ID:        id,
		UserID:    userID,
		Selector:  catalog.SelectorAll,
		Saved:     catalog.NewSet(),
		Expanded:  catalog.NewSet(),
		CreatedAt: now,
		LastSeen:  now,
	}
}

// SetSearch replaces the search text.
func (s *State) SetSearch(term string) {
	s.SearchTerm = term
}

// SetCategory selects a category. The empty selector is stored as "all" so
// that expansion of "all" is tracked under one key.
func (s *State) SetCategory(selector string) {
	if selector == "" {
		selector = catalog.SelectorAll
	}
	s.Selector = selector
}

// ToggleSaved flips itemID's saved status and reports whether it is now saved.
func (s *State) ToggleSaved(itemID string) bool {
	if s.Saved.Has(itemID) {
		delete(s.Saved, itemID)
		return false
	}
	s.Saved[itemID] = struct{}{}
	return true
}

// Expand marks the active selector as expanded.
func (s *State) Expand() {
	s.Expanded[s.Selector] = struct{}{}
}

// Query returns an engine query over a copy of the state.
func (s *State) Query() catalog.Query {
	return catalog.Query{
		SearchTerm: s.SearchTerm,
		Selector:   s.Selector,
		Saved:      maps.Clone(s.Saved),
		Expanded:   maps.Clone(s.Expanded),
	}
}

// Snapshot is the JSON form of a State.
type Snapshot struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	SearchTerm string    `json:"search_term"`
	Selector   string    `json:"selector"`
	Saved      []string  `json:"saved"`
	Expanded   []string  `json:"expanded"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeen   time.Time `json:"last_seen"`
}

// Snapshot copies the state. Set members are sorted.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		ID:         s.ID,
		UserID:     s.UserID,
		SearchTerm: s.SearchTerm,
		Selector:   s.Selector,
		Saved:      sortedKeys(s.Saved),
		Expanded:   sortedKeys(s.Expanded),
		CreatedAt:  s.CreatedAt,
		LastSeen:   s.LastSeen,
	}
}

func sortedKeys(set catalog.Set) []string {
	keys := slices.Sorted(maps.Keys(set))
	if keys == nil {
		keys = []string{}
	}
	return keys
}

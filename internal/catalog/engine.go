// Package catalog provides the discovery engine that filters, ranks and pages
// the tool catalog for a user's interactive state and declared interests.
package catalog

import (
	"fmt"
	"strings"
	"time"

	pkgcatalog "github.com/HerbHall/toolhub/pkg/catalog"
	"go.uber.org/zap"
)

// Query is the interactive state a view is computed from.
type Query struct {
	SearchTerm string
	Selector   string
	Saved      Set
	Expanded   Set
}

// SearchActive reports whether the query carries a non-blank search term.
func (q Query) SearchActive() bool {
	return strings.TrimSpace(q.SearchTerm) != ""
}

// ViewModel is the ordered, bounded list shown to the user.
type ViewModel struct {
	Items             []pkgcatalog.Item `json:"items"`
	TotalForSelection int               `json:"total_for_selection"`
	CanShowMore       bool              `json:"can_show_more"`
}

// BuildViewModel runs Filter, Rank and Disclose over items. TotalForSelection
// counts the active selector's matches with the search term ignored, so the
// "show more" affordance reflects the category total.
func BuildViewModel(items []pkgcatalog.Item, interests []string, q Query, pageSize int) ViewModel {
	searchActive := q.SearchActive()

	filtered := Filter(items, q.SearchTerm, q.Selector, q.Saved)
	ranked := Rank(filtered, interests)
	visible := Disclose(ranked, q.Selector, q.Expanded, searchActive, pageSize)

	total := len(Filter(items, "", q.Selector, q.Saved))

	return ViewModel{
		Items:             visible,
		TotalForSelection: total,
		CanShowMore:       !searchActive && !q.Expanded.Has(q.Selector) && total > pageSize,
	}
}

// Engine binds the pipeline to a catalog source and a page size.
type Engine struct {
	src      pkgcatalog.Source
	pageSize int
	logger   *zap.Logger
}

// NewEngine creates an engine over src. A non-positive pageSize selects
// DefaultPageSize.
func NewEngine(src pkgcatalog.Source, pageSize int, logger *zap.Logger) *Engine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Engine{src: src, pageSize: pageSize, logger: logger}
}

// PageSize returns the configured page size.
func (e *Engine) PageSize() int {
	return e.pageSize
}

// Items returns the full catalog snapshot.
func (e *Engine) Items() ([]pkgcatalog.Item, error) {
	items, err := e.src.Items()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return items, nil
}

// Categories returns the category tree of the current snapshot.
func (e *Engine) Categories() ([]pkgcatalog.CategoryNode, error) {
	items, err := e.Items()
	if err != nil {
		return nil, err
	}
	return pkgcatalog.Tree(items), nil
}

// View computes the view model for q against the current catalog snapshot.
func (e *Engine) View(q Query, interests []string) (ViewModel, error) {
	start := time.Now()

	items, err := e.Items()
	if err != nil {
		return ViewModel{}, err
	}

	vm := BuildViewModel(items, interests, q, e.pageSize)

	viewDuration.Observe(time.Since(start).Seconds())
	viewItems.Observe(float64(len(vm.Items)))
	e.logger.Debug("view built",
		zap.String("selector", q.Selector),
		zap.Bool("search", q.SearchActive()),
		zap.Int("items", len(vm.Items)),
		zap.Int("total", vm.TotalForSelection),
	)
	return vm, nil
}

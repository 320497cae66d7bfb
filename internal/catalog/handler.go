package catalog

import (
	"encoding/json"
	"net/http"

	pkgcatalog "github.com/HerbHall/toolhub/pkg/catalog"
	"go.uber.org/zap"
)

// ItemsResponse is the response for GET /api/v1/catalog/items.
type ItemsResponse struct {
	Count int               `json:"count"`
	Items []pkgcatalog.Item `json:"items"`
}

// ViewResponse is the response for GET /api/v1/catalog/view.
type ViewResponse struct {
	Selector string `json:"selector"`
	Search   string `json:"search,omitempty"`
	PageSize int    `json:"page_size"`
	ViewModel
}

// Handler serves the catalog API.
type Handler struct {
	engine *Engine
	logger *zap.Logger
}

// NewHandler creates a new catalog API handler.
func NewHandler(engine *Engine, logger *zap.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/catalog/items", h.handleListItems)
	mux.HandleFunc("GET /api/v1/catalog/categories", h.handleCategories)
	mux.HandleFunc("GET /api/v1/catalog/view", h.handleView)
}

// handleListItems returns the full catalog.
//
//	@Summary		List all catalog items
//	@Description	Returns the full tool catalog in catalog order.
//	@Tags			catalog
//	@Produce		json
//	@Success		200 {object} ItemsResponse
//	@Failure		500 {object} map[string]any
//	@Router			/catalog/items [get]
func (h *Handler) handleListItems(w http.ResponseWriter, _ *http.Request) {
	items, err := h.engine.Items()
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}
	if items == nil {
		items = []pkgcatalog.Item{}
	}
	writeJSON(w, http.StatusOK, ItemsResponse{Count: len(items), Items: items})
}

// handleCategories returns the category tree with item counts.
//
//	@Summary		List categories
//	@Tags			catalog
//	@Produce		json
//	@Success		200 {array} pkgcatalog.CategoryNode
//	@Failure		500 {object} map[string]any
//	@Router			/catalog/categories [get]
func (h *Handler) handleCategories(w http.ResponseWriter, _ *http.Request) {
	tree, err := h.engine.Categories()
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}
	if tree == nil {
		tree = []pkgcatalog.CategoryNode{}
	}
	writeJSON(w, http.StatusOK, tree)
}

// handleView computes a view model from query parameters alone.
//
//	@Summary		Compute a catalog view
//	@Description	Filters, ranks and pages the catalog. A non-empty search overrides the category.
//	@Tags			catalog
//	@Produce		json
//	@Param			search query string false "Free-text search over name and description"
//	@Param			category query string false "Selector: all, Saved Tools, a category, or parent:sub" default(all)
//	@Param			saved query []string false "Saved item ids" collectionFormat(multi)
//	@Param			expanded query []string false "Expanded selectors" collectionFormat(multi)
//	@Param			interest query []string false "Declared interests" collectionFormat(multi)
//	@Success		200 {object} ViewResponse
//	@Failure		500 {object} map[string]any
//	@Router			/catalog/view [get]
func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	selector := q.Get("category")
	if selector == "" {
		selector = SelectorAll
	}
	query := Query{
		SearchTerm: q.Get("search"),
		Selector:   selector,
		Saved:      NewSet(q["saved"]...),
		Expanded:   NewSet(q["expanded"]...),
	}

	vm, err := h.engine.View(query, q["interest"])
	if err != nil {
		h.logger.Error("failed to build view", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}

	writeJSON(w, http.StatusOK, ViewResponse{
		Selector:  selector,
		Search:    query.SearchTerm,
		PageSize:  h.engine.PageSize(),
		ViewModel: vm,
	})
}

// -- helpers --

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://toolhub.dev/problems/" + http.StatusText(status),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HerbHall/toolhub/internal/catalog"
	pkgcatalog "github.com/HerbHall/toolhub/pkg/catalog"
	"go.uber.org/zap"
)

func setupMux(t *testing.T) *http.ServeMux {
	t.Helper()
	engine := catalog.NewEngine(pkgcatalog.NewCatalog(), 9, zap.NewNop())
	mux := http.NewServeMux()
	catalog.NewHandler(engine, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandleListItems(t *testing.T) {
	w := get(setupMux(t), "/api/v1/catalog/items")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp catalog.ItemsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if resp.Count == 0 || resp.Count != len(resp.Items) {
		t.Errorf("Count = %d, items = %d", resp.Count, len(resp.Items))
	}
}

func TestHandleCategories(t *testing.T) {
	w := get(setupMux(t), "/api/v1/catalog/categories")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var tree []pkgcatalog.CategoryNode
	if err := json.NewDecoder(w.Body).Decode(&tree); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	found := false
	for _, n := range tree {
		if n.Name == "AI for Business" && len(n.Subcategories) > 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected AI for Business with subcategories")
	}
}

func TestHandleView(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantSelector string
		wantMax      int
		wantShowMore bool
	}{
		{name: "default all", query: "", wantSelector: "all", wantMax: 9, wantShowMore: true},
		{name: "expanded all", query: "?category=all&expanded=all", wantSelector: "all", wantMax: 1000},
		{name: "subcategory", query: "?category=AI+for+Business:AI+for+Sales", wantSelector: "AI for Business:AI for Sales", wantMax: 9},
		{name: "unknown category", query: "?category=Nope", wantSelector: "Nope", wantMax: 0},
		{name: "saved", query: "?category=Saved+Tools&saved=suno&saved=gong", wantSelector: "Saved Tools", wantMax: 2},
	}

	mux := setupMux(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(mux, "/api/v1/catalog/view"+tt.query)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			var resp catalog.ViewResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if resp.Selector != tt.wantSelector {
				t.Errorf("Selector = %q, want %q", resp.Selector, tt.wantSelector)
			}
			if len(resp.Items) > tt.wantMax {
				t.Errorf("items = %d, want at most %d", len(resp.Items), tt.wantMax)
			}
			if resp.CanShowMore != tt.wantShowMore {
				t.Errorf("CanShowMore = %v, want %v", resp.CanShowMore, tt.wantShowMore)
			}
		})
	}
}

func TestHandleView_SavedReturnsExactSet(t *testing.T) {
	w := get(setupMux(t), "/api/v1/catalog/view?category=Saved+Tools&saved=suno&saved=gong")
	var resp catalog.ViewResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0].ID != "gong" || resp.Items[1].ID != "suno" {
		t.Errorf("items = %+v, want gong then suno", resp.Items)
	}
}

func TestHandleView_InterestRanking(t *testing.T) {
	w := get(setupMux(t), "/api/v1/catalog/view?interest=audio")
	var resp catalog.ViewResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(resp.Items) < 2 || resp.Items[0].Category != "Audio" || resp.Items[1].Category != "Audio" {
		t.Errorf("first items not Audio: %+v", resp.Items)
	}
}

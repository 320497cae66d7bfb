package catalog

import (
	"reflect"
	"testing"

	"github.com/HerbHall/toolhub/internal/testutil"
	pkgcatalog "github.com/HerbHall/toolhub/pkg/catalog"
)

func fixtureCatalog() []pkgcatalog.Item {
	return []pkgcatalog.Item{
		testutil.NewItem(testutil.WithID("jasper"), testutil.WithName("Jasper"),
			testutil.WithDescription("Long-form copywriting"), testutil.WithCategory("AI Writing")),
		testutil.NewItem(testutil.WithID("runway"), testutil.WithName("Runway"),
			testutil.WithDescription("Text to video generation"), testutil.WithCategory("Video")),
		testutil.NewItem(testutil.WithID("gong"), testutil.WithName("Gong"),
			testutil.WithDescription("Analyzes sales calls"), testutil.WithCategory("AI for Business"),
			testutil.WithSubcategory("AI for Sales")),
		testutil.NewItem(testutil.WithID("surfer"), testutil.WithName("Surfer"),
			testutil.WithDescription("SEO content WRITING"), testutil.WithCategory("AI for Business"),
			testutil.WithSubcategory("AI for Marketing")),
		testutil.NewItem(testutil.WithID("copilot"), testutil.WithName("Copilot"),
			testutil.WithDescription("Code completion"), testutil.WithCategory("Code")),
	}
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		raw  string
		want Selector
	}{
		{raw: "", want: Selector{Raw: "", Kind: KindAll}},
		{raw: "all", want: Selector{Raw: "all", Kind: KindAll}},
		{raw: "Saved Tools", want: Selector{Raw: "Saved Tools", Kind: KindSaved}},
		{raw: "Video", want: Selector{Raw: "Video", Kind: KindCategory, Category: "Video"}},
		{
			raw:  "AI for Business:AI for Sales",
			want: Selector{Raw: "AI for Business:AI for Sales", Kind: KindSubcategory, Category: "AI for Business", Subcategory: "AI for Sales"},
		},
		{
			raw:  "AI for Business:all",
			want: Selector{Raw: "AI for Business:all", Kind: KindSubcategory, Category: "AI for Business", Subcategory: "all"},
		},
		{raw: "a:b:c", want: Selector{Raw: "a:b:c", Kind: KindSubcategory, Category: "a", Subcategory: "b:c"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseSelector(tt.raw); got != tt.want {
				t.Errorf("ParseSelector(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	items := fixtureCatalog()

	tests := []struct {
		name     string
		search   string
		selector string
		saved    Set
		want     []string
	}{
		{name: "all", selector: "all", want: []string{"jasper", "runway", "gong", "surfer", "copilot"}},
		{name: "empty selector is all", selector: "", want: []string{"jasper", "runway", "gong", "surfer", "copilot"}},
		{name: "literal category", selector: "Video", want: []string{"runway"}},
		{name: "compound subcategory", selector: "AI for Business:AI for Sales", want: []string{"gong"}},
		{name: "compound all children", selector: "AI for Business:all", want: []string{"gong", "surfer"}},
		{name: "saved", selector: "Saved Tools", saved: NewSet("copilot", "jasper"), want: []string{"jasper", "copilot"}},
		{name: "saved with nil set", selector: "Saved Tools", want: []string{}},
		{name: "unknown category", selector: "Nope", want: []string{}},
		{name: "unknown compound parent", selector: "Nope:all", want: []string{}},
		{name: "unknown subcategory", selector: "AI for Business:Nope", want: []string{}},
		{name: "search matches name case-insensitively", search: "JASPER", selector: "all", want: []string{"jasper"}},
		{name: "search matches description", search: "writing", selector: "all", want: []string{"jasper", "surfer"}},
		{name: "search is trimmed", search: "  code ", selector: "all", want: []string{"copilot"}},
		{name: "blank search falls back to selector", search: "   ", selector: "Code", want: []string{"copilot"}},
		{name: "search overrides category", search: "video", selector: "AI Writing", want: []string{"runway"}},
		{name: "search overrides saved", search: "gong", selector: "Saved Tools", saved: NewSet("jasper"), want: []string{"gong"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testutil.IDs(Filter(items, tt.search, tt.selector, tt.saved))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	items := fixtureCatalog()
	before := testutil.IDs(items)
	_ = Filter(items, "", "Video", nil)
	if got := testutil.IDs(items); !reflect.DeepEqual(got, before) {
		t.Errorf("input modified: %v, want %v", got, before)
	}
}

func TestRank_StablePartition(t *testing.T) {
	items := []pkgcatalog.Item{
		testutil.NewItem(testutil.WithID("video-1"), testutil.WithCategory("Video")),
		testutil.NewItem(testutil.WithID("code-1"), testutil.WithCategory("Code")),
		testutil.NewItem(testutil.WithID("video-2"), testutil.WithCategory("Video")),
	}

	got := testutil.IDs(Rank(items, []string{"Video"}))
	want := []string{"video-1", "video-2", "code-1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
}

func TestRank(t *testing.T) {
	items := fixtureCatalog()

	tests := []struct {
		name      string
		interests []string
		want      []string
	}{
		{name: "no interests is identity", want: []string{"jasper", "runway", "gong", "surfer", "copilot"}},
		{name: "blank interests ignored", interests: []string{"", "  "}, want: []string{"jasper", "runway", "gong", "surfer", "copilot"}},
		{name: "case-insensitive equality", interests: []string{"code"}, want: []string{"copilot", "jasper", "runway", "gong", "surfer"}},
		{name: "substring containment", interests: []string{"business"}, want: []string{"gong", "surfer", "jasper", "runway", "copilot"}},
		{name: "multiple interests keep catalog order", interests: []string{"Code", "Writing"}, want: []string{"jasper", "copilot", "runway", "gong", "surfer"}},
		{name: "no match keeps order", interests: []string{"Audio"}, want: []string{"jasper", "runway", "gong", "surfer", "copilot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testutil.IDs(Rank(items, tt.interests))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Rank(%v) = %v, want %v", tt.interests, got, tt.want)
			}
		})
	}
}

func TestDisclose(t *testing.T) {
	ranked := testutil.Items(15, "w", "AI Writing")

	tests := []struct {
		name         string
		selector     string
		expanded     Set
		searchActive bool
		pageSize     int
		wantLen      int
	}{
		{name: "page limited", selector: "AI Writing", pageSize: 9, wantLen: 9},
		{name: "expanded", selector: "AI Writing", expanded: NewSet("AI Writing"), pageSize: 9, wantLen: 15},
		{name: "other selector expanded", selector: "AI Writing", expanded: NewSet("Video"), pageSize: 9, wantLen: 9},
		{name: "search active", selector: "AI Writing", searchActive: true, pageSize: 9, wantLen: 15},
		{name: "fits in page", selector: "AI Writing", pageSize: 20, wantLen: 15},
		{name: "exact page", selector: "AI Writing", pageSize: 15, wantLen: 15},
		{name: "negative page size", selector: "AI Writing", pageSize: -1, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Disclose(ranked, tt.selector, tt.expanded, tt.searchActive, tt.pageSize)
			if len(got) != tt.wantLen {
				t.Errorf("Disclose() len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestDisclose_ExpansionScopedBySelectorString(t *testing.T) {
	ranked := testutil.Items(12, "s", "AI for Business")
	expanded := NewSet("AI for Business:AI for Sales")

	if got := Disclose(ranked, "AI for Business", expanded, false, 9); len(got) != 9 {
		t.Errorf("parent selector disclosed %d items, want 9", len(got))
	}
	if got := Disclose(ranked, "AI for Business:AI for Sales", expanded, false, 9); len(got) != 12 {
		t.Errorf("expanded compound selector disclosed %d items, want 12", len(got))
	}
}

package testutil

import (
	"context"
	"testing"
)

func TestLogger_NotNil(t *testing.T) {
	if Logger() == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewStore_Usable(t *testing.T) {
	db := NewStore(t)
	if err := db.DB().PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext: %v", err)
	}
}

func TestNewItem_Defaults(t *testing.T) {
	it := NewItem()
	if it.ID == "" {
		t.Error("expected non-empty ID")
	}
	if it.Category != "AI Writing" {
		t.Errorf("Category = %q, want AI Writing", it.Category)
	}
}

func TestNewItem_WithOptions(t *testing.T) {
	it := NewItem(WithID("x"), WithCategory("Video"), WithSubcategory("Editing"))
	if it.ID != "x" || it.Category != "Video" || it.Subcategory != "Editing" {
		t.Errorf("item = %+v, want id x in Video:Editing", it)
	}
}

func TestItems(t *testing.T) {
	items := Items(3, "v", "Video")
	got := IDs(items)
	want := []string{"v-1", "v-2", "v-3"}
	if len(got) != len(want) {
		t.Fatalf("IDs len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

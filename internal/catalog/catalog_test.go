package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/youmna-rabie/fermi-events/internal/types"
)

func TestDefault_MatchesBuiltInCatalog(t *testing.T) {
	events := Default()
	if len(events) != 4 {
		t.Fatalf("expected 4 default events, got %d", len(events))
	}

	wantIDs := []string{"1", "12", "13", "14"}
	for i, e := range events {
		if e.ID != wantIDs[i] {
			t.Errorf("events[%d].ID = %q, want %q", i, e.ID, wantIDs[i])
		}
		if !e.Category.Valid() {
			t.Errorf("events[%d] has invalid category %q", i, e.Category)
		}
		if _, ok := e.Day(); !ok {
			t.Errorf("events[%d] has unparseable date %q", i, e.Date)
		}
	}

	if events[0].CurrentParticipants != 21 || events[0].MaxParticipants != 30 {
		t.Errorf("Groningen trip = %d/%d, want 21/30", events[0].CurrentParticipants, events[0].MaxParticipants)
	}
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a[0].CurrentParticipants = 999
	a[0].Tags[0] = "mutated"

	b := Default()
	if b[0].CurrentParticipants != 21 {
		t.Error("mutating a Default() result leaked into the catalog")
	}
	if b[0].Tags[0] != "groningen" {
		t.Error("mutating tags leaked into the catalog")
	}
}

func TestScan_FindsCatalogFiles(t *testing.T) {
	dir := t.TempDir()
	mkCatalog(t, dir, "sport.yaml", `
events:
  - id: s1
    title: Voetbaltoernooi
    date: "2025-12-01"
    category: sport
    maxParticipants: 20
  - id: s2
    title: Hardlopen
    date: "2025-12-08"
    category: sport
    maxParticipants: 50
`)
	mkCatalog(t, filepath.Join(dir, "nested"), "food.yml", `
events:
  - id: f1
    title: Pizza avond
    date: "2025-12-05"
    category: eten
    price: 7.5
    tags: [pizza, borrel]
`)

	var reg Registry
	if err := reg.Scan([]string{dir}); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if got := len(reg.Events()); got != 3 {
		t.Fatalf("expected 3 events, got %d", got)
	}

	ids := map[string]types.Event{}
	for _, e := range reg.Events() {
		ids[e.ID] = e
	}
	if f1, ok := ids["f1"]; !ok {
		t.Error("missing f1")
	} else if f1.Price != 7.5 || len(f1.Tags) != 2 {
		t.Errorf("f1 parsed wrong: %+v", f1)
	}
}

func TestScan_SkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()

	mkCatalog(t, dir, "good.yaml", "events:\n  - id: g1\n    category: cultuur\n")
	mkCatalog(t, dir, "bad-yaml.yaml", "events: [\n  - : :\n")
	mkCatalog(t, dir, "no-id.yaml", "events:\n  - title: nameless\n    category: sport\n")
	mkCatalog(t, dir, "bad-category.yaml", "events:\n  - id: x\n    category: gaming\n")
	mkCatalog(t, dir, "readme.txt", "events:\n  - id: t1\n    category: sport\n")

	var reg Registry
	if err := reg.Scan([]string{dir}); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	events := reg.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 valid event, got %d", len(events))
	}
	if events[0].ID != "g1" {
		t.Errorf("expected g1, got %q", events[0].ID)
	}
}

func TestScan_MissingDirectory(t *testing.T) {
	var reg Registry
	if err := reg.Scan([]string{"/nonexistent/catalog/dir"}); err != nil {
		t.Fatalf("expected graceful handling, got error: %v", err)
	}
	if got := len(reg.Events()); got != 0 {
		t.Fatalf("expected 0 events, got %d", got)
	}
}

func TestScan_ResetsOnRescan(t *testing.T) {
	dir := t.TempDir()
	mkCatalog(t, dir, "one.yaml", "events:\n  - id: a\n    category: sport\n")

	var reg Registry
	if err := reg.Scan([]string{dir}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Scan([]string{t.TempDir()}); err != nil {
		t.Fatal(err)
	}
	if got := len(reg.Events()); got != 0 {
		t.Fatalf("expected 0 events after rescan, got %d", got)
	}
}

func TestFilter(t *testing.T) {
	reg := Registry{events: []types.Event{
		{ID: "a", Category: types.CategorySport},
		{ID: "b", Category: types.CategoryMusic},
		{ID: "c", Category: types.CategorySport},
	}}

	tests := []struct {
		name       string
		categories []string
		want       int
	}{
		{"nil allowlist returns all", nil, 3},
		{"empty allowlist returns all", []string{}, 3},
		{"single category", []string{"sport"}, 2},
		{"two categories", []string{"sport", "muziek"}, 3},
		{"no match", []string{"eten"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(reg.Filter(tt.categories)); got != tt.want {
				t.Errorf("Filter(%v) len = %d, want %d", tt.categories, got, tt.want)
			}
		})
	}
}

func TestMerge_BaseWinsOnDuplicateIDs(t *testing.T) {
	base := Default()
	extra := []types.Event{
		{ID: "1", Title: "Impostor", Category: types.CategorySport},
		{ID: "99", Title: "New", Category: types.CategorySport},
	}

	merged := Merge(base, extra)
	if len(merged) != len(base)+1 {
		t.Fatalf("merged len = %d, want %d", len(merged), len(base)+1)
	}
	if merged[0].Title != "Wild in Groningen" {
		t.Errorf("base event was overridden: %q", merged[0].Title)
	}
	if merged[len(merged)-1].ID != "99" {
		t.Errorf("last event = %q, want 99", merged[len(merged)-1].ID)
	}
}

// mkCatalog writes a catalog file, creating dir if needed.
func mkCatalog(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

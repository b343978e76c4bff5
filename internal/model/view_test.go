package model

import (
	"testing"
	"time"
)

func ts(sec int64) *time.Time {
	t := time.Unix(sec, 0).UTC()
	return &t
}

func names(records []AppRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func equalNames(t *testing.T, got []AppRecord, want ...string) {
	t.Helper()
	g := names(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SortMode
		wantErr bool
	}{
		{"manual", SortManual, false},
		{"Recent", SortRecent, false},
		{" recent ", SortRecent, false},
		{"alpha", SortManual, true},
	}
	for _, tt := range tests {
		got, err := ParseSortMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSortMode(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseSortMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortByName_CaseSensitiveDeterministic(t *testing.T) {
	records := []AppRecord{
		{Name: "safari", Path: "/b"},
		{Name: "Xcode", Path: "/c"},
		{Name: "Safari", Path: "/z"},
		{Name: "Safari", Path: "/a"},
	}
	SortByName(records)
	equalNames(t, records, "Safari", "Safari", "Xcode", "safari")
	if records[0].Path != "/a" {
		t.Errorf("equal names should tiebreak on path, got %q first", records[0].Path)
	}
}

func TestSortByRecent_NilSortsLast(t *testing.T) {
	records := []AppRecord{
		{Name: "B"},
		{Name: "A", LastLaunched: ts(100)},
	}
	SortByRecent(records)
	equalNames(t, records, "A", "B")
}

func TestSortByRecent_TiesByName(t *testing.T) {
	records := []AppRecord{
		{Name: "Zed", LastLaunched: ts(50)},
		{Name: "Mail", LastLaunched: ts(50)},
		{Name: "Notes", LastLaunched: ts(90)},
		{Name: "Chess"},
		{Name: "Books"},
	}
	SortByRecent(records)
	equalNames(t, records, "Notes", "Mail", "Zed", "Books", "Chess")
}

func TestDisplayedHistory_ManualKeepsOrder(t *testing.T) {
	history := []AppRecord{
		{Name: "C", LastLaunched: ts(1)},
		{Name: "A", LastLaunched: ts(3)},
		{Name: "B"},
	}
	view := DisplayedHistory(history, SortManual, false)
	equalNames(t, view, "C", "A", "B")
}

func TestDisplayedHistory_FavoritesOnly(t *testing.T) {
	history := []AppRecord{
		{Name: "C", IsFavorite: true, LastLaunched: ts(1)},
		{Name: "A", LastLaunched: ts(3)},
		{Name: "B", IsFavorite: true, LastLaunched: ts(2)},
	}
	equalNames(t, DisplayedHistory(history, SortManual, true), "C", "B")
	equalNames(t, DisplayedHistory(history, SortRecent, true), "B", "C")
}

func TestDisplayedHistory_DoesNotMutateInput(t *testing.T) {
	history := []AppRecord{
		{Name: "Old", LastLaunched: ts(1)},
		{Name: "New", LastLaunched: ts(2)},
	}
	_ = DisplayedHistory(history, SortRecent, false)
	equalNames(t, history, "Old", "New")
}

func TestNameFromPath(t *testing.T) {
	if got := NameFromPath("/Applications/Visual Studio Code.app", ".app"); got != "Visual Studio Code" {
		t.Errorf("got %q", got)
	}
	if got := NameFromPath("/Applications/Tool", ".app"); got != "Tool" {
		t.Errorf("got %q", got)
	}
}

func TestClone_DoesNotShareTimestamp(t *testing.T) {
	r := AppRecord{Name: "A", LastLaunched: ts(10)}
	c := r.Clone()
	*c.LastLaunched = time.Unix(20, 0)
	if r.LastLaunched.Unix() != 10 {
		t.Error("clone shares LastLaunched with original")
	}
}

func TestIndexHelpers(t *testing.T) {
	records := []AppRecord{{ID: "1", Path: "/a"}, {ID: "2", Path: "/b"}}
	if IndexByID(records, "2") != 1 || IndexByID(records, "x") != -1 {
		t.Error("IndexByID")
	}
	if IndexByPath(records, "/a") != 0 || IndexByPath(records, "/x") != -1 {
		t.Error("IndexByPath")
	}
}

func TestRunningAppRecord_FreshID(t *testing.T) {
	a := RunningApp{Name: "Safari", Path: "/Applications/Safari.app", PID: 10}
	r1, r2 := a.Record(), a.Record()
	if r1.ID == "" || r1.ID == r2.ID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", r1.ID, r2.ID)
	}
	if r1.IsFavorite || r1.LastLaunched != nil {
		t.Error("running record should carry no history metadata")
	}
}

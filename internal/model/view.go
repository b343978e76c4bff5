package model

import (
	"fmt"
	"sort"
	"strings"
)

// SortMode controls how the history view is ordered.
type SortMode string

const (
	// SortManual keeps history in stored order; entries are user-reorderable.
	SortManual SortMode = "manual"
	// SortRecent orders history by descending last-launch time.
	SortRecent SortMode = "recent"
)

// ParseSortMode converts a flag or tool value to a SortMode.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manual":
		return SortManual, nil
	case "recent":
		return SortRecent, nil
	default:
		return SortManual, fmt.Errorf("unknown sort mode: %q (expected manual or recent)", s)
	}
}

// SortByName sorts records ascending by name in place. The comparison is
// byte-wise so the order is identical on every machine; equal names fall
// back to path.
func SortByName(records []AppRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].Path < records[j].Path
	})
}

// SortRunningByName is SortByName for running-app snapshots.
func SortRunningByName(apps []RunningApp) {
	sort.SliceStable(apps, func(i, j int) bool {
		if apps[i].Name != apps[j].Name {
			return apps[i].Name < apps[j].Name
		}
		return apps[i].Path < apps[j].Path
	})
}

// FilterFavorites returns the favorite records, preserving order.
func FilterFavorites(records []AppRecord) []AppRecord {
	result := make([]AppRecord, 0, len(records))
	for _, r := range records {
		if r.IsFavorite {
			result = append(result, r)
		}
	}
	return result
}

// SortByRecent sorts records by descending LastLaunched in place. Records that
// were never launched sort as the oldest possible time; ties are broken by
// ascending name.
func SortByRecent(records []AppRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch {
		case a.LastLaunched == nil && b.LastLaunched == nil:
			return a.Name < b.Name
		case a.LastLaunched == nil:
			return false
		case b.LastLaunched == nil:
			return true
		case a.LastLaunched.Equal(*b.LastLaunched):
			return a.Name < b.Name
		default:
			return a.LastLaunched.After(*b.LastLaunched)
		}
	})
}

// DisplayedHistory derives the visible history list. The input is not
// modified.
func DisplayedHistory(history []AppRecord, mode SortMode, favoritesOnly bool) []AppRecord {
	var view []AppRecord
	if favoritesOnly {
		view = FilterFavorites(history)
	} else {
		view = make([]AppRecord, len(history))
		copy(view, history)
	}
	if mode == SortRecent {
		SortByRecent(view)
	}
	return view
}

// IndexByID returns the index of the record with the given id, or -1.
func IndexByID(records []AppRecord, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

// IndexByPath returns the index of the record with the given path, or -1.
func IndexByPath(records []AppRecord, path string) int {
	for i := range records {
		if records[i].Path == path {
			return i
		}
	}
	return -1
}

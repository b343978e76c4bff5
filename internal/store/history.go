package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mj1618/applaunch/internal/model"
)

// Slot names in the settings store.
const (
	HistoryKey           = "launchHistory"
	SortModeKey          = "sortMode"
	ShowOnlyFavoritesKey = "showOnlyFavorites"
)

// ErrCorrupt marks a slot whose stored bytes could not be decoded.
var ErrCorrupt = errors.New("stored value could not be decoded")

// History persists the launch history list as one JSON value in a single
// slot. Every Save overwrites the previous value.
type History struct {
	settings Settings
}

// NewHistory returns a history adapter over settings.
func NewHistory(settings Settings) *History {
	return &History{settings: settings}
}

// Load returns the stored history. An empty slot yields an empty list and a
// nil error; unreadable or undecodable data yields an empty list and a
// non-nil error so callers can tell the cases apart.
func (h *History) Load() ([]model.AppRecord, error) {
	data, ok, err := h.settings.Get(HistoryKey)
	if err != nil {
		return []model.AppRecord{}, err
	}
	if !ok || len(data) == 0 {
		return []model.AppRecord{}, nil
	}
	var records []model.AppRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return []model.AppRecord{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, HistoryKey, err)
	}
	if records == nil {
		records = []model.AppRecord{}
	}
	return records, nil
}

// Save encodes and writes the full history list.
func (h *History) Save(records []model.AppRecord) error {
	if records == nil {
		records = []model.AppRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return h.settings.Set(HistoryKey, data)
}

// ViewPrefs are the persisted history view settings.
type ViewPrefs struct {
	SortMode          model.SortMode
	ShowOnlyFavorites bool
}

// Preferences persists ViewPrefs in their own slots.
type Preferences struct {
	settings Settings
}

// NewPreferences returns a preferences adapter over settings.
func NewPreferences(settings Settings) *Preferences {
	return &Preferences{settings: settings}
}

// Load returns stored view settings, defaulting to manual order without the
// favorites filter for missing or undecodable slots.
func (p *Preferences) Load() (ViewPrefs, error) {
	prefs := ViewPrefs{SortMode: model.SortManual}
	var errs []error

	if data, ok, err := p.settings.Get(SortModeKey); err != nil {
		errs = append(errs, err)
	} else if ok {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrCorrupt, SortModeKey, err))
		} else if mode, err := model.ParseSortMode(s); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrCorrupt, SortModeKey, err))
		} else {
			prefs.SortMode = mode
		}
	}

	if data, ok, err := p.settings.Get(ShowOnlyFavoritesKey); err != nil {
		errs = append(errs, err)
	} else if ok {
		if err := json.Unmarshal(data, &prefs.ShowOnlyFavorites); err != nil {
			prefs.ShowOnlyFavorites = false
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrCorrupt, ShowOnlyFavoritesKey, err))
		}
	}
	return prefs, errors.Join(errs...)
}

// Save writes both view settings.
func (p *Preferences) Save(prefs ViewPrefs) error {
	mode, err := json.Marshal(string(prefs.SortMode))
	if err != nil {
		return err
	}
	fav, err := json.Marshal(prefs.ShowOnlyFavorites)
	if err != nil {
		return err
	}
	if err := p.settings.Set(SortModeKey, mode); err != nil {
		return err
	}
	return p.settings.Set(ShowOnlyFavoritesKey, fav)
}

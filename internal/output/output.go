package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mj1618/applaunch/internal/manager"
	"github.com/mj1618/applaunch/internal/model"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Stdout is where Print writes. Tests replace it.
var Stdout io.Writer = os.Stdout

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported output format: %q (use yaml or json)", s)
	}
}

// AppsResult is the output of the `catalog` command.
type AppsResult struct {
	Count int               `yaml:"count" json:"count"`
	Apps  []model.AppRecord `yaml:"apps"  json:"apps"`
}

// RunningResult is the output of the `running` command.
type RunningResult struct {
	Count int                `yaml:"count" json:"count"`
	Apps  []model.RunningApp `yaml:"apps"  json:"apps"`
}

// HistoryResult is the output of the `history` command: the displayed view
// and the settings that produced it.
type HistoryResult struct {
	Sort          model.SortMode `yaml:"sort"          json:"sort"`
	FavoritesOnly bool           `yaml:"favoritesOnly" json:"favoritesOnly"`
	Count         int            `yaml:"count"         json:"count"`
	Entries       []HistoryEntry `yaml:"entries"       json:"entries"`
}

// HistoryEntry is one displayed history row with its running indicator.
type HistoryEntry struct {
	model.AppRecord `yaml:",inline"`
	Running         bool `yaml:"running" json:"running"`
}

// NewHistoryResult pairs each displayed record with its running flag.
// running may be shorter than entries (or nil); missing flags are false.
func NewHistoryResult(mode model.SortMode, favoritesOnly bool, entries []model.AppRecord, running []bool) HistoryResult {
	rows := make([]HistoryEntry, len(entries))
	for i, r := range entries {
		rows[i] = HistoryEntry{AppRecord: r, Running: i < len(running) && running[i]}
	}
	return HistoryResult{
		Sort:          mode,
		FavoritesOnly: favoritesOnly,
		Count:         len(rows),
		Entries:       rows,
	}
}

// ActionResult is the output of a state-changing command.
type ActionResult struct {
	OK      bool   `yaml:"ok"              json:"ok"`
	Action  string `yaml:"action"          json:"action"`
	Outcome string `yaml:"outcome"         json:"outcome"`
	ID      string `yaml:"id,omitempty"    json:"id,omitempty"`
	Path    string `yaml:"path,omitempty"  json:"path,omitempty"`
	Error   string `yaml:"error,omitempty" json:"error,omitempty"`
}

// KillResult is the output of a kill request. Done is false while later
// escalation tiers are still pending.
type KillResult struct {
	OK         bool           `yaml:"ok"                   json:"ok"`
	Outcome    string         `yaml:"outcome"              json:"outcome"`
	Path       string         `yaml:"path"                 json:"path"`
	Identifier string         `yaml:"identifier,omitempty" json:"identifier,omitempty"`
	PIDs       []int          `yaml:"pids,omitempty"       json:"pids,omitempty"`
	Steps      []manager.Step `yaml:"steps,omitempty"      json:"steps,omitempty"`
	Done       bool           `yaml:"done"                 json:"done"`
}

// Print serializes v to Stdout in the current output format.
func Print(v interface{}) error {
	return Fprint(Stdout, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return WriteJSON(w, v, PrettyOutput)
	case FormatYAML:
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// WriteJSON serializes v to w as JSON; compact single-line unless pretty.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// WriteYAML serializes v to w as YAML.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// YAMLString renders v as YAML text.
func YAMLString(v interface{}) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("yaml encode: %w", err)
	}
	return string(data), nil
}

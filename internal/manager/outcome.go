package manager

// Outcome reports what a manager operation did. Lookup misses and resolution
// failures are outcomes, not errors.
type Outcome string

const (
	// Applied means the operation changed state.
	Applied Outcome = "applied"
	// Noop means the request was valid but there was nothing to change.
	Noop Outcome = "noop"
	// NotFound means a referenced id or path does not exist.
	NotFound Outcome = "not-found"
	// Duplicate means the path is already present.
	Duplicate Outcome = "duplicate"
	// ManualOnly means the operation requires manual sort mode.
	ManualOnly Outcome = "manual-only"
	// Unresolved means the path has no bundle identifier.
	Unresolved Outcome = "unresolved"
)

// Changed reports whether the outcome modified state.
func (o Outcome) Changed() bool {
	return o == Applied
}

// EventKind names the part of the state an Event refers to.
type EventKind string

const (
	EventCatalog  EventKind = "catalog"
	EventSelected EventKind = "selected"
	EventHistory  EventKind = "history"
	EventView     EventKind = "view"
)

// Event is delivered to subscribers after a state change.
type Event struct {
	Kind EventKind `yaml:"kind"           json:"kind"`
	Op   string    `yaml:"op"             json:"op"`
	ID   string    `yaml:"id,omitempty"   json:"id,omitempty"`
	Path string    `yaml:"path,omitempty" json:"path,omitempty"`
}

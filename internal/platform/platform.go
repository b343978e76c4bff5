package platform

import (
	"context"

	"github.com/mj1618/applaunch/internal/model"
)

// Registry is the OS application registry: running processes, bundle
// metadata, launching, and the three termination tiers.
type Registry interface {
	// ListRunning returns every running application. Applications without
	// a bundle have an empty Path. Order and duplicates are whatever the OS
	// reports.
	ListRunning(ctx context.Context) ([]model.RunningApp, error)

	// ResolveIdentifier maps a bundle path to its bundle identifier.
	// Returns ErrNoIdentifier when the path is not a bundle or has none.
	ResolveIdentifier(ctx context.Context, path string) (string, error)

	// Open launches (or activates) the application at path.
	Open(ctx context.Context, path string) error

	// Terminate asks the application with pid to quit gracefully.
	Terminate(ctx context.Context, pid int) error

	// ForceTerminate asks the OS to quit the application without giving it
	// a chance to veto.
	ForceTerminate(ctx context.Context, pid int) error

	// Kill sends an unconditional kill signal to pid.
	Kill(pid int) error
}

// ModifierReader reports the live keyboard modifier flag word. Decoding
// into Modifiers is done with a KeyMap.
type ModifierReader interface {
	Flags() (uint64, error)
}

package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// Provider bundles all platform backends for the current OS.
type Provider struct {
	Registry  Registry
	Modifiers ModifierReader
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("applaunch is not supported on %s/%s; supported: darwin/amd64, darwin/arm64", runtime.GOOS, runtime.GOARCH)

// ErrNoIdentifier is returned by Registry.ResolveIdentifier when a path does
// not resolve to a bundle with an identifier.
var ErrNoIdentifier = errors.New("path does not resolve to a bundle identifier")

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/darwin/init.go for the macOS registration.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}

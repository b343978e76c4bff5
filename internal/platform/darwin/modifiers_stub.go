//go:build !darwin || !cgo

package darwin

import "github.com/mj1618/applaunch/internal/platform"

// ModifierReader is unavailable without CGo on macOS.
type ModifierReader struct{}

// NewModifierReader returns a ModifierReader whose reads always fail.
func NewModifierReader() *ModifierReader {
	return &ModifierReader{}
}

// Flags returns platform.ErrUnsupported.
func (ModifierReader) Flags() (uint64, error) {
	return 0, platform.ErrUnsupported
}

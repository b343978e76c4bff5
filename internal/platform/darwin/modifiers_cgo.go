//go:build darwin && cgo

package darwin

/*
#cgo LDFLAGS: -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>

static uint64_t modifier_flags() {
    return (uint64_t)CGEventSourceFlagsState(kCGEventSourceStateCombinedSessionState);
}
*/
import "C"

// ModifierReader reads the combined session modifier flags.
type ModifierReader struct{}

// NewModifierReader returns a ModifierReader.
func NewModifierReader() *ModifierReader {
	return &ModifierReader{}
}

// Flags returns the raw CGEventFlags word.
func (ModifierReader) Flags() (uint64, error) {
	return uint64(C.modifier_flags()), nil
}

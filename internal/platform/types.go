package platform

import (
	"fmt"
	"strings"
)

// Modifier flag masks as reported by CGEventSourceFlagsState.
const (
	FlagMaskShift     uint64 = 1 << 17
	FlagMaskControl   uint64 = 1 << 18
	FlagMaskAlternate uint64 = 1 << 19
	FlagMaskCommand   uint64 = 1 << 20
)

// Modifiers is the pair of modifier keys the launcher reacts to.
type Modifiers struct {
	Alternate bool `yaml:"alternate" json:"alternate"` // reveals optional row actions
	Secondary bool `yaml:"secondary" json:"secondary"` // forces the favorites filter
}

// KeyMap selects which physical keys drive the two logical modifiers.
type KeyMap struct {
	Alternate uint64
	Secondary uint64
}

// DefaultKeyMap maps option to Alternate and command to Secondary.
var DefaultKeyMap = KeyMap{Alternate: FlagMaskAlternate, Secondary: FlagMaskCommand}

// Decode converts a raw modifier flag word into Modifiers.
func (k KeyMap) Decode(flags uint64) Modifiers {
	return Modifiers{
		Alternate: flags&k.Alternate != 0,
		Secondary: flags&k.Secondary != 0,
	}
}

// ParseKeyMap builds a KeyMap from two key names (see ParseModifierMask).
func ParseKeyMap(alternate, secondary string) (KeyMap, error) {
	alt, err := ParseModifierMask(alternate)
	if err != nil {
		return KeyMap{}, err
	}
	sec, err := ParseModifierMask(secondary)
	if err != nil {
		return KeyMap{}, err
	}
	if alt == sec {
		return KeyMap{}, fmt.Errorf("alternate and secondary modifiers must differ (both %q)", alternate)
	}
	return KeyMap{Alternate: alt, Secondary: sec}, nil
}

// ParseModifierMask converts a key name to its flag mask.
func ParseModifierMask(s string) (uint64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shift":
		return FlagMaskShift, nil
	case "control", "ctrl":
		return FlagMaskControl, nil
	case "option", "alt", "alternate":
		return FlagMaskAlternate, nil
	case "command", "cmd":
		return FlagMaskCommand, nil
	default:
		return 0, fmt.Errorf("unknown modifier: %q (expected shift, control, option, or command)", s)
	}
}

package value

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for an unrecognised mode name.
var ErrUnknownMode = errors.New("observe: unknown write mode")

// Mode selects how Set treats structured values.
type Mode int

const (
	// ModeReplace stores every structurally different write as a whole.
	ModeReplace Mode = iota

	// ModeMerge patches records in place and replaces everything else.
	ModeMerge
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeReplace:
		return "replace"
	case ModeMerge:
		return "merge"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts "replace" or "merge" into a Mode. The empty string selects
// ModeReplace.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return ModeReplace, nil
	case "merge":
		return ModeMerge, nil
	}
	return ModeReplace, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

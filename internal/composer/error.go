package composer

import (
	"errors"
	"fmt"
)

// ErrUnavailable is the root of every "no clip could be produced" outcome.
// Callers test for it with errors.Is and fall back to per-token playback.
var ErrUnavailable = errors.New("composition unavailable")

// Error definitions for the composer package.
var (
	ErrToolUnavailable = fmt.Errorf("%w: media toolchain is not installed", ErrUnavailable)
	ErrNoValidInput    = fmt.Errorf("%w: no valid input clips", ErrUnavailable)
	ErrTooFewClips     = fmt.Errorf("%w: fewer than two clips could be normalized", ErrUnavailable)
	ErrComposeFailed   = fmt.Errorf("%w: clips could not be joined", ErrUnavailable)
)

/*
errors.go - Centralized error types for the engine

PURPOSE:
  All engine error values in one place. The engine surfaces structured
  results and typed failures only; logging, user messaging, and HTTP
  shaping belong to the surrounding layers.

NOTE:
  Arithmetic degeneracy (inverted windows, negative gaps) is never an
  error here. The engine clamps instead, so computations on well-typed
  input always succeed. These errors exist for the callers' write paths
  and input parsing.
*/
package engine

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidSequence marks a day whose events could not be normalized
	// into an alternating IN-first sequence at all (callers that want
	// strict validation can check for it; ComputeDay itself degrades
	// gracefully and never returns it).
	ErrInvalidSequence = errors.New("invalid booking sequence")

	// ErrInvalidAction is returned when an action is neither in nor out.
	ErrInvalidAction = errors.New("invalid booking action")

	// ErrInvalidWindow is returned when a configured work window has its
	// end before its start.
	ErrInvalidWindow = errors.New("invalid work window: end before start")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// SequenceError describes a malformed booking sequence in detail.
type SequenceError struct {
	Day     time.Time
	Dropped int
	Total   int
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("booking sequence on %s: dropped %d of %d events",
		e.Day.Format("2006-01-02"), e.Dropped, e.Total)
}

func (e *SequenceError) Unwrap() error { return ErrInvalidSequence }

// ValidateWindow checks a configured window for degeneracy. The engine's
// computations clamp regardless; this is for callers validating config
// at the edge.
func ValidateWindow(cfg WorkConfig) error {
	if cfg.WorkEnd.Seconds() < cfg.WorkStart.Seconds() {
		return ErrInvalidWindow
	}
	return nil
}

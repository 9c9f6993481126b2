/*
Package engine provides the core work-time accounting engine.

PURPOSE:
  This package contains the pure computation that turns a day's clock
  in/out events into legally compliant worked time, break time, and
  overtime figures, plus forward-looking end-of-day predictions and the
  cumulative overtime ledger built on top of the per-day computation.

KEY CONCEPTS IN THIS FILE (types.go):
  - BookingEvent: A timestamped clock-in or clock-out action
  - WorkConfig: Per-user settings (daily target, work window, toggles)
  - ClockTime: A time-of-day used to anchor the work window on a date
  - DayComputation: The derived (worked, pause, overtime) triple for a day
  - Adjustment: A signed manual overtime correction pinned to a date

DESIGN PRINCIPLES:
  1. Purity: Every function takes its full input (events, config, "now")
     and returns a result. No I/O, no globals, no hidden state.
  2. Derivation: No computed field is ever the source of truth. The
     BookingEvent history is; everything else is recomputed per call.
  3. Integer seconds: The engine keeps exact integer seconds internally.
     Rounding and HH:MM formatting happen at the caller's boundary.
  4. Clamping over exceptions: Every subtraction is floored at zero.
     The engine never panics on well-typed input.

USAGE:
  cfg := engine.DefaultConfig()
  day := engine.ComputeDay(events, cfg, now, true)
  fmt.Println(day.WorkedSeconds, day.OvertimeSeconds)

SEE ALSO:
  - breaks.go:  Break classification and the statutory break schedule
  - day.go:     The daily stats computation (single source of per-day truth)
  - predict.go: Milestone and end-of-day prediction
  - ledger.go:  Cumulative overtime balance
  - stats.go:   Range aggregation (daily, weekly, trend)
*/
package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DURATION CONSTANTS - All engine arithmetic is in integer seconds
// =============================================================================

const (
	SixHours     = 6 * 3600
	NineHours    = 9 * 3600
	TenHours     = 10 * 3600
	HalfHourRamp = 30 * 60 // ramp width at the 6h boundary
	QuarterRamp  = 15 * 60 // ramp width at the 9h boundary

	// ShortBreakThreshold separates work interruptions from manual pauses.
	// An OUT->IN gap shorter than this is momentary stepping-away, not a break.
	ShortBreakThreshold = 15 * 60

	// MaxDailyWorkSeconds is the hard ceiling on creditable work per day.
	// Presence beyond it never counts as worked time.
	MaxDailyWorkSeconds = TenHours

	// DefaultTargetSeconds is the standard daily target of 7h48m
	// (38.5h week over 5 days, rounded to the common tariff value).
	DefaultTargetSeconds = 7*3600 + 48*60

	// ExtendedPauseFloor is the minimum projected break when the extended
	// pause option is enabled (prediction only).
	ExtendedPauseFloor = 50 * 60
)

// =============================================================================
// BOOKING EVENT - A single clock-in or clock-out
// =============================================================================

type Action string

const (
	ActionIn  Action = "in"
	ActionOut Action = "out"
)

// BookingEvent is one presence event. Events are owned by the caller's
// store; the engine only ever reads them. Within a single day the caller
// intends actions to alternate starting with IN, but the engine tolerates
// violations (see sequence.go) rather than assuming validity.
type BookingEvent struct {
	Timestamp time.Time
	Action    Action
}

// =============================================================================
// CLOCK TIME - Time-of-day, anchors the work window on a calendar date
// =============================================================================

// ClockTime is a wall-clock time of day with minute granularity.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: out of range", s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// On places the clock time on the calendar date of t, in t's location.
func (c ClockTime) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

func (c ClockTime) Seconds() int { return c.Hour*3600 + c.Minute*60 }

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// =============================================================================
// WORK CONFIG - Per-user settings, passed into every computation
// =============================================================================

// WorkConfig is supplied by the caller per computation. The engine never
// mutates or persists it, and never reads settings from ambient state.
type WorkConfig struct {
	// TargetWorkSeconds is the personal daily target (e.g. 7h48m).
	TargetWorkSeconds int

	// WorkStart/WorkEnd bound the organizational work window. Presence
	// outside the window does not count.
	WorkStart ClockTime
	WorkEnd   ClockTime

	// ShortBreakLogic classifies sub-threshold OUT->IN gaps as work
	// interruptions instead of manual pauses.
	ShortBreakLogic bool

	// ExtendedPause floors the projected break at 50 minutes when
	// predicting the end of day.
	ExtendedPause bool

	// TimeOffsetSeconds is a constant signed correction applied to the
	// overtime balance (e.g. a carried-over starting balance).
	TimeOffsetSeconds int
}

// DefaultConfig returns the standard configuration: 7h48m target,
// 06:30-18:30 window, short-break logic on.
func DefaultConfig() WorkConfig {
	return WorkConfig{
		TargetWorkSeconds: DefaultTargetSeconds,
		WorkStart:         ClockTime{Hour: 6, Minute: 30},
		WorkEnd:           ClockTime{Hour: 18, Minute: 30},
		ShortBreakLogic:   true,
	}
}

// =============================================================================
// DAY COMPUTATION - Derived per-day result, never stored
// =============================================================================

// DayComputation is the output of ComputeDay. It is derived, not stored:
// callers recompute it from raw events on every query.
type DayComputation struct {
	// GrossSessionSeconds is first-to-last presence after window clipping.
	GrossSessionSeconds int

	// ManualPauseSeconds are substantive OUT->IN breaks taken by choice.
	ManualPauseSeconds int

	// InterruptionSeconds are short gaps below the 15-minute threshold.
	// Always deducted, never counted toward the statutory requirement.
	InterruptionSeconds int

	// StatutoryBreakSeconds is the legal minimum for the gross duration.
	StatutoryBreakSeconds int

	// DeductedPauseSeconds is max(manual, statutory).
	DeductedPauseSeconds int

	// TotalPauseSeconds is DeductedPauseSeconds + InterruptionSeconds.
	TotalPauseSeconds int

	// WorkedSeconds is net worked time, floored at zero and capped at 10h.
	WorkedSeconds int

	// OvertimeSeconds is WorkedSeconds - target. Negative means undertime.
	// Zero for a day with no events.
	OvertimeSeconds int

	// FirstStamp/LastStamp are the raw (unclipped) boundary stamps.
	// Zero times for an empty day.
	FirstStamp time.Time
	LastStamp  time.Time

	// Open reports whether the day was computed as still in progress
	// (last event is IN and "now" was used as the running end).
	Open bool

	// DroppedEvents counts events discarded by sequence normalization.
	DroppedEvents int
}

// =============================================================================
// OVERTIME ADJUSTMENT - Manual signed correction
// =============================================================================

// Adjustment is a manually granted or deducted amount of overtime,
// effective as of a point in time. The surrounding system guarantees at
// most one adjustment per calendar day (later ones supersede).
type Adjustment struct {
	EffectiveAt  time.Time
	DeltaSeconds int
	Reason       string
}

// =============================================================================
// DAY EVENTS - One day's slice of the booking history
// =============================================================================

// DayEvents couples a calendar date with that day's sorted events.
// Callers bucket raw stored events per civil day in their fixed zone.
type DayEvents struct {
	Date   time.Time // midnight in the deployment's civil zone
	Events []BookingEvent
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

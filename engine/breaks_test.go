package engine_test

import (
	"testing"
	"time"

	"github.com/warp/worktime-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var berlin = mustLoadLocation("Europe/Berlin")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func at(hour, min int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, 0, 0, berlin)
}

func in(hour, min int) engine.BookingEvent {
	return engine.BookingEvent{Timestamp: at(hour, min), Action: engine.ActionIn}
}

func out(hour, min int) engine.BookingEvent {
	return engine.BookingEvent{Timestamp: at(hour, min), Action: engine.ActionOut}
}

// =============================================================================
// STATUTORY BREAK SCHEDULE
// =============================================================================

func TestStatutoryBreak_Schedule(t *testing.T) {
	cases := []struct {
		gross int
		want  int
	}{
		{0, 0},
		{3 * 3600, 0},
		{6 * 3600, 0},            // exactly 6h: still no break owed
		{6*3600 + 1, 1},          // one second past 6h: ramp begins
		{6*3600 + 900, 900},      // 15 minutes into the ramp
		{6*3600 + 1800, 1800},    // 6h30: ramp tops out at 30m
		{7 * 3600, 1800},         // flat zone
		{8 * 3600, 1800},         // flat zone
		{9 * 3600, 1800},         // exactly 9h: still 30m
		{9*3600 + 450, 2250},     // halfway up the second ramp
		{9*3600 + 900, 2700},     // 9h15: ramp tops out at 45m
		{10 * 3600, 2700},        // flat beyond
		{14 * 3600, 2700},        // flat beyond
		{-100, 0},                // negative input clamps to zero
	}

	for _, tc := range cases {
		if got := engine.StatutoryBreak(tc.gross); got != tc.want {
			t.Errorf("StatutoryBreak(%d) = %d, want %d", tc.gross, got, tc.want)
		}
	}
}

func TestStatutoryBreak_MonotonicAndContinuous(t *testing.T) {
	// The schedule must never decrease, and a one-second change in
	// presence must never change the requirement by more than a second.
	prev := engine.StatutoryBreak(0)
	for gross := 1; gross <= 12*3600; gross++ {
		cur := engine.StatutoryBreak(gross)
		if cur < prev {
			t.Fatalf("schedule decreases at gross=%d: %d -> %d", gross, prev, cur)
		}
		if cur-prev > 1 {
			t.Fatalf("schedule jumps at gross=%d: %d -> %d", gross, prev, cur)
		}
		prev = cur
	}
}

// =============================================================================
// BREAK CLASSIFIER
// =============================================================================

func TestClassifyBreaks_ShortGapIsInterruption(t *testing.T) {
	events := []engine.BookingEvent{in(8, 0), out(10, 0), in(10, 10), out(16, 0)}

	c := engine.ClassifyBreaks(events, at(8, 0), at(16, 0), true)

	if c.InterruptionSeconds != 10*60 {
		t.Errorf("interruption = %d, want %d", c.InterruptionSeconds, 10*60)
	}
	if c.ManualPauseSeconds != 0 {
		t.Errorf("manual pause = %d, want 0", c.ManualPauseSeconds)
	}
}

func TestClassifyBreaks_LongGapIsManualPause(t *testing.T) {
	events := []engine.BookingEvent{in(8, 0), out(12, 0), in(12, 30), out(16, 0)}

	c := engine.ClassifyBreaks(events, at(8, 0), at(16, 0), true)

	if c.ManualPauseSeconds != 30*60 {
		t.Errorf("manual pause = %d, want %d", c.ManualPauseSeconds, 30*60)
	}
	if c.InterruptionSeconds != 0 {
		t.Errorf("interruption = %d, want 0", c.InterruptionSeconds)
	}
}

func TestClassifyBreaks_ShortBreakLogicDisabled(t *testing.T) {
	// With the logic off, even a 5-minute gap counts as a manual pause.
	events := []engine.BookingEvent{in(8, 0), out(10, 0), in(10, 5), out(16, 0)}

	c := engine.ClassifyBreaks(events, at(8, 0), at(16, 0), false)

	if c.ManualPauseSeconds != 5*60 {
		t.Errorf("manual pause = %d, want %d", c.ManualPauseSeconds, 5*60)
	}
	if c.InterruptionSeconds != 0 {
		t.Errorf("interruption = %d, want 0", c.InterruptionSeconds)
	}
}

func TestClassifyBreaks_GapOutsideWindowContributesNothing(t *testing.T) {
	// Pause from 17:00 to 18:00, window ends 16:30: fully outside.
	events := []engine.BookingEvent{in(8, 0), out(17, 0), in(18, 0), out(19, 0)}

	c := engine.ClassifyBreaks(events, at(8, 0), at(16, 30), true)

	if c.ManualPauseSeconds != 0 || c.InterruptionSeconds != 0 {
		t.Errorf("out-of-window gap contributed: manual=%d interruption=%d",
			c.ManualPauseSeconds, c.InterruptionSeconds)
	}
}

func TestClassifyBreaks_GapClippedAtWindowEdge(t *testing.T) {
	// Pause from 16:00 to 17:00, window ends 16:30: only 30m inside.
	events := []engine.BookingEvent{in(8, 0), out(16, 0), in(17, 0), out(18, 0)}

	c := engine.ClassifyBreaks(events, at(8, 0), at(16, 30), true)

	if c.ManualPauseSeconds != 30*60 {
		t.Errorf("manual pause = %d, want %d", c.ManualPauseSeconds, 30*60)
	}
}

/*
breaks.go - Break classification and the statutory break schedule

PURPOSE:
  Two leaf computations feeding the daily stats:

  1. Break Classifier: splits a day's OUT->IN gaps into work
     interruptions (very short, ignorable stepping-away) and manual
     pauses (substantive breaks taken by choice). Interruptions are
     always deducted from worked time on top of the statutory/manual
     pause and never satisfy the legal break requirement.

  2. Statutory Break Calculator: the legally mandated minimum break as
     a function of gross presence. The schedule phases in gradually
     instead of jumping at the 6h/9h boundaries:

         gross <= 6h00          -> 0
         6h00 < gross <= 6h30   -> gross - 6h        (ramp 0 -> 30m)
         6h30 < gross <= 9h00   -> 30m               (flat)
         9h00 < gross <= 9h15   -> 30m + (gross-9h)  (ramp 30m -> 45m)
         gross > 9h15           -> 45m               (flat)

INVARIANT:
  The schedule is monotonically non-decreasing and continuous. A worker
  never owes less break for more presence, and a one-second change in
  presence never changes the requirement by more than one second.
*/
package engine

import "time"

// StatutoryBreak returns the mandated minimum break in seconds for the
// given gross presence duration. Pure and total: negative input yields 0.
func StatutoryBreak(grossSeconds int) int {
	switch {
	case grossSeconds <= SixHours:
		return 0
	case grossSeconds <= SixHours+HalfHourRamp:
		return grossSeconds - SixHours
	case grossSeconds <= NineHours:
		return HalfHourRamp
	case grossSeconds <= NineHours+QuarterRamp:
		return HalfHourRamp + (grossSeconds - NineHours)
	default:
		return HalfHourRamp + QuarterRamp
	}
}

// BreakClassification is the classifier's output for one day.
type BreakClassification struct {
	ManualPauseSeconds  int
	InterruptionSeconds int
}

// ClassifyBreaks walks the adjacent OUT->IN pairs of a normalized day
// and accumulates their clipped durations. Gaps are clipped to the
// effective window [first, last]; a pair entirely outside contributes
// nothing, a pair partially outside is clipped (clamped at zero).
//
// With shortBreakLogic enabled, gaps below ShortBreakThreshold count as
// work interruptions; everything else is a manual pause.
func ClassifyBreaks(events []BookingEvent, first, last time.Time, shortBreakLogic bool) BreakClassification {
	var c BreakClassification

	for i := 0; i+1 < len(events); i++ {
		if events[i].Action != ActionOut || events[i+1].Action != ActionIn {
			continue
		}

		start := events[i].Timestamp
		end := events[i+1].Timestamp
		if start.Before(first) {
			start = first
		}
		if end.After(last) {
			end = last
		}

		gap := int(end.Sub(start).Seconds())
		if gap <= 0 {
			continue
		}

		if shortBreakLogic && gap < ShortBreakThreshold {
			c.InterruptionSeconds += gap
		} else {
			c.ManualPauseSeconds += gap
		}
	}

	return c
}

/*
day.go - The Daily Stats Engine

PURPOSE:
  ComputeDay is the single source of per-day truth. Day view, week view,
  the overtime ledger, and the statistics aggregator are all built
  strictly on top of its output; none of them re-derive worked time from
  raw events themselves.

COMPUTATION STEPS:
  1. Normalize the event sequence (sequence.go).
  2. Determine first/last stamps; an ongoing day ending in IN runs
     until "now".
  3. Clip both to the configured work window for that calendar date.
     An inverted clip collapses to a zero-length interval.
  4. Gross = clipped last - clipped first.
  5. Classify OUT->IN gaps into manual pauses and interruptions.
  6. Statutory break for the gross duration.
  7. Deducted pause = max(manual, statutory): a longer voluntary break
     does not shrink net work below what was truly absent, and a short
     or skipped break does not dodge the statutory minimum.
  8. Net = max(0, gross - deducted - interruptions).
  9. Cap net at 10 hours.
 10. Overtime = capped net - daily target (signed).
*/
package engine

import "time"

// ComputeDay maps one day's sorted events plus configuration into the
// day's derived figures. Pure: identical inputs yield identical output.
//
// ongoing reports whether the day may still be in progress; only then is
// a trailing IN treated as an open session running until now. For a
// finished day a trailing IN is an orphan and is dropped.
func ComputeDay(events []BookingEvent, cfg WorkConfig, now time.Time, ongoing bool) DayComputation {
	normalized, dropped := NormalizeSequence(events)
	if !ongoing {
		before := len(normalized)
		normalized = dropDanglingIn(normalized)
		dropped += before - len(normalized)
	}

	if len(normalized) == 0 {
		return DayComputation{DroppedEvents: dropped}
	}

	first := normalized[0].Timestamp
	last := normalized[len(normalized)-1].Timestamp
	open := false
	if ongoing && normalized[len(normalized)-1].Action == ActionIn {
		last = now
		open = true
	}

	winStart := cfg.WorkStart.On(first)
	winEnd := cfg.WorkEnd.On(first)

	effFirst := first
	if effFirst.Before(winStart) {
		effFirst = winStart
	}
	effLast := last
	if effLast.After(winEnd) {
		effLast = winEnd
	}
	if effLast.Before(effFirst) {
		effLast = effFirst
	}

	gross := int(effLast.Sub(effFirst).Seconds())
	if gross < 0 {
		gross = 0
	}

	breaks := ClassifyBreaks(normalized, effFirst, effLast, cfg.ShortBreakLogic)
	statutory := StatutoryBreak(gross)

	deducted := breaks.ManualPauseSeconds
	if statutory > deducted {
		deducted = statutory
	}

	net := gross - deducted - breaks.InterruptionSeconds
	if net < 0 {
		net = 0
	}
	capped := net
	if capped > MaxDailyWorkSeconds {
		capped = MaxDailyWorkSeconds
	}

	return DayComputation{
		GrossSessionSeconds:   gross,
		ManualPauseSeconds:    breaks.ManualPauseSeconds,
		InterruptionSeconds:   breaks.InterruptionSeconds,
		StatutoryBreakSeconds: statutory,
		DeductedPauseSeconds:  deducted,
		TotalPauseSeconds:     deducted + breaks.InterruptionSeconds,
		WorkedSeconds:         capped,
		OvertimeSeconds:       capped - cfg.TargetWorkSeconds,
		FirstStamp:            first,
		LastStamp:             last,
		Open:                  open,
		DroppedEvents:         dropped,
	}
}

// IsFinished reports whether a day is closed for ledger purposes: any
// day strictly before today, or today once its last event is OUT.
func IsFinished(day DayEvents, now time.Time) bool {
	if day.Date.Before(startOfDay(now)) {
		return true
	}
	if !SameDay(day.Date, now) {
		return false
	}
	normalized, _ := NormalizeSequence(day.Events)
	n := len(normalized)
	return n > 0 && normalized[n-1].Action == ActionOut
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

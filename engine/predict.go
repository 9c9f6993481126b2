/*
predict.go - The Prediction Engine

PURPOSE:
  For a day currently in progress, estimate the wall-clock time at which
  net worked time reaches a milestone: the fixed 6h/9h/10h marks or the
  user's personal daily target.

SELF-REFERENTIAL BREAK PROBLEM:
  The statutory break owed at the (unknown) end of day depends on the
  gross presence at that end, which depends on the break. The schedule
  is piecewise and not trivially invertible, so the personal-target
  estimate uses bounded fixed-point iteration:

      estimate = now + (target_net - current_net)
      repeat up to 5 times:
          future_gross = clip(estimate, window_end) - effective_first
          future_break = StatutoryBreak(future_gross)   [>= 50m if extended pause]
          additional   = max(0, future_break - already_deducted_pause)
          estimate     = now + (target_net - current_net) + additional
      stop early once the estimate moves by < 1 second

  Non-convergence within the step bound returns the last estimate; the
  loop never runs unboundedly.

FIXED MILESTONES:
  The 6h/9h/10h marks assume a fixed total break (0m, 30m, 45m) and
  resolve in a single step, no iteration.

UNREACHABLE MILESTONES:
  An estimate past the configured work-window end is reported as
  unreachable for the day, a distinct result value rather than a
  misleading cross-day timestamp.
*/
package engine

import "time"

// MilestoneStatus classifies a milestone estimate.
type MilestoneStatus string

const (
	// MilestonePending means the milestone lies ahead; At carries the estimate.
	MilestonePending MilestoneStatus = "pending"
	// MilestoneMet means net worked time already reached the milestone.
	MilestoneMet MilestoneStatus = "met"
	// MilestoneUnreachable means the estimate falls past the work window end.
	MilestoneUnreachable MilestoneStatus = "unreachable"
)

// MilestoneEstimate is the prediction for a single milestone.
type MilestoneEstimate struct {
	Status MilestoneStatus
	At     time.Time // valid only when Status == MilestonePending
}

// DayForecast is the full prediction for a day in progress.
type DayForecast struct {
	// InProgress is false when the day has no open session; all
	// estimates are then zero-valued.
	InProgress bool

	// CurrentNetSeconds is net worked time as of now.
	CurrentNetSeconds int

	// RemainingSeconds is the shortfall to the personal target, floored
	// at zero.
	RemainingSeconds int

	SixHour  MilestoneEstimate
	NineHour MilestoneEstimate
	TenHour  MilestoneEstimate
	Target   MilestoneEstimate
}

const (
	predictMaxIterations = 5
	predictConvergence   = time.Second
)

// PredictMilestones computes wall-clock estimates for the fixed 6h/9h/10h
// milestones and the personal daily target. The day counts as in
// progress only when its normalized sequence ends with IN.
func PredictMilestones(events []BookingEvent, cfg WorkConfig, now time.Time) DayForecast {
	normalized, _ := NormalizeSequence(events)
	if n := len(normalized); n == 0 || normalized[n-1].Action != ActionIn {
		return DayForecast{}
	}

	day := ComputeDay(events, cfg, now, true)

	remaining := cfg.TargetWorkSeconds - day.WorkedSeconds
	if remaining < 0 {
		remaining = 0
	}

	first := normalized[0].Timestamp
	winStart := cfg.WorkStart.On(first)
	winEnd := cfg.WorkEnd.On(first)
	effFirst := first
	if effFirst.Before(winStart) {
		effFirst = winStart
	}

	p := predictor{
		now:      now,
		effFirst: effFirst,
		winEnd:   winEnd,
		cfg:      cfg,
		net:      day.WorkedSeconds,
		deducted: day.DeductedPauseSeconds,
	}

	return DayForecast{
		InProgress:        true,
		CurrentNetSeconds: day.WorkedSeconds,
		RemainingSeconds:  remaining,
		SixHour:           p.fixed(SixHours, 0),
		NineHour:          p.fixed(NineHours, HalfHourRamp),
		TenHour:           p.fixed(TenHours, HalfHourRamp+QuarterRamp),
		Target:            p.iterative(cfg.TargetWorkSeconds),
	}
}

type predictor struct {
	now      time.Time
	effFirst time.Time
	winEnd   time.Time
	cfg      WorkConfig
	net      int
	deducted int
}

// fixed resolves a milestone that assumes an exact total break in one step.
func (p predictor) fixed(targetNet, forcedBreak int) MilestoneEstimate {
	if p.net >= targetNet {
		return MilestoneEstimate{Status: MilestoneMet}
	}

	additional := forcedBreak - p.deducted
	if additional < 0 {
		additional = 0
	}
	estimate := p.now.Add(time.Duration(targetNet-p.net+additional) * time.Second)
	return p.finish(estimate)
}

// iterative resolves the personal target through fixed-point iteration.
func (p predictor) iterative(targetNet int) MilestoneEstimate {
	if p.net >= targetNet {
		return MilestoneEstimate{Status: MilestoneMet}
	}

	remaining := time.Duration(targetNet-p.net) * time.Second
	estimate := p.now.Add(remaining)

	for i := 0; i < predictMaxIterations; i++ {
		clipped := estimate
		if clipped.After(p.winEnd) {
			clipped = p.winEnd
		}
		futureGross := int(clipped.Sub(p.effFirst).Seconds())
		if futureGross < 0 {
			futureGross = 0
		}

		futureBreak := StatutoryBreak(futureGross)
		if p.cfg.ExtendedPause && futureBreak < ExtendedPauseFloor {
			futureBreak = ExtendedPauseFloor
		}

		additional := futureBreak - p.deducted
		if additional < 0 {
			additional = 0
		}

		next := p.now.Add(remaining + time.Duration(additional)*time.Second)
		delta := next.Sub(estimate)
		estimate = next
		if delta > -predictConvergence && delta < predictConvergence {
			break
		}
	}

	return p.finish(estimate)
}

func (p predictor) finish(estimate time.Time) MilestoneEstimate {
	if estimate.After(p.winEnd) {
		return MilestoneEstimate{Status: MilestoneUnreachable}
	}
	return MilestoneEstimate{Status: MilestonePending, At: estimate}
}

package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/engine"
)

// =============================================================================
// PREDICTION - PERSONAL TARGET
// =============================================================================

func TestPredict_PersonalTarget_Converges(t *testing.T) {
	// GIVEN: Clocked in 08:00, now 09:00, no pause taken, target 7h48m
	// WHEN:  Predicting the personal target
	// THEN:  Remaining net is 6h48m; the projected gross lands in the
	//        30-minute flat zone, so the estimate is now + 6h48m + 30m

	events := []engine.BookingEvent{in(8, 0)}
	forecast := engine.PredictMilestones(events, testConfig(), at(9, 0))

	require.True(t, forecast.InProgress)
	assert.Equal(t, 3600, forecast.CurrentNetSeconds)
	assert.Equal(t, 24480, forecast.RemainingSeconds)

	require.Equal(t, engine.MilestonePending, forecast.Target.Status)
	want := at(9, 0).Add(time.Duration(24480+1800) * time.Second) // 16:18
	assert.Equal(t, want, forecast.Target.At)
}

func TestPredict_SelfConsistency(t *testing.T) {
	// GIVEN: A synthetic day with no manual pause
	// WHEN:  Evaluating ComputeDay at the predicted target time
	// THEN:  Net worked is within a second of the target

	cfg := testConfig()
	events := []engine.BookingEvent{in(8, 0)}

	forecast := engine.PredictMilestones(events, cfg, at(9, 0))
	require.Equal(t, engine.MilestonePending, forecast.Target.Status)

	dc := engine.ComputeDay(events, cfg, forecast.Target.At, true)
	assert.InDelta(t, cfg.TargetWorkSeconds, dc.WorkedSeconds, 1)
}

func TestPredict_AccountsForPauseAlreadyTaken(t *testing.T) {
	// GIVEN: 08:00-12:00 worked, 30m lunch, back since 12:30, now 13:00
	// THEN:  The deducted 30m already covers the statutory requirement,
	//        so no additional break inflates the estimate.

	cfg := testConfig()
	events := []engine.BookingEvent{in(8, 0), out(12, 0), in(12, 30)}
	now := at(13, 0)

	forecast := engine.PredictMilestones(events, cfg, now)
	require.Equal(t, engine.MilestonePending, forecast.Target.Status)

	// Net so far: 4h30m gross-minus-pause arithmetic per ComputeDay.
	dc := engine.ComputeDay(events, cfg, now, true)
	remaining := cfg.TargetWorkSeconds - dc.WorkedSeconds
	want := now.Add(time.Duration(remaining) * time.Second)
	assert.Equal(t, want, forecast.Target.At)

	dcEnd := engine.ComputeDay(events, cfg, forecast.Target.At, true)
	assert.InDelta(t, cfg.TargetWorkSeconds, dcEnd.WorkedSeconds, 1)
}

func TestPredict_ExtendedPauseFloorsBreak(t *testing.T) {
	// With extended pause enabled the projected break is at least 50m.
	cfg := testConfig()
	cfg.ExtendedPause = true

	events := []engine.BookingEvent{in(8, 0)}
	forecast := engine.PredictMilestones(events, cfg, at(9, 0))

	require.Equal(t, engine.MilestonePending, forecast.Target.Status)
	want := at(9, 0).Add(time.Duration(24480+engine.ExtendedPauseFloor) * time.Second)
	assert.Equal(t, want, forecast.Target.At)
}

// =============================================================================
// PREDICTION - FIXED MILESTONES
// =============================================================================

func TestPredict_FixedMilestones_SingleStep(t *testing.T) {
	// GIVEN: Clocked in 07:00, now 08:00, no pause taken
	// THEN:  6h net (0m assumed break) at 13:00,
	//        9h net (30m assumed break) at 16:30,
	//        10h net (45m assumed break) at 17:45.

	events := []engine.BookingEvent{in(7, 0)}
	forecast := engine.PredictMilestones(events, testConfig(), at(8, 0))

	require.Equal(t, engine.MilestonePending, forecast.SixHour.Status)
	assert.Equal(t, at(13, 0), forecast.SixHour.At)

	require.Equal(t, engine.MilestonePending, forecast.NineHour.Status)
	assert.Equal(t, at(16, 30), forecast.NineHour.At)

	require.Equal(t, engine.MilestonePending, forecast.TenHour.Status)
	assert.Equal(t, at(17, 45), forecast.TenHour.At)
}

func TestPredict_MilestoneAlreadyMet(t *testing.T) {
	// 06:30 clock-in, now 13:30: 7h net, the 6h milestone is history.
	events := []engine.BookingEvent{in(6, 30)}
	forecast := engine.PredictMilestones(events, testConfig(), at(13, 30))

	assert.Equal(t, engine.MilestoneMet, forecast.SixHour.Status)
	assert.Equal(t, engine.MilestonePending, forecast.NineHour.Status)
}

func TestPredict_UnreachablePastWindowEnd(t *testing.T) {
	// GIVEN: Clocked in 11:00, now 11:30, window ends 18:30
	// THEN:  10h net cannot happen today; reported unreachable, not as a
	//        cross-day timestamp.

	events := []engine.BookingEvent{in(11, 0)}
	forecast := engine.PredictMilestones(events, testConfig(), at(11, 30))

	assert.Equal(t, engine.MilestoneUnreachable, forecast.TenHour.Status)
	assert.True(t, forecast.TenHour.At.IsZero())
}

// =============================================================================
// PREDICTION - NOT IN PROGRESS
// =============================================================================

func TestPredict_ClosedDay_NoForecast(t *testing.T) {
	events := []engine.BookingEvent{in(8, 0), out(16, 0)}
	forecast := engine.PredictMilestones(events, testConfig(), at(16, 30))

	assert.False(t, forecast.InProgress)
	assert.Equal(t, engine.MilestoneEstimate{}, forecast.Target)
}

func TestPredict_EmptyDay_NoForecast(t *testing.T) {
	forecast := engine.PredictMilestones(nil, testConfig(), at(12, 0))
	assert.False(t, forecast.InProgress)
}

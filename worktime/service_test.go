package worktime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/engine"
	"github.com/warp/worktime-engine/worktime"
	"github.com/warp/worktime-engine/worktime/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var berlin = mustLoadLocation("Europe/Berlin")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// newTestTracker returns a tracker with a controllable clock.
func newTestTracker() (*worktime.Tracker, *time.Time) {
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, berlin)
	tracker := worktime.NewTracker(store.NewMemory(), berlin)
	tracker.Now = func() time.Time { return now }
	return tracker, &now
}

func ts(day, hour, min int) time.Time {
	return time.Date(2025, time.March, day, hour, min, 0, 0, berlin)
}

// =============================================================================
// STAMP TOGGLING
// =============================================================================

func TestStamp_TogglesInOut(t *testing.T) {
	tracker, now := newTestTracker()
	ctx := context.Background()

	first, err := tracker.Stamp(ctx, "leon")
	require.NoError(t, err)
	assert.Equal(t, worktime.StampedIn, first.Status)

	*now = ts(10, 12, 0)
	second, err := tracker.Stamp(ctx, "leon")
	require.NoError(t, err)
	assert.Equal(t, worktime.StampedOut, second.Status)

	*now = ts(10, 12, 30)
	third, err := tracker.Stamp(ctx, "leon")
	require.NoError(t, err)
	assert.Equal(t, worktime.StampedIn, third.Status)
}

func TestCurrentStatus_ReportsRunningDuration(t *testing.T) {
	tracker, now := newTestTracker()
	ctx := context.Background()

	_, err := tracker.Stamp(ctx, "leon")
	require.NoError(t, err)

	*now = ts(10, 9, 30)
	status, err := tracker.CurrentStatus(ctx, "leon")
	require.NoError(t, err)

	assert.True(t, status.ClockedIn)
	assert.Equal(t, ts(10, 8, 0), status.Since)
	assert.Equal(t, 90*time.Minute, status.Duration)
}

func TestCurrentStatus_OutWhenNeverStamped(t *testing.T) {
	tracker, _ := newTestTracker()

	status, err := tracker.CurrentStatus(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, status.ClockedIn)
}

// =============================================================================
// DAY AND WEEK SUMMARIES
// =============================================================================

func TestDay_ComputesFromStampedEvents(t *testing.T) {
	tracker, now := newTestTracker()
	ctx := context.Background()

	stampAt := func(day, hour, min int) {
		*now = ts(day, hour, min)
		_, err := tracker.Stamp(ctx, "leon")
		require.NoError(t, err)
	}

	stampAt(10, 8, 0)
	stampAt(10, 12, 0)
	stampAt(10, 12, 30)
	stampAt(10, 16, 0)
	*now = ts(10, 23, 0)

	summary, err := tracker.Day(ctx, "leon", ts(10, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, 8*3600, summary.Stats.GrossSessionSeconds)
	assert.Equal(t, 23400, summary.Stats.WorkedSeconds)
	require.Len(t, summary.Sessions, 2)
	assert.Equal(t, ts(10, 8, 0), summary.Sessions[0].Start)
	assert.Equal(t, ts(10, 12, 0), summary.Sessions[0].End)
}

func TestWeek_SumsFinishedDays(t *testing.T) {
	tracker, now := newTestTracker()
	ctx := context.Background()

	// Monday and Tuesday of ISO week 11 via manual sessions.
	require.NoError(t, tracker.CreateSession(ctx, "leon", ts(10, 0, 0),
		engine.ClockTime{Hour: 8}, engine.ClockTime{Hour: 16, Minute: 18}))
	require.NoError(t, tracker.CreateSession(ctx, "leon", ts(11, 0, 0),
		engine.ClockTime{Hour: 8}, engine.ClockTime{Hour: 15}))

	*now = ts(12, 9, 0)
	week, err := tracker.Week(ctx, "leon", 2025, 11)
	require.NoError(t, err)

	assert.Equal(t, 28080+23400, week.WorkedSeconds)
	assert.Equal(t, 0+(23400-28080), week.OvertimeSeconds)
	assert.Equal(t, 5*28080, week.TargetSeconds)
}

// =============================================================================
// MANUAL SESSIONS
// =============================================================================

func TestCreateSession_OvernightWraps(t *testing.T) {
	tracker, _ := newTestTracker()
	ctx := context.Background()

	err := tracker.CreateSession(ctx, "leon", ts(10, 0, 0),
		engine.ClockTime{Hour: 22}, engine.ClockTime{Hour: 2})
	require.NoError(t, err)

	bookings, err := tracker.ListBookings(ctx, "leon", 10)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	// Newest first: the OUT landed on the 11th.
	assert.Equal(t, engine.ActionOut, bookings[0].Action)
	assert.Equal(t, 11, bookings[0].Timestamp.Day())
}

func TestDeleteBooking_RemovesEvent(t *testing.T) {
	tracker, _ := newTestTracker()
	ctx := context.Background()

	require.NoError(t, tracker.CreateSession(ctx, "leon", ts(10, 0, 0),
		engine.ClockTime{Hour: 8}, engine.ClockTime{Hour: 16}))

	bookings, err := tracker.ListBookings(ctx, "leon", 10)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	require.NoError(t, tracker.DeleteBooking(ctx, "leon", bookings[0].ID))

	remaining, err := tracker.ListBookings(ctx, "leon", 10)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	err = tracker.DeleteBooking(ctx, "leon", 9999)
	assert.ErrorIs(t, err, worktime.ErrBookingNotFound)
}

// =============================================================================
// ADJUSTMENTS AND OVERTIME
// =============================================================================

func TestAdjust_SupersedesSameDay(t *testing.T) {
	// GIVEN: An adjustment of +2h pinned to March 11
	// WHEN:  A second adjustment of +30m targets the same date
	// THEN:  Only the 30m survives; appending both would double-count

	tracker, now := newTestTracker()
	ctx := context.Background()

	_, err := tracker.Adjust(ctx, "leon", ts(11, 0, 0), 2*3600, "granted")
	require.NoError(t, err)
	_, err = tracker.Adjust(ctx, "leon", ts(11, 15, 0), 1800, "corrected")
	require.NoError(t, err)

	*now = ts(12, 9, 0)
	report, err := tracker.Overtime(ctx, "leon")
	require.NoError(t, err)

	require.Len(t, report.Adjustments, 1)
	assert.Equal(t, 1800, report.BalanceSeconds)
	assert.Equal(t, "corrected", report.Adjustments[0].Reason)
}

func TestOvertime_CombinesDaysAndAdjustments(t *testing.T) {
	tracker, now := newTestTracker()
	ctx := context.Background()

	// A closed day 78 minutes short, plus a +78m adjustment: net zero.
	require.NoError(t, tracker.CreateSession(ctx, "leon", ts(10, 0, 0),
		engine.ClockTime{Hour: 8}, engine.ClockTime{Hour: 15}))
	_, err := tracker.Adjust(ctx, "leon", ts(10, 0, 0), 4680, "make-up")
	require.NoError(t, err)

	*now = ts(11, 9, 0)
	report, err := tracker.Overtime(ctx, "leon")
	require.NoError(t, err)

	assert.Equal(t, 0, report.BalanceSeconds)
	assert.True(t, report.FreeDays.IsZero())
}

// =============================================================================
// CONFIGURATION
// =============================================================================

func TestSaveConfig_RoundTripsThroughComputation(t *testing.T) {
	tracker, now := newTestTracker()
	ctx := context.Background()

	err := tracker.SaveConfig(ctx, "leon", worktime.ConfigRecord{
		TargetWorkSeconds: 6 * 3600,
		WorkStart:         "07:00",
		WorkEnd:           "17:00",
		ShortBreakLogic:   true,
	})
	require.NoError(t, err)

	// Presence 06:00-18:00 must clip to the custom 07:00-17:00 window.
	require.NoError(t, tracker.CreateSession(ctx, "leon", ts(10, 0, 0),
		engine.ClockTime{Hour: 6}, engine.ClockTime{Hour: 18}))

	*now = ts(10, 23, 0)
	summary, err := tracker.Day(ctx, "leon", ts(10, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, 10*3600, summary.Stats.GrossSessionSeconds)
	assert.Equal(t, 6*3600, summary.Config.TargetWorkSeconds)
}

func TestSaveConfig_RejectsInvertedWindow(t *testing.T) {
	tracker, _ := newTestTracker()

	err := tracker.SaveConfig(context.Background(), "leon", worktime.ConfigRecord{
		WorkStart: "18:00",
		WorkEnd:   "06:00",
	})
	assert.ErrorIs(t, err, engine.ErrInvalidWindow)
}

package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/engine"
)

// =============================================================================
// RANGE AGGREGATION
// =============================================================================

func TestAggregate_DailySeries_ExcludesCurrentDay(t *testing.T) {
	// GIVEN: Three days of history, the last one still in progress
	// WHEN:  Aggregating over all three
	// THEN:  The in-progress day appears in no series

	agg := &engine.Aggregator{Config: testConfig()}
	now := time.Date(2025, time.March, 12, 11, 0, 0, 0, berlin)

	history := []engine.DayEvents{
		day(10, in(8, 0), out(16, 18)),
		day(11, in(8, 0), out(15, 0)),
		day(12, in(8, 0)), // today, open
	}

	stats := agg.AggregateRange(history, nil, date(10), date(12), now)

	require.Len(t, stats.Daily, 2)
	assert.Equal(t, date(10), stats.Daily[0].Date)
	assert.Equal(t, date(11), stats.Daily[1].Date)
	require.Len(t, stats.Trend, 2)
}

func TestAggregate_EmptyDaysCarryZeroStats(t *testing.T) {
	agg := &engine.Aggregator{Config: testConfig()}
	now := time.Date(2025, time.March, 20, 12, 0, 0, 0, berlin)

	history := []engine.DayEvents{day(10, in(8, 0), out(16, 18))}

	stats := agg.AggregateRange(history, nil, date(10), date(12), now)

	require.Len(t, stats.Daily, 3)
	assert.True(t, stats.Daily[0].HasEvents)
	assert.False(t, stats.Daily[1].HasEvents)
	assert.Zero(t, stats.Daily[1].Stats.WorkedSeconds)
}

func TestAggregate_WeeklyBucketsByISOWeek(t *testing.T) {
	// GIVEN: Two days in ISO week 11 (Mar 10-16, 2025) and one in week 12
	// THEN:  Two weekly buckets with the right day counts and targets

	agg := &engine.Aggregator{Config: testConfig()}
	now := time.Date(2025, time.March, 20, 12, 0, 0, 0, berlin)

	history := []engine.DayEvents{
		day(10, in(8, 0), out(16, 18)), // Monday, week 11
		day(12, in(8, 0), out(15, 0)),  // Wednesday, week 11
		day(17, in(8, 0), out(16, 18)), // Monday, week 12
	}

	stats := agg.AggregateRange(history, nil, date(10), date(18), now)

	require.Len(t, stats.Weekly, 2)

	week11 := stats.Weekly[0]
	assert.Equal(t, 2025, week11.Year)
	assert.Equal(t, 11, week11.Week)
	assert.Equal(t, 2, week11.Days)
	assert.Equal(t, 28080+23400, week11.WorkedSeconds)
	assert.Equal(t, 2*28080, week11.TargetSeconds)

	week12 := stats.Weekly[1]
	assert.Equal(t, 12, week12.Week)
	assert.Equal(t, 1, week12.Days)
}

func TestAggregate_TrendMatchesLedger(t *testing.T) {
	// GIVEN: History with overtime swings and adjustments
	// THEN:  Every trend point equals a fresh ledger balance evaluated at
	//        the end of that day.

	cfg := testConfig()
	cfg.TimeOffsetSeconds = 1800
	agg := &engine.Aggregator{Config: cfg}
	ledger := &engine.Ledger{Config: cfg}
	now := time.Date(2025, time.March, 20, 12, 0, 0, 0, berlin)

	history := []engine.DayEvents{
		day(9, in(8, 0), out(18, 0)), // before the range, seeds the baseline
		day(10, in(8, 0), out(15, 0)),
		day(11, in(8, 0), out(16, 18)),
		day(13, in(9, 0), out(18, 0)),
	}
	adjustments := []engine.Adjustment{
		adjustmentOn(11, 1200),
		adjustmentOn(12, -600),
	}

	stats := agg.AggregateRange(history, adjustments, date(10), date(14), now)

	require.Len(t, stats.Trend, 5)
	for _, point := range stats.Trend {
		endOfDay := point.Date.AddDate(0, 0, 1)
		want := ledger.Balance(history, adjustments, now, endOfDay)
		assert.Equal(t, want, point.BalanceSeconds, "trend at %s", point.Date.Format("2006-01-02"))
	}
}

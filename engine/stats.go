/*
stats.go - The Statistics Aggregator

PURPOSE:
  Folds the Daily Stats Engine over a date range into three series:

  - Daily:  one DayComputation per calendar day in the range.
  - Weekly: daily figures bucketed by ISO calendar week.
  - Trend:  the running overtime ledger balance at the end of each
            successive day, carried forward day-to-day. The update rule
            reuses the ledger's own semantics (finished days only,
            adjustments at their effective date) so the last trend point
            always equals a fresh ledger balance at the same cutoff.

  The current in-progress day is excluded from all three series to
  avoid partial-day distortion.
*/
package engine

import "time"

// DailyStat is one day's computed figures within a range.
type DailyStat struct {
	Date      time.Time
	HasEvents bool
	Stats     DayComputation
}

// WeeklyStat aggregates daily figures for one ISO calendar week.
type WeeklyStat struct {
	Year int
	Week int

	Days            int // days with events
	WorkedSeconds   int
	PauseSeconds    int
	OvertimeSeconds int
	TargetSeconds   int // Days * daily target
}

// TrendPoint is the ledger balance at the end of one day.
type TrendPoint struct {
	Date           time.Time
	BalanceSeconds int
}

// RangeStats is the aggregator's full output.
type RangeStats struct {
	Daily  []DailyStat
	Weekly []WeeklyStat
	Trend  []TrendPoint
}

// Aggregator folds per-day computations over a range. Like the ledger it
// holds configuration only.
type Aggregator struct {
	Config WorkConfig
}

// AggregateRange computes the daily, weekly, and trend series for the
// calendar days in [from, to]. history may span more than the range; days
// before it seed the trend's starting balance so the trend matches
// ledger balances exactly. Both bounds are civil dates (midnight in the
// deployment zone).
func (a *Aggregator) AggregateRange(history []DayEvents, adjustments []Adjustment, from, to, now time.Time) RangeStats {
	byDay := make(map[string]DayEvents, len(history))
	for _, d := range history {
		byDay[dayKey(d.Date)] = d
	}

	ledger := &Ledger{Config: a.Config}
	balance := ledger.Balance(history, adjustments, now, from)

	var stats RangeStats
	weekIndex := make(map[[2]int]int)

	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		day, ok := byDay[dayKey(date)]
		current := SameDay(date, now) && !IsFinished(day, now)
		if current {
			continue
		}

		var dc DayComputation
		if ok {
			dc = ComputeDay(day.Events, a.Config, now, false)
		}

		stats.Daily = append(stats.Daily, DailyStat{
			Date:      date,
			HasEvents: ok && len(day.Events) > 0,
			Stats:     dc,
		})

		if ok && len(day.Events) > 0 {
			year, week := date.ISOWeek()
			idx, seen := weekIndex[[2]int{year, week}]
			if !seen {
				idx = len(stats.Weekly)
				weekIndex[[2]int{year, week}] = idx
				stats.Weekly = append(stats.Weekly, WeeklyStat{Year: year, Week: week})
			}
			w := &stats.Weekly[idx]
			w.Days++
			w.WorkedSeconds += dc.WorkedSeconds
			w.PauseSeconds += dc.TotalPauseSeconds
			w.OvertimeSeconds += dc.OvertimeSeconds
			w.TargetSeconds += a.Config.TargetWorkSeconds
		}

		// Carry the balance forward: realized overtime of the day plus
		// any adjustments effective during it.
		if ok && IsFinished(day, now) {
			balance += dc.OvertimeSeconds
		}
		next := date.AddDate(0, 0, 1)
		for _, adj := range adjustments {
			if !adj.EffectiveAt.Before(date) && adj.EffectiveAt.Before(next) {
				balance += adj.DeltaSeconds
			}
		}

		stats.Trend = append(stats.Trend, TrendPoint{Date: date, BalanceSeconds: balance})
	}

	return stats
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

/*
ledger.go - The cumulative overtime ledger

PURPOSE:
  Aggregates per-day overtime across history plus manual signed
  adjustments into a running balance, and derives the "free days"
  figure from it.

BALANCE FORMULA:
  balance(asOf) = sum(overtime of finished days with day < asOf)
                + sum(adjustment deltas with effective < asOf)
                + config.TimeOffsetSeconds

  "Finished" means any day strictly before today, or today once its
  last event is OUT. The current in-progress day contributes nothing,
  no matter how much has been worked so far: overtime is realized only
  when a day closes.

PRECISION:
  The ledger keeps exact integer seconds. Free days is a decimal
  division for the display boundary; rounding never propagates back.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger computes overtime balances over a booking history. It holds
// configuration only; all data arrives per call.
type Ledger struct {
	Config WorkConfig
}

// Balance returns the overtime balance in seconds as of the asOf cutoff.
// history carries per-day event buckets (order does not matter),
// adjustments the manual corrections. now determines which days count
// as finished.
func (l *Ledger) Balance(history []DayEvents, adjustments []Adjustment, now, asOf time.Time) int {
	balance := l.Config.TimeOffsetSeconds

	for _, day := range history {
		if !day.Date.Before(asOf) {
			continue
		}
		if !IsFinished(day, now) {
			continue
		}
		dc := ComputeDay(day.Events, l.Config, now, false)
		if dc.FirstStamp.IsZero() {
			continue // empty or fully degenerate day carries no overtime
		}
		balance += dc.OvertimeSeconds
	}

	for _, adj := range adjustments {
		if adj.EffectiveAt.Before(asOf) {
			balance += adj.DeltaSeconds
		}
	}

	return balance
}

// FreeDays converts a balance into equivalent workdays at the configured
// daily target. Exact decimal; callers round for display only.
func (l *Ledger) FreeDays(balanceSeconds int) decimal.Decimal {
	if l.Config.TargetWorkSeconds <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(balanceSeconds)).
		Div(decimal.NewFromInt(int64(l.Config.TargetWorkSeconds)))
}

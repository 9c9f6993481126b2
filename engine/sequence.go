/*
sequence.go - Defensive normalization of booking sequences

PURPOSE:
  The surrounding system intends a day's events to strictly alternate
  IN, OUT, IN, OUT... starting with IN. Concurrent edits or manual entry
  can violate that. The engine must not crash on malformed input, so
  every computation first normalizes the day through this file.

NORMALIZATION RULE:
  Keep the longest alternating IN-first subsequence in timestamp order:
  - Leading OUT events (no matching IN) are dropped.
  - Within a run of repeated actions, the first event wins.
  A past day ending in a dangling IN (forgotten clock-out) additionally
  drops that IN, so the day computes from its closed pairs only.

  The rule is deterministic and conservative: it never invents presence,
  it only discards events that cannot be paired.
*/
package engine

import "sort"

// NormalizeSequence returns the day's events reduced to an alternating
// IN-first sequence, plus the number of events dropped. The input is not
// modified; events are sorted by timestamp in the result.
func NormalizeSequence(events []BookingEvent) ([]BookingEvent, int) {
	if len(events) == 0 {
		return nil, 0
	}

	sorted := make([]BookingEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	normalized := make([]BookingEvent, 0, len(sorted))
	expected := ActionIn
	for _, e := range sorted {
		if e.Action != expected {
			continue
		}
		normalized = append(normalized, e)
		if expected == ActionIn {
			expected = ActionOut
		} else {
			expected = ActionIn
		}
	}

	return normalized, len(sorted) - len(normalized)
}

// dropDanglingIn removes a trailing IN from an already-normalized
// sequence. Used for finished days where the final clock-out is missing.
func dropDanglingIn(events []BookingEvent) []BookingEvent {
	if n := len(events); n > 0 && events[n-1].Action == ActionIn {
		return events[:n-1]
	}
	return events
}

/*
service.go - The presence-tracking domain service

PURPOSE:
  Tracker is the single consumer-facing entry point above the store. It
  feeds locally-read snapshots of the booking history into the pure
  engine and never lets engine results flow back into storage: raw
  bookings stay the only source of truth, every figure is recomputed
  per query.

CIVIL CALENDAR:
  One fixed zone per deployment. All day bucketing, week math, and
  "today" decisions happen in that zone; timestamps are converted on
  read so the engine always sees consistent civil time.

CLOCK:
  "now" is injectable for tests and is read ONCE per operation, so the
  window clip and the running-duration math within a single computation
  can never skew against each other.
*/
package worktime

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/worktime-engine/engine"
)

// Tracker wires the store, the civil calendar, and the engine together.
type Tracker struct {
	Store    Store
	Location *time.Location
	Defaults engine.WorkConfig

	// Now is the clock; defaults to time.Now. Tests may override.
	Now func() time.Time
}

// NewTracker creates a tracker in the given civil zone.
func NewTracker(store Store, loc *time.Location) *Tracker {
	return &Tracker{
		Store:    store,
		Location: loc,
		Defaults: engine.DefaultConfig(),
		Now:      time.Now,
	}
}

func (t *Tracker) now() time.Time {
	if t.Now != nil {
		return t.Now().In(t.Location)
	}
	return time.Now().In(t.Location)
}

// NowLocal returns the current time in the tracker's civil zone.
func (t *Tracker) NowLocal() time.Time {
	return t.now()
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// ConfigFor resolves the user's effective work configuration, falling
// back to the tracker defaults for unset users and unparsable records.
func (t *Tracker) ConfigFor(ctx context.Context, userID int64) (engine.WorkConfig, error) {
	record, ok, err := t.Store.GetConfig(ctx, userID)
	if err != nil {
		return engine.WorkConfig{}, err
	}
	if !ok {
		return t.Defaults, nil
	}

	cfg := engine.WorkConfig{
		TargetWorkSeconds: record.TargetWorkSeconds,
		ShortBreakLogic:   record.ShortBreakLogic,
		ExtendedPause:     record.ExtendedPause,
		TimeOffsetSeconds: record.TimeOffsetSeconds,
	}
	if cfg.TargetWorkSeconds <= 0 {
		cfg.TargetWorkSeconds = t.Defaults.TargetWorkSeconds
	}

	cfg.WorkStart = t.Defaults.WorkStart
	cfg.WorkEnd = t.Defaults.WorkEnd
	if start, err := engine.ParseClockTime(record.WorkStart); err == nil {
		cfg.WorkStart = start
	}
	if end, err := engine.ParseClockTime(record.WorkEnd); err == nil {
		cfg.WorkEnd = end
	}

	return cfg, nil
}

// SaveConfig persists a user's work configuration after validating the
// window.
func (t *Tracker) SaveConfig(ctx context.Context, name string, record ConfigRecord) error {
	start, err := engine.ParseClockTime(record.WorkStart)
	if err != nil {
		return err
	}
	end, err := engine.ParseClockTime(record.WorkEnd)
	if err != nil {
		return err
	}
	if err := engine.ValidateWindow(engine.WorkConfig{WorkStart: start, WorkEnd: end}); err != nil {
		return err
	}

	user, err := t.Store.GetOrCreateUser(ctx, name)
	if err != nil {
		return err
	}
	return t.Store.SaveConfig(ctx, user.ID, record)
}

// =============================================================================
// STAMPING
// =============================================================================

// Stamp toggles the user's presence: IN when the last booking was OUT
// (or none exists), OUT otherwise.
func (t *Tracker) Stamp(ctx context.Context, name string) (StampResult, error) {
	user, err := t.Store.GetOrCreateUser(ctx, name)
	if err != nil {
		return StampResult{}, err
	}

	now := t.now()
	action := engine.ActionIn
	last, err := t.Store.LastBooking(ctx, user.ID)
	if err != nil {
		return StampResult{}, err
	}
	if last != nil && last.Action == engine.ActionIn {
		action = engine.ActionOut
	}

	_, err = t.Store.AppendBooking(ctx, Booking{
		UserID:       user.ID,
		BookingEvent: engine.BookingEvent{Timestamp: now, Action: action},
	})
	if err != nil {
		return StampResult{}, err
	}

	status := StampedIn
	if action == engine.ActionOut {
		status = StampedOut
	}
	return StampResult{Status: status, Timestamp: now}, nil
}

// Status reports whether the user is currently clocked in and for how long.
type Status struct {
	ClockedIn bool
	Since     time.Time
	Duration  time.Duration
}

// CurrentStatus returns the user's live presence status.
func (t *Tracker) CurrentStatus(ctx context.Context, name string) (Status, error) {
	user, err := t.Store.GetOrCreateUser(ctx, name)
	if err != nil {
		return Status{}, err
	}

	last, err := t.Store.LastBooking(ctx, user.ID)
	if err != nil {
		return Status{}, err
	}
	if last == nil || last.Action != engine.ActionIn {
		return Status{}, nil
	}

	now := t.now()
	since := last.Timestamp.In(t.Location)
	return Status{ClockedIn: true, Since: since, Duration: now.Sub(since)}, nil
}

// =============================================================================
// MANUAL SESSIONS
// =============================================================================

// CreateSession enters a closed IN/OUT pair for a date. An end before
// the start wraps to the next day (overnight session).
func (t *Tracker) CreateSession(ctx context.Context, name string, date time.Time, start, end engine.ClockTime) error {
	user, err := t.Store.GetOrCreateUser(ctx, name)
	if err != nil {
		return err
	}

	date = date.In(t.Location)
	startAt := start.On(date)
	endAt := end.On(date)
	if !endAt.After(startAt) {
		endAt = endAt.AddDate(0, 0, 1)
	}
	if !endAt.After(startAt) {
		return ErrSessionInverted
	}

	if _, err := t.Store.AppendBooking(ctx, Booking{
		UserID:       user.ID,
		BookingEvent: engine.BookingEvent{Timestamp: startAt, Action: engine.ActionIn},
	}); err != nil {
		return err
	}
	_, err = t.Store.AppendBooking(ctx, Booking{
		UserID:       user.ID,
		BookingEvent: engine.BookingEvent{Timestamp: endAt, Action: engine.ActionOut},
	})
	return err
}

// DeleteBooking removes one stored clock event.
func (t *Tracker) DeleteBooking(ctx context.Context, name string, bookingID int64) error {
	user, err := t.Store.GetOrCreateUser(ctx, name)
	if err != nil {
		return err
	}
	return t.Store.DeleteBooking(ctx, user.ID, bookingID)
}

// ListBookings returns the user's most recent bookings, newest first.
func (t *Tracker) ListBookings(ctx context.Context, name string, limit int) ([]Booking, error) {
	user, err := t.Store.GetOrCreateUser(ctx, name)
	if err != nil {
		return nil, err
	}

	// A generous window; the store sorts ascending, we trim from the tail.
	now := t.now()
	bookings, err := t.Store.BookingsInRange(ctx, user.ID, now.AddDate(-2, 0, 0), now.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(bookings) > limit {
		bookings = bookings[len(bookings)-limit:]
	}
	// Newest first for display.
	for i, j := 0, len(bookings)-1; i < j; i, j = i+1, j-1 {
		bookings[i], bookings[j] = bookings[j], bookings[i]
	}
	return bookings, nil
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

// Adjust records a manual overtime correction effective on the given
// date, superseding any adjustment already pinned to that date.
func (t *Tracker) Adjust(ctx context.Context, name string, date time.Time, deltaSeconds int, reason string) (StoredAdjustment, error) {
	user, err := t.Store.GetOrCreateUser(ctx, name)
	if err != nil {
		return StoredAdjustment{}, err
	}

	day := t.startOfDay(date.In(t.Location))
	return t.Store.SaveAdjustment(ctx, StoredAdjustment{
		UserID: user.ID,
		Adjustment: engine.Adjustment{
			EffectiveAt:  day,
			DeltaSeconds: deltaSeconds,
			Reason:       reason,
		},
	})
}

// =============================================================================
// SUMMARIES - all built on engine.ComputeDay
// =============================================================================

// SessionPair is one closed (or open) IN/OUT pair for display.
type SessionPair struct {
	InID  int64
	OutID int64 // zero for an open pair
	Start time.Time
	End   time.Time // zero for an open pair
}

// DaySummary is a day's computed figures plus its session breakdown.
type DaySummary struct {
	Date     time.Time
	Config   engine.WorkConfig
	Stats    engine.DayComputation
	Sessions []SessionPair
}

// Day computes the summary for one calendar date.
func (t *Tracker) Day(ctx context.Context, name string, date time.Time) (DaySummary, error) {
	user, err := t.Store.GetOrCreateUser(ctx, name)
	if err != nil {
		return DaySummary{}, err
	}
	cfg, err := t.ConfigFor(ctx, user.ID)
	if err != nil {
		return DaySummary{}, err
	}

	date = t.startOfDay(date.In(t.Location))
	bookings, err := t.Store.BookingsInRange(ctx, user.ID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return DaySummary{}, err
	}

	now := t.now()
	events := toEvents(bookings, t.Location)
	ongoing := engine.SameDay(date, now)

	return DaySummary{
		Date:     date,
		Config:   cfg,
		Stats:    engine.ComputeDay(events, cfg, now, ongoing),
		Sessions: pairSessions(bookings, t.Location),
	}, nil
}

// WeekSummary aggregates one ISO calendar week.
type WeekSummary struct {
	Year int
	Week int

	WorkedSeconds   int
	PauseSeconds    int
	OvertimeSeconds int
	TargetSeconds   int // five workdays at the daily target
}

// Week computes the summary for an ISO calendar week. The current
// in-progress day is excluded, matching the statistics semantics.
func (t *Tracker) Week(ctx context.Context, name string, year, week int) (WeekSummary, error) {
	user, err := t.Store.GetOrCreateUser(ctx, name)
	if err != nil {
		return WeekSummary{}, err
	}
	cfg, err := t.ConfigFor(ctx, user.ID)
	if err != nil {
		return WeekSummary{}, err
	}

	start := isoWeekStart(year, week, t.Location)
	end := start.AddDate(0, 0, 7)
	history, err := t.historyInRange(ctx, user.ID, start, end)
	if err != nil {
		return WeekSummary{}, err
	}

	now := t.now()
	summary := WeekSummary{Year: year, Week: week, TargetSeconds: 5 * cfg.TargetWorkSeconds}
	for _, day := range history {
		if engine.SameDay(day.Date, now) && !engine.IsFinished(day, now) {
			continue
		}
		dc := engine.ComputeDay(day.Events, cfg, now, false)
		summary.WorkedSeconds += dc.WorkedSeconds
		summary.PauseSeconds += dc.TotalPauseSeconds
		summary.OvertimeSeconds += dc.OvertimeSeconds
	}
	return summary, nil
}

// Forecast predicts today's milestones for the user.
func (t *Tracker) Forecast(ctx context.Context, name string) (engine.DayForecast, error) {
	user, err := t.Store.GetOrCreateUser(ctx, name)
	if err != nil {
		return engine.DayForecast{}, err
	}
	cfg, err := t.ConfigFor(ctx, user.ID)
	if err != nil {
		return engine.DayForecast{}, err
	}

	now := t.now()
	today := t.startOfDay(now)
	bookings, err := t.Store.BookingsInRange(ctx, user.ID, today, today.AddDate(0, 0, 1))
	if err != nil {
		return engine.DayForecast{}, err
	}

	return engine.PredictMilestones(toEvents(bookings, t.Location), cfg, now), nil
}

// OvertimeReport is the ledger balance with its display derivations.
type OvertimeReport struct {
	BalanceSeconds int
	FreeDays       decimal.Decimal
	Adjustments    []StoredAdjustment
}

// Overtime computes the cumulative overtime balance as of now.
func (t *Tracker) Overtime(ctx context.Context, name string) (OvertimeReport, error) {
	user, err := t.Store.GetOrCreateUser(ctx, name)
	if err != nil {
		return OvertimeReport{}, err
	}
	cfg, err := t.ConfigFor(ctx, user.ID)
	if err != nil {
		return OvertimeReport{}, err
	}

	now := t.now()
	history, err := t.historyInRange(ctx, user.ID, now.AddDate(-10, 0, 0), now.AddDate(0, 0, 1))
	if err != nil {
		return OvertimeReport{}, err
	}
	stored, err := t.Store.Adjustments(ctx, user.ID)
	if err != nil {
		return OvertimeReport{}, err
	}
	adjustments := make([]engine.Adjustment, len(stored))
	for i, a := range stored {
		adjustments[i] = a.Adjustment
	}

	ledger := &engine.Ledger{Config: cfg}
	balance := ledger.Balance(history, adjustments, now, t.startOfDay(now).AddDate(0, 0, 1))

	return OvertimeReport{
		BalanceSeconds: balance,
		FreeDays:       ledger.FreeDays(balance),
		Adjustments:    stored,
	}, nil
}

// Statistics aggregates the user's range statistics.
func (t *Tracker) Statistics(ctx context.Context, name string, from, to time.Time) (engine.RangeStats, error) {
	user, err := t.Store.GetOrCreateUser(ctx, name)
	if err != nil {
		return engine.RangeStats{}, err
	}
	cfg, err := t.ConfigFor(ctx, user.ID)
	if err != nil {
		return engine.RangeStats{}, err
	}

	now := t.now()
	from = t.startOfDay(from.In(t.Location))
	to = t.startOfDay(to.In(t.Location))

	// History from well before the range seeds the trend baseline.
	history, err := t.historyInRange(ctx, user.ID, from.AddDate(-10, 0, 0), to.AddDate(0, 0, 1))
	if err != nil {
		return engine.RangeStats{}, err
	}
	stored, err := t.Store.Adjustments(ctx, user.ID)
	if err != nil {
		return engine.RangeStats{}, err
	}
	adjustments := make([]engine.Adjustment, len(stored))
	for i, a := range stored {
		adjustments[i] = a.Adjustment
	}

	agg := &engine.Aggregator{Config: cfg}
	return agg.AggregateRange(history, adjustments, from, to, now), nil
}

// =============================================================================
// DAY BUCKETING HELPERS
// =============================================================================

func (t *Tracker) startOfDay(ts time.Time) time.Time {
	ts = ts.In(t.Location)
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, t.Location)
}

// historyInRange loads bookings and buckets them per civil day.
func (t *Tracker) historyInRange(ctx context.Context, userID int64, from, to time.Time) ([]engine.DayEvents, error) {
	bookings, err := t.Store.BookingsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	var history []engine.DayEvents
	index := make(map[string]int)
	for _, b := range bookings {
		ts := b.Timestamp.In(t.Location)
		day := t.startOfDay(ts)
		key := day.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(history)
			index[key] = i
			history = append(history, engine.DayEvents{Date: day})
		}
		history[i].Events = append(history[i].Events, engine.BookingEvent{
			Timestamp: ts,
			Action:    b.Action,
		})
	}
	return history, nil
}

func toEvents(bookings []Booking, loc *time.Location) []engine.BookingEvent {
	events := make([]engine.BookingEvent, len(bookings))
	for i, b := range bookings {
		events[i] = engine.BookingEvent{Timestamp: b.Timestamp.In(loc), Action: b.Action}
	}
	return events
}

// pairSessions folds bookings into display pairs, tolerating the same
// malformed sequences the engine does.
func pairSessions(bookings []Booking, loc *time.Location) []SessionPair {
	var pairs []SessionPair
	var open *SessionPair
	for _, b := range bookings {
		switch b.Action {
		case engine.ActionIn:
			if open == nil {
				pairs = append(pairs, SessionPair{InID: b.ID, Start: b.Timestamp.In(loc)})
				open = &pairs[len(pairs)-1]
			}
		case engine.ActionOut:
			if open != nil {
				open.OutID = b.ID
				open.End = b.Timestamp.In(loc)
				open = nil
			}
		}
	}
	return pairs
}

// isoWeekStart returns the Monday of the given ISO week. January 4 is
// always inside week 1.
func isoWeekStart(year, week int, loc *time.Location) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	monday := jan4.AddDate(0, 0, 1-weekday)
	return monday.AddDate(0, 0, (week-1)*7)
}

// FormatWeek renders the canonical "YYYY-Www" label.
func FormatWeek(year, week int) string {
	return fmt.Sprintf("%d-W%02d", year, week)
}

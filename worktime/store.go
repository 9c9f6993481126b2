/*
store.go - Persistence interface for bookings and adjustments

PURPOSE:
  Defines the interface between the domain service and the database.
  Different implementations back it with SQLite or memory.

CONTRACT NOTES:
  - Bookings are immutable once written; corrections happen by deleting
    a booking and entering a replacement, never by editing in place.
  - SaveAdjustment REPLACES any adjustment already pinned to the same
    (user, calendar day). Appending a second one would double-count in
    the ledger, so supersede is the store's job, enforced at write time.
  - Query methods return events sorted by timestamp.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go:   Production SQLite
  - worktime/store/memory.go: In-memory for testing
*/
package worktime

import (
	"context"
	"time"
)

// Store handles persistence of users, bookings, and adjustments.
type Store interface {
	// GetOrCreateUser resolves a user by name, creating it on first use.
	GetOrCreateUser(ctx context.Context, name string) (User, error)

	// AppendBooking persists a clock event and returns it with its ID.
	AppendBooking(ctx context.Context, b Booking) (Booking, error)

	// DeleteBooking removes a booking by ID. Returns ErrBookingNotFound
	// when no such booking exists for the user.
	DeleteBooking(ctx context.Context, userID, bookingID int64) error

	// LastBooking returns the most recent booking for the user, or nil
	// when the user has never stamped.
	LastBooking(ctx context.Context, userID int64) (*Booking, error)

	// BookingsInRange returns the user's bookings with timestamps in
	// [from, to), sorted ascending.
	BookingsInRange(ctx context.Context, userID int64, from, to time.Time) ([]Booking, error)

	// SaveAdjustment persists an adjustment, superseding any existing
	// adjustment for the same user and calendar day.
	SaveAdjustment(ctx context.Context, adj StoredAdjustment) (StoredAdjustment, error)

	// Adjustments returns all adjustments for the user, sorted by
	// effective time.
	Adjustments(ctx context.Context, userID int64) ([]StoredAdjustment, error)

	// GetConfig returns the user's work configuration, or ok=false when
	// none has been saved yet.
	GetConfig(ctx context.Context, userID int64) (cfg ConfigRecord, ok bool, err error)

	// SaveConfig upserts the user's work configuration.
	SaveConfig(ctx context.Context, userID int64, cfg ConfigRecord) error
}

// ConfigRecord is the persisted shape of a user's work configuration.
// ClockTimes are stored as "HH:MM" strings to keep the schema readable.
type ConfigRecord struct {
	TargetWorkSeconds int
	WorkStart         string
	WorkEnd           string
	ShortBreakLogic   bool
	ExtendedPause     bool
	TimeOffsetSeconds int
}

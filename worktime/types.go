// Package worktime implements the presence-tracking domain on top of the
// pure engine. It owns what the engine deliberately does not: grouping
// stored bookings into civil calendar days in one fixed zone, toggling
// stamp in/out, manual session entry, and the supersede rule for
// overtime adjustments.
package worktime

import (
	"time"

	"github.com/warp/worktime-engine/engine"
)

// =============================================================================
// USER
// =============================================================================

// User is a tracked worker. Users are created implicitly on first stamp,
// matching the original single-household deployment model.
type User struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// =============================================================================
// BOOKING - A persisted clock event
// =============================================================================

// Booking is a stored clock event. The embedded engine event carries the
// computed-over fields; ID and UserID are persistence concerns.
type Booking struct {
	ID     int64
	UserID int64
	engine.BookingEvent
}

// =============================================================================
// STAMP RESULT
// =============================================================================

// StampStatus mirrors the toggle semantics of the stamp endpoint.
type StampStatus string

const (
	StampedIn  StampStatus = "in"
	StampedOut StampStatus = "out"
)

// StampResult reports the outcome of a stamp toggle.
type StampResult struct {
	Status    StampStatus
	Timestamp time.Time
}

// =============================================================================
// STORED ADJUSTMENT
// =============================================================================

// StoredAdjustment is a persisted overtime adjustment. At most one
// adjustment exists per (user, calendar day); saving another for the
// same day supersedes the previous one.
type StoredAdjustment struct {
	ID     int64
	UserID int64
	engine.Adjustment
}

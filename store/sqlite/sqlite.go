/*
Package sqlite provides a SQLite-backed implementation of the worktime
storage interface.

PURPOSE:
  Implements worktime.Store using SQLite. The same patterns apply to
  PostgreSQL in production - only minor SQL dialect differences.

SOURCE-OF-TRUTH CONTRACT:
  Only raw booking events and adjustments are stored. No worked/pause/
  overtime column exists anywhere: every derived figure is recomputed
  from the booking history on read, so stored data can never drift out
  of sync with the rules that derive it.

KEY TABLES:
  users:        Tracked workers (created implicitly on first stamp)
  bookings:     Raw clock in/out events
  adjustments:  Manual overtime corrections, one per (user, day)
  work_configs: Per-user settings

ADJUSTMENT SUPERSEDE:
  idx_adjustments_user_day is UNIQUE; SaveAdjustment writes with
  ON CONFLICT ... DO UPDATE, so re-targeting a date replaces the prior
  adjustment instead of double-counting it.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/worktime.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - worktime/store.go: Interface definition
  - worktime/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/worktime-engine/engine"
	"github.com/warp/worktime-engine/worktime"
)

// Store implements worktime.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);

	-- Raw clock events. The only source of truth; no derived columns.
	CREATE TABLE IF NOT EXISTS bookings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		stamped_at TEXT NOT NULL,
		action TEXT NOT NULL CHECK (action IN ('in', 'out'))
	);

	-- Hot path: per-day and range loads.
	CREATE INDEX IF NOT EXISTS idx_bookings_user_stamped
		ON bookings(user_id, stamped_at);

	-- Manual overtime corrections. One per user and calendar day:
	-- re-targeting a day supersedes the previous adjustment.
	CREATE TABLE IF NOT EXISTS adjustments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		effective_day TEXT NOT NULL,
		effective_at TEXT NOT NULL,
		delta_seconds INTEGER NOT NULL,
		reason TEXT
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_adjustments_user_day
		ON adjustments(user_id, effective_day);

	CREATE TABLE IF NOT EXISTS work_configs (
		user_id INTEGER PRIMARY KEY REFERENCES users(id),
		target_work_seconds INTEGER NOT NULL,
		work_start TEXT NOT NULL,
		work_end TEXT NOT NULL,
		short_break_logic BOOLEAN NOT NULL DEFAULT TRUE,
		extended_pause BOOLEAN NOT NULL DEFAULT FALSE,
		time_offset_seconds INTEGER NOT NULL DEFAULT 0
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// USERS
// =============================================================================

func (s *Store) GetOrCreateUser(ctx context.Context, name string) (worktime.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.getUserLocked(ctx, name)
	if err == nil {
		return user, nil
	}
	if err != sql.ErrNoRows {
		return worktime.User{}, err
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, created_at) VALUES (?, ?)`,
		name, now.Format(time.RFC3339))
	if err != nil {
		return worktime.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return worktime.User{}, err
	}
	return worktime.User{ID: id, Name: name, CreatedAt: now}, nil
}

func (s *Store) getUserLocked(ctx context.Context, name string) (worktime.User, error) {
	var user worktime.User
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM users WHERE name = ?`, name).
		Scan(&user.ID, &user.Name, &createdAt)
	if err != nil {
		return worktime.User{}, err
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return user, nil
}

// =============================================================================
// BOOKINGS
// =============================================================================

func (s *Store) AppendBooking(ctx context.Context, b worktime.Booking) (worktime.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings (user_id, stamped_at, action) VALUES (?, ?, ?)`,
		b.UserID, b.Timestamp.UTC().Format(time.RFC3339), string(b.Action))
	if err != nil {
		return worktime.Booking{}, fmt.Errorf("failed to append booking: %w", err)
	}
	b.ID, err = res.LastInsertId()
	return b, err
}

func (s *Store) DeleteBooking(ctx context.Context, userID, bookingID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM bookings WHERE id = ? AND user_id = ?`, bookingID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return worktime.ErrBookingNotFound
	}
	return nil
}

func (s *Store) LastBooking(ctx context.Context, userID int64) (*worktime.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, stamped_at, action FROM bookings
		 WHERE user_id = ? ORDER BY stamped_at DESC, id DESC LIMIT 1`, userID)

	booking, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *Store) BookingsInRange(ctx context.Context, userID int64, from, to time.Time) ([]worktime.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, stamped_at, action FROM bookings
		 WHERE user_id = ? AND stamped_at >= ? AND stamped_at < ?
		 ORDER BY stamped_at, id`,
		userID, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []worktime.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (worktime.Booking, error) {
	var b worktime.Booking
	var stampedAt, action string
	if err := row.Scan(&b.ID, &b.UserID, &stampedAt, &action); err != nil {
		return worktime.Booking{}, err
	}
	ts, err := time.Parse(time.RFC3339, stampedAt)
	if err != nil {
		return worktime.Booking{}, fmt.Errorf("corrupt booking timestamp %q: %w", stampedAt, err)
	}
	b.Timestamp = ts
	b.Action = engine.Action(action)
	return b, nil
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

func (s *Store) SaveAdjustment(ctx context.Context, adj worktime.StoredAdjustment) (worktime.StoredAdjustment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := adj.EffectiveAt.Format("2006-01-02")
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO adjustments (user_id, effective_day, effective_at, delta_seconds, reason)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, effective_day) DO UPDATE SET
		   effective_at = excluded.effective_at,
		   delta_seconds = excluded.delta_seconds,
		   reason = excluded.reason`,
		adj.UserID, day, adj.EffectiveAt.UTC().Format(time.RFC3339),
		adj.DeltaSeconds, adj.Reason)
	if err != nil {
		return worktime.StoredAdjustment{}, fmt.Errorf("failed to save adjustment: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		adj.ID = id
	}
	return adj, nil
}

func (s *Store) Adjustments(ctx context.Context, userID int64) ([]worktime.StoredAdjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, effective_at, delta_seconds, COALESCE(reason, '')
		 FROM adjustments WHERE user_id = ? ORDER BY effective_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []worktime.StoredAdjustment
	for rows.Next() {
		var adj worktime.StoredAdjustment
		var effectiveAt string
		if err := rows.Scan(&adj.ID, &adj.UserID, &effectiveAt, &adj.DeltaSeconds, &adj.Reason); err != nil {
			return nil, err
		}
		adj.EffectiveAt, err = time.Parse(time.RFC3339, effectiveAt)
		if err != nil {
			return nil, fmt.Errorf("corrupt adjustment timestamp %q: %w", effectiveAt, err)
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments, rows.Err()
}

// =============================================================================
// WORK CONFIGS
// =============================================================================

func (s *Store) GetConfig(ctx context.Context, userID int64) (worktime.ConfigRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cfg worktime.ConfigRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT target_work_seconds, work_start, work_end,
		        short_break_logic, extended_pause, time_offset_seconds
		 FROM work_configs WHERE user_id = ?`, userID).
		Scan(&cfg.TargetWorkSeconds, &cfg.WorkStart, &cfg.WorkEnd,
			&cfg.ShortBreakLogic, &cfg.ExtendedPause, &cfg.TimeOffsetSeconds)
	if err == sql.ErrNoRows {
		return worktime.ConfigRecord{}, false, nil
	}
	if err != nil {
		return worktime.ConfigRecord{}, false, err
	}
	return cfg, true, nil
}

func (s *Store) SaveConfig(ctx context.Context, userID int64, cfg worktime.ConfigRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO work_configs
		   (user_id, target_work_seconds, work_start, work_end,
		    short_break_logic, extended_pause, time_offset_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   target_work_seconds = excluded.target_work_seconds,
		   work_start = excluded.work_start,
		   work_end = excluded.work_end,
		   short_break_logic = excluded.short_break_logic,
		   extended_pause = excluded.extended_pause,
		   time_offset_seconds = excluded.time_offset_seconds`,
		userID, cfg.TargetWorkSeconds, cfg.WorkStart, cfg.WorkEnd,
		cfg.ShortBreakLogic, cfg.ExtendedPause, cfg.TimeOffsetSeconds)
	return err
}

// Compile-time interface check.
var _ worktime.Store = (*Store)(nil)

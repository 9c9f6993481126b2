package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/worktime-engine/engine"
	"github.com/warp/worktime-engine/worktime"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "worktime.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetOrCreateUser_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice, err := store.GetOrCreateUser(ctx, "alice")
	require.NoError(t, err)
	assert.NotZero(t, alice.ID)

	again, err := store.GetOrCreateUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, again.ID)

	bob, err := store.GetOrCreateUser(ctx, "bob")
	require.NoError(t, err)
	assert.NotEqual(t, alice.ID, bob.ID)
}

func TestBookings_AppendRangeDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user, err := store.GetOrCreateUser(ctx, "alice")
	require.NoError(t, err)

	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	var ids []int64
	for i, action := range []engine.Action{engine.ActionIn, engine.ActionOut, engine.ActionIn} {
		b, err := store.AppendBooking(ctx, worktime.Booking{
			UserID: user.ID,
			BookingEvent: engine.BookingEvent{
				Timestamp: base.Add(time.Duration(i) * time.Hour),
				Action:    action,
			},
		})
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}

	// Half-open range: [08:00, 10:00) excludes the 10:00 event.
	got, err := store.BookingsInRange(ctx, user.ID, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, engine.ActionIn, got[0].Action)
	assert.Equal(t, engine.ActionOut, got[1].Action)
	assert.True(t, got[0].Timestamp.Equal(base))

	last, err := store.LastBooking(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, ids[2], last.ID)

	require.NoError(t, store.DeleteBooking(ctx, user.ID, ids[2]))
	last, err = store.LastBooking(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, ids[1], last.ID)

	err = store.DeleteBooking(ctx, user.ID, ids[2])
	assert.ErrorIs(t, err, worktime.ErrBookingNotFound)
}

func TestDeleteBooking_WrongUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice, err := store.GetOrCreateUser(ctx, "alice")
	require.NoError(t, err)
	bob, err := store.GetOrCreateUser(ctx, "bob")
	require.NoError(t, err)

	b, err := store.AppendBooking(ctx, worktime.Booking{
		UserID: alice.ID,
		BookingEvent: engine.BookingEvent{
			Timestamp: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
			Action:    engine.ActionIn,
		},
	})
	require.NoError(t, err)

	err = store.DeleteBooking(ctx, bob.ID, b.ID)
	assert.ErrorIs(t, err, worktime.ErrBookingNotFound)
}

func TestLastBooking_NoEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user, err := store.GetOrCreateUser(ctx, "alice")
	require.NoError(t, err)

	last, err := store.LastBooking(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestSaveAdjustment_SupersedesSameDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user, err := store.GetOrCreateUser(ctx, "alice")
	require.NoError(t, err)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err = store.SaveAdjustment(ctx, worktime.StoredAdjustment{
		UserID: user.ID,
		Adjustment: engine.Adjustment{
			EffectiveAt:  day,
			DeltaSeconds: 3600,
			Reason:       "initial",
		},
	})
	require.NoError(t, err)

	// Same calendar day replaces, it must not accumulate.
	_, err = store.SaveAdjustment(ctx, worktime.StoredAdjustment{
		UserID: user.ID,
		Adjustment: engine.Adjustment{
			EffectiveAt:  day,
			DeltaSeconds: 1800,
			Reason:       "corrected",
		},
	})
	require.NoError(t, err)

	// A different day is a separate adjustment.
	_, err = store.SaveAdjustment(ctx, worktime.StoredAdjustment{
		UserID: user.ID,
		Adjustment: engine.Adjustment{
			EffectiveAt:  day.AddDate(0, 0, 1),
			DeltaSeconds: -900,
			Reason:       "forgot stamp",
		},
	})
	require.NoError(t, err)

	adjustments, err := store.Adjustments(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, adjustments, 2)
	assert.Equal(t, 1800, adjustments[0].DeltaSeconds)
	assert.Equal(t, "corrected", adjustments[0].Reason)
	assert.Equal(t, -900, adjustments[1].DeltaSeconds)
}

func TestConfig_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user, err := store.GetOrCreateUser(ctx, "alice")
	require.NoError(t, err)

	_, ok, err := store.GetConfig(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	want := worktime.ConfigRecord{
		TargetWorkSeconds: 28080,
		WorkStart:         "07:00",
		WorkEnd:           "17:00",
		ShortBreakLogic:   true,
		ExtendedPause:     false,
		TimeOffsetSeconds: -1200,
	}
	require.NoError(t, store.SaveConfig(ctx, user.ID, want))

	got, ok, err := store.GetConfig(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	// Saving again overwrites.
	want.WorkEnd = "18:30"
	want.ExtendedPause = true
	require.NoError(t, store.SaveConfig(ctx, user.ID, want))

	got, ok, err = store.GetConfig(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestStore_WorksWithTracker(t *testing.T) {
	store := newTestStore(t)

	tracker := worktime.NewTracker(store, time.UTC)
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tracker.Now = func() time.Time { return now }

	ctx := context.Background()
	res, err := tracker.Stamp(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, worktime.StampedIn, res.Status)

	now = now.Add(8 * time.Hour)
	res, err = tracker.Stamp(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, worktime.StampedOut, res.Status)

	summary, err := tracker.Day(ctx, "alice", now)
	require.NoError(t, err)
	assert.Equal(t, 8*3600, summary.Stats.GrossSessionSeconds)
}

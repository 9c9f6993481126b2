// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/worktime-engine/worktime"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	nextID      int64
	users       map[string]worktime.User
	bookings    map[int64][]worktime.Booking          // by user ID, kept sorted
	adjustments map[int64]map[string]worktime.StoredAdjustment // user -> day key
	configs     map[int64]worktime.ConfigRecord
}

func NewMemory() *Memory {
	return &Memory{
		nextID:      1,
		users:       make(map[string]worktime.User),
		bookings:    make(map[int64][]worktime.Booking),
		adjustments: make(map[int64]map[string]worktime.StoredAdjustment),
		configs:     make(map[int64]worktime.ConfigRecord),
	}
}

func (m *Memory) allocateID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *Memory) GetOrCreateUser(_ context.Context, name string) (worktime.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[name]; ok {
		return u, nil
	}
	u := worktime.User{ID: m.allocateID(), Name: name, CreatedAt: time.Now()}
	m.users[name] = u
	return u, nil
}

func (m *Memory) AppendBooking(_ context.Context, b worktime.Booking) (worktime.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b.ID = m.allocateID()
	list := append(m.bookings[b.UserID], b)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp.Before(list[j].Timestamp)
	})
	m.bookings[b.UserID] = list
	return b, nil
}

func (m *Memory) DeleteBooking(_ context.Context, userID, bookingID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.bookings[userID]
	for i, b := range list {
		if b.ID == bookingID {
			m.bookings[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return worktime.ErrBookingNotFound
}

func (m *Memory) LastBooking(_ context.Context, userID int64) (*worktime.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.bookings[userID]
	if len(list) == 0 {
		return nil, nil
	}
	last := list[len(list)-1]
	return &last, nil
}

func (m *Memory) BookingsInRange(_ context.Context, userID int64, from, to time.Time) ([]worktime.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []worktime.Booking
	for _, b := range m.bookings[userID] {
		if !b.Timestamp.Before(from) && b.Timestamp.Before(to) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *Memory) SaveAdjustment(_ context.Context, adj worktime.StoredAdjustment) (worktime.StoredAdjustment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byDay := m.adjustments[adj.UserID]
	if byDay == nil {
		byDay = make(map[string]worktime.StoredAdjustment)
		m.adjustments[adj.UserID] = byDay
	}

	// One adjustment per calendar day: same-day saves supersede.
	adj.ID = m.allocateID()
	byDay[adj.EffectiveAt.Format("2006-01-02")] = adj
	return adj, nil
}

func (m *Memory) Adjustments(_ context.Context, userID int64) ([]worktime.StoredAdjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []worktime.StoredAdjustment
	for _, adj := range m.adjustments[userID] {
		result = append(result, adj)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EffectiveAt.Before(result[j].EffectiveAt)
	})
	return result, nil
}

func (m *Memory) GetConfig(_ context.Context, userID int64) (worktime.ConfigRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg, ok := m.configs[userID]
	return cfg, ok, nil
}

func (m *Memory) SaveConfig(_ context.Context, userID int64, cfg worktime.ConfigRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.configs[userID] = cfg
	return nil
}

// Compile-time interface check.
var _ worktime.Store = (*Memory)(nil)

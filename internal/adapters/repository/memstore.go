package repository

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/metrics"
)

// In-memory Store.
//
// The set of activities is fixed at construction, so the outer map is never
// written after NewMemoryStore returns and lookups take no lock. Each
// activity owns a mutex that covers the membership check and the roster
// mutation together.

type slot struct {
	mu       sync.Mutex
	activity types.Activity
}

// MemoryStore implements Store.
type MemoryStore struct {
	slots map[string]*slot
	names []string
	clock func() time.Time
}

// NewMemoryStore builds a store from a directory. The directory is copied.
func NewMemoryStore(_ context.Context, d types.Directory, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		slots: make(map[string]*slot, len(d)),
		names: make([]string, 0, len(d)),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	for name, a := range d {
		s.slots[name] = &slot{activity: a.Clone()}
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s
}

func (s *MemoryStore) since(start time.Time) float64 {
	return float64(s.clock().Sub(start).Microseconds()) / 1000
}

// List returns a deep copy of every activity.
func (s *MemoryStore) List(_ context.Context) types.Directory {
	start := s.clock()
	out := make(types.Directory, len(s.slots))
	for name, sl := range s.slots {
		sl.mu.Lock()
		out[name] = sl.activity.Clone()
		sl.mu.Unlock()
	}
	metrics.RecordStoreQueryLatency(s.since(start))
	return out
}

// Get returns a copy of one activity.
func (s *MemoryStore) Get(_ context.Context, name string) (types.Activity, error) {
	sl, ok := s.slots[name]
	if !ok {
		return types.Activity{}, ErrNotFound
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.activity.Clone(), nil
}

// Names returns the activity names in sorted order.
func (s *MemoryStore) Names(_ context.Context) []string {
	return slices.Clone(s.names)
}

// Signup appends email to the roster of name.
func (s *MemoryStore) Signup(_ context.Context, name, email string) (int, error) {
	sl, ok := s.slots[name]
	if !ok {
		return 0, ErrNotFound
	}
	start := s.clock()
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.activity.Has(email) {
		return len(sl.activity.Participants), ErrAlreadySignedUp
	}
	sl.activity.Participants = append(sl.activity.Participants, email)
	metrics.RecordStoreUpdateLatency(s.since(start))
	return len(sl.activity.Participants), nil
}

// Unregister removes the single occurrence of email from the roster of name,
// keeping the remaining participants in order.
func (s *MemoryStore) Unregister(_ context.Context, name, email string) (int, error) {
	sl, ok := s.slots[name]
	if !ok {
		return 0, ErrNotFound
	}
	start := s.clock()
	sl.mu.Lock()
	defer sl.mu.Unlock()

	i := slices.Index(sl.activity.Participants, email)
	if i < 0 {
		return len(sl.activity.Participants), ErrNotRegistered
	}
	sl.activity.Participants = slices.Delete(sl.activity.Participants, i, i+1)
	metrics.RecordStoreUpdateLatency(s.since(start))
	return len(sl.activity.Participants), nil
}

// Count returns the number of activities.
func (s *MemoryStore) Count(_ context.Context) int {
	return len(s.slots)
}

package usage

import (
	"context"
	"sync"
	"time"
)

type memoryKey struct {
	userID  string
	feature Feature
}

// MemoryStore keeps counters in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	data map[memoryKey]Counter
	now  func() time.Time
}

// NewMemoryStore constructs a MemoryStore. A nil clock uses time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{data: make(map[memoryKey]Counter), now: now}
}

func (s *MemoryStore) Get(ctx context.Context, userID string, feature Feature, window time.Duration) (Counter, error) {
	if err := ctx.Err(); err != nil {
		return Counter{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{userID: userID, feature: feature}
	c, ok := s.data[key]
	if !ok {
		return Counter{Feature: feature}, nil
	}
	now := s.now().UTC()
	if windowExpired(c, window, now) {
		c.Count = 0
		c.LastReset = &now
		s.data[key] = c
	}
	return copyCounter(c), nil
}

func (s *MemoryStore) Increment(ctx context.Context, userID string, feature Feature, windowed bool) (Counter, error) {
	if err := ctx.Err(); err != nil {
		return Counter{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{userID: userID, feature: feature}
	c, ok := s.data[key]
	if !ok {
		c = Counter{Feature: feature}
	}
	if windowed && c.Count == 0 {
		now := s.now().UTC()
		c.LastReset = &now
	}
	c.Count++
	s.data[key] = c
	return copyCounter(c), nil
}

func copyCounter(c Counter) Counter {
	if c.LastReset != nil {
		t := *c.LastReset
		c.LastReset = &t
	}
	return c
}

var _ Store = (*MemoryStore)(nil)

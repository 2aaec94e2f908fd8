package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is a bounded in-process cache. When full, the oldest-inserted
// entry is evicted (insertion order, not access order). Expired entries are
// evicted lazily on read and swept periodically.
type MemoryStore struct {
	mu       sync.Mutex
	entries  map[string]entry
	order    []string
	capacity int
	done     chan struct{}
	now      func() time.Time
}

const defaultSweepInterval = time.Minute

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 1000
	}

	store := &MemoryStore{
		entries:  make(map[string]entry),
		capacity: capacity,
		done:     make(chan struct{}),
		now:      time.Now,
	}

	go store.sweep(defaultSweepInterval)

	return store
}

func (s *MemoryStore) Get(_ context.Context, prefix, key string) ([]byte, bool) {
	full := prefix + ":" + key

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[full]
	if !ok {
		return nil, false
	}

	if s.now().After(ent.expiresAt) {
		s.removeLocked(full)
		return nil, false
	}

	return ent.value, true
}

func (s *MemoryStore) Set(_ context.Context, prefix, key string, value []byte, ttl time.Duration) {
	full := prefix + ":" + key

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[full]; !exists {
		if len(s.entries) >= s.capacity {
			s.evictOldestLocked()
		}
		s.order = append(s.order, full)
	}

	s.entries[full] = entry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
}

func (s *MemoryStore) ClearPrefix(_ context.Context, prefix string) error {
	marker := prefix + ":"

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.order[:0]
	for _, full := range s.order {
		if strings.HasPrefix(full, marker) {
			delete(s.entries, full)
		} else {
			kept = append(kept, full)
		}
	}
	s.order = kept

	return nil
}

func (s *MemoryStore) Close() {
	close(s.done)
}

// Len reports the number of live entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) evictOldestLocked() {
	if len(s.order) == 0 {
		return
	}

	oldest := s.order[0]
	s.order = s.order[1:]
	delete(s.entries, oldest)
}

func (s *MemoryStore) removeLocked(full string) {
	delete(s.entries, full)
	for i, candidate := range s.order {
		if candidate == full {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *MemoryStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweepExpired()
		}
	}
}

func (s *MemoryStore) sweepExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	kept := s.order[:0]
	for _, full := range s.order {
		ent, ok := s.entries[full]
		if ok && now.After(ent.expiresAt) {
			delete(s.entries, full)
			continue
		}
		kept = append(kept, full)
	}
	s.order = kept
}

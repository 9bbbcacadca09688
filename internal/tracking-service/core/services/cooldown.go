package services

import (
	"sync"
	"time"
)

// MemoryCooldownStore is the process-local cooldown table. Entries are never
// evicted; cardinality is bounded by students x notification kinds. State is
// lost on restart, which costs at most one duplicate per live key.
type MemoryCooldownStore struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func NewMemoryCooldownStore() *MemoryCooldownStore {
	return &MemoryCooldownStore{
		last: make(map[string]time.Time),
	}
}

func (s *MemoryCooldownStore) TryClaim(key string, now time.Time, window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.last[key]; ok && now.Sub(last) < window {
		return false
	}
	s.last[key] = now
	return true
}

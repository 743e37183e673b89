package auth

import (
	"context"
	"sync"
	"time"
)

// LockoutStore tracks consecutive failed logins per username. Counters
// expire after the configured window; the service owns the threshold rule.
type LockoutStore interface {
	RecordFailure(ctx context.Context, username string, now time.Time) (int, error)
	FailureCount(ctx context.Context, username string, now time.Time) (int, error)
	Clear(ctx context.Context, username string) error
}

type lockoutEntry struct {
	count     int
	expiresAt time.Time
}

// InMemoryLockoutStore keeps failure counters in process memory. Suitable
// for single-node deployments and tests.
type InMemoryLockoutStore struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]lockoutEntry
}

func NewInMemoryLockoutStore(window time.Duration) *InMemoryLockoutStore {
	return &InMemoryLockoutStore{
		window:  window,
		entries: make(map[string]lockoutEntry),
	}
}

func (s *InMemoryLockoutStore) RecordFailure(_ context.Context, username string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.entries[username]
	if !entry.expiresAt.After(now) {
		entry = lockoutEntry{}
	}
	entry.count++
	entry.expiresAt = now.Add(s.window)
	s.entries[username] = entry
	return entry.count, nil
}

func (s *InMemoryLockoutStore) FailureCount(_ context.Context, username string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[username]
	if !ok || !entry.expiresAt.After(now) {
		return 0, nil
	}
	return entry.count, nil
}

func (s *InMemoryLockoutStore) Clear(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, username)
	return nil
}

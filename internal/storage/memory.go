package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"blpgate/internal/audit"
	"blpgate/internal/domain"
	id "blpgate/pkg/domain"
)

// In-memory stores keep tests and ephemeral runs lightweight. They
// intentionally favor clarity over performance.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[id.UserID]domain.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[id.UserID]domain.User)}
}

func (s *InMemoryUserStore) Save(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userID]; ok {
		u := user
		return &u, nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryUserStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryUserStore) UpdateSecurityLevel(_ context.Context, userID id.UserID, level id.SecurityLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.SecurityLevel = level
	s.users[userID] = user
	return nil
}

func (s *InMemoryUserStore) SetActive(_ context.Context, userID id.UserID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.IsActive = active
	s.users[userID] = user
	return nil
}

func (s *InMemoryUserStore) List(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.User, 0, len(s.users))
	for _, user := range s.users {
		u := user
		out = append(out, &u)
	}
	// Level desc, then username asc, matching the admin listing contract.
	sort.Slice(out, func(i, j int) bool {
		if out[i].SecurityLevel != out[j].SecurityLevel {
			return out[i].SecurityLevel > out[j].SecurityLevel
		}
		return out[i].Username < out[j].Username
	})
	return out, nil
}

func (s *InMemoryUserStore) Counts(_ context.Context) (UserCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := UserCounts{Total: len(s.users)}
	for _, user := range s.users {
		if user.IsActive {
			counts.Active++
		}
		if user.IsSuperAdmin {
			counts.SuperAdmins++
		}
	}
	return counts, nil
}

type InMemoryObjectStore struct {
	mu      sync.RWMutex
	objects map[id.ObjectID]domain.Object
}

func NewInMemoryObjectStore() *InMemoryObjectStore {
	return &InMemoryObjectStore{objects: make(map[id.ObjectID]domain.Object)}
}

func (s *InMemoryObjectStore) Insert(_ context.Context, object *domain.Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[object.ID] = *object
	return nil
}

func (s *InMemoryObjectStore) FindByID(_ context.Context, objectID id.ObjectID) (*domain.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if object, ok := s.objects[objectID]; ok {
		o := object
		return &o, nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryObjectStore) UpdateContent(_ context.Context, objectID id.ObjectID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	object, ok := s.objects[objectID]
	if !ok {
		return ErrNotFound
	}
	object.Content = content
	s.objects[objectID] = object
	return nil
}

func (s *InMemoryObjectStore) Delete(_ context.Context, objectID id.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[objectID]; !ok {
		return ErrNotFound
	}
	delete(s.objects, objectID)
	return nil
}

func (s *InMemoryObjectStore) ListByMaxLevel(_ context.Context, maxLevel id.SecurityLevel) ([]domain.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Summary
	for _, object := range s.objects {
		if object.SecurityLevel <= maxLevel {
			out = append(out, object.Summary())
		}
	}
	sortSummaries(out)
	return out, nil
}

func (s *InMemoryObjectStore) SearchByName(_ context.Context, pattern string, maxLevel id.SecurityLevel) ([]domain.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(pattern)
	var out []domain.Summary
	for _, object := range s.objects {
		if object.SecurityLevel > maxLevel {
			continue
		}
		if !strings.Contains(strings.ToLower(object.Name), needle) {
			continue
		}
		out = append(out, object.Summary())
	}
	sortSummaries(out)
	return out, nil
}

func (s *InMemoryObjectStore) ListByLevel(_ context.Context, level id.SecurityLevel) ([]domain.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Summary
	for _, object := range s.objects {
		if object.SecurityLevel == level {
			out = append(out, object.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryObjectStore) CountByLevel(_ context.Context) (map[id.SecurityLevel]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[id.SecurityLevel]int)
	for _, object := range s.objects {
		counts[object.SecurityLevel]++
	}
	return counts, nil
}

// sortSummaries applies the enumeration order: higher-sensitivity but still
// visible items surface first, names break ties.
func sortSummaries(items []domain.Summary) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].SecurityLevel != items[j].SecurityLevel {
			return items[i].SecurityLevel > items[j].SecurityLevel
		}
		return items[i].Name < items[j].Name
	})
}

type InMemoryAuditStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryAuditStore() *InMemoryAuditStore {
	return &InMemoryAuditStore{}
}

func (s *InMemoryAuditStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryAuditStore) List(_ context.Context, q audit.Query) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	// Newest first: walk the append-only slice backwards.
	for i := len(s.events) - 1; i >= 0; i-- {
		event := s.events[i]
		if q.Type != "" && event.Type != q.Type {
			continue
		}
		if q.Success != nil && event.Success != *q.Success {
			continue
		}
		if !q.SubjectID.IsNil() && event.SubjectID != q.SubjectID {
			continue
		}
		out = append(out, event)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryAuditStore) Statistics(_ context.Context) (audit.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := audit.Statistics{
		TotalEvents: len(s.events),
		ByType:      make(map[audit.EventType]int),
	}
	for _, event := range s.events {
		if event.Success {
			stats.SuccessEvents++
		} else {
			stats.FailedEvents++
		}
		stats.ByType[event.Type]++
	}
	return stats, nil
}

// Events returns a copy of everything appended, in order. Test helper.
func (s *InMemoryAuditStore) Events() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events...)
}

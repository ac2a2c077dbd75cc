package memory

import (
	"context"
	"sort"
	"sync"

	"ent-bot/internal/domain"
)

// ScheduleStore is an append-only list of entries with delete.
type ScheduleStore struct {
	mu      sync.RWMutex
	nextID  int64
	entries map[int64]domain.ScheduleEntry
}

func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{entries: make(map[int64]domain.ScheduleEntry)}
}

func (s *ScheduleStore) Add(_ context.Context, e domain.ScheduleEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	s.entries[e.ID] = e
	return e.ID, nil
}

func (s *ScheduleStore) List(_ context.Context) ([]domain.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ScheduleEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		if out[i].TimeStart != out[j].TimeStart {
			return out[i].TimeStart < out[j].TimeStart
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *ScheduleStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return false, nil
	}
	delete(s.entries, id)
	return true, nil
}

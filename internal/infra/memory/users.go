package memory

import (
	"context"
	"sort"
	"sync"

	"ent-bot/internal/domain"
)

// UserStore keeps users in a map.
type UserStore struct {
	mu    sync.RWMutex
	users map[int64]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]domain.User)}
}

func (s *UserStore) Get(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserStore) Upsert(_ context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[u.ID]; ok {
		existing.Username = u.Username
		existing.FirstName = u.FirstName
		s.users[u.ID] = existing
		return existing, nil
	}
	u.Level = domain.LevelFor(u.Points)
	s.users[u.ID] = u
	return u, nil
}

func (s *UserStore) SetLanguage(_ context.Context, id int64, language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Language = language
	s.users[id] = u
	return nil
}

func (s *UserStore) AddPoints(_ context.Context, id int64, amount int) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	u.Points += amount
	u.Level = domain.LevelFor(u.Points)
	s.users[id] = u
	return u, nil
}

// Top orders by points, earliest registration first on ties.
func (s *UserStore) Top(ctx context.Context, limit int) ([]domain.User, error) {
	all, _ := s.All(ctx)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Points != all[j].Points {
			return all[i].Points > all[j].Points
		}
		return all[i].RegisteredAt.Before(all[j].RegisteredAt)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *UserStore) All(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *UserStore) Stats(_ context.Context) (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := domain.Stats{TotalUsers: len(s.users), ByLanguage: make(map[string]int)}
	for _, u := range s.users {
		if u.Points > 0 {
			st.ActiveUsers++
		}
		st.ByLanguage[u.Language]++
	}
	return st, nil
}

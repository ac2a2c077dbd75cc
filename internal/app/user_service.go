package app

import (
	"context"
	"errors"

	"ent-bot/internal/domain"
	"ent-bot/internal/i18n"
	"go.uber.org/zap"
)

// UserService covers registration, profiles, the leaderboard and materials.
type UserService struct {
	users     UserStore
	materials MaterialStore
	options
}

func NewUserService(users UserStore, materials MaterialStore, opts ...Option) *UserService {
	return &UserService{users: users, materials: materials, options: buildOptions(opts)}
}

// Register creates the user on first contact and refreshes names afterwards.
// Points, level and the chosen language survive re-registration.
func (s *UserService) Register(ctx context.Context, u domain.User) (domain.User, bool, error) {
	existing, err := s.users.Get(ctx, u.ID)
	switch {
	case err == nil:
		existing.Username = u.Username
		existing.FirstName = u.FirstName
		saved, err := s.users.Upsert(ctx, existing)
		if err != nil {
			return domain.User{}, false, unavailable("update user", err)
		}
		return saved, false, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return domain.User{}, false, unavailable("load user", err)
	}

	u.Language = i18n.Normalize(u.Language)
	u.Points = 0
	u.Level = domain.LevelFor(0)
	if u.RegisteredAt.IsZero() {
		u.RegisteredAt = s.now()
	}
	saved, err := s.users.Upsert(ctx, u)
	if err != nil {
		return domain.User{}, false, unavailable("create user", err)
	}
	s.log.Info("user registered", zap.Int64("user_id", u.ID), zap.String("language", u.Language))
	return saved, true, nil
}

func (s *UserService) SetLanguage(ctx context.Context, userID int64, lang string) (string, error) {
	lang = i18n.Normalize(lang)
	if err := s.users.SetLanguage(ctx, userID, lang); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", err
		}
		return "", unavailable("set language", err)
	}
	return lang, nil
}

func (s *UserService) Profile(ctx context.Context, userID int64) (domain.User, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, err
		}
		return domain.User{}, unavailable("load user", err)
	}
	return u, nil
}

// Language returns the user's language, or the default for unknown users.
func (s *UserService) Language(ctx context.Context, userID int64) string {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return i18n.Default
	}
	return i18n.Normalize(u.Language)
}

func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 10
	}
	top, err := s.users.Top(ctx, limit)
	if err != nil {
		return nil, unavailable("leaderboard", err)
	}
	return top, nil
}

func (s *UserService) Materials(ctx context.Context, subject, lang string) ([]domain.Material, error) {
	list, err := s.materials.BySubject(ctx, subject, i18n.Normalize(lang))
	if err != nil {
		return nil, unavailable("materials", err)
	}
	return list, nil
}

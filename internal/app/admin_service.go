package app

import (
	"context"
	"strings"
	"sync/atomic"

	"ent-bot/internal/domain"
	"ent-bot/internal/i18n"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// BroadcastReport counts deliveries of one broadcast.
type BroadcastReport struct {
	Success int `json:"success"`
	Errors  int `json:"errors"`
}

// BroadcastConfig bounds the fan-out. Rate is messages per second; zero disables the limiter.
type BroadcastConfig struct {
	Concurrency int
	Rate        float64
}

// AdminService serves the admin panel's broadcast and statistics.
type AdminService struct {
	users     UserStore
	auth      Authorizer
	messenger Messenger
	cfg       BroadcastConfig
	options
}

func NewAdminService(users UserStore, auth Authorizer, messenger Messenger, cfg BroadcastConfig, opts ...Option) *AdminService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &AdminService{
		users:     users,
		auth:      auth,
		messenger: messenger,
		cfg:       cfg,
		options:   buildOptions(opts),
	}
}

// Broadcast sends text to every registered user except the sender.
// Failed deliveries are counted, not returned.
func (s *AdminService) Broadcast(ctx context.Context, adminID int64, text string) (BroadcastReport, error) {
	if !s.auth.IsAdmin(adminID) {
		return BroadcastReport{}, domain.ErrUnauthorized
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return BroadcastReport{}, domain.ErrRequiredField
	}
	users, err := s.users.All(ctx)
	if err != nil {
		return BroadcastReport{}, unavailable("list users", err)
	}

	var limiter *rate.Limiter
	if s.cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.Rate), 1)
	}
	body := i18n.T(i18n.Default, "broadcast_prefix", text)

	var success, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, u := range users {
		if u.ID == adminID {
			continue
		}
		chatID := u.ID
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
			}
			if _, err := s.messenger.Send(gctx, chatID, body, nil); err != nil {
				failed.Add(1)
				s.metrics.Delivery(false)
				s.log.Debug("broadcast delivery failed", zap.Int64("chat_id", chatID), zap.Error(err))
				return nil
			}
			success.Add(1)
			s.metrics.Delivery(true)
			return nil
		})
	}
	err = g.Wait()
	report := BroadcastReport{Success: int(success.Load()), Errors: int(failed.Load())}
	s.log.Info("broadcast finished",
		zap.Int64("admin_id", adminID),
		zap.Int("success", report.Success),
		zap.Int("errors", report.Errors),
	)
	return report, err
}

// Stats summarizes the user base.
func (s *AdminService) Stats(ctx context.Context, adminID int64) (domain.Stats, error) {
	if !s.auth.IsAdmin(adminID) {
		return domain.Stats{}, domain.ErrUnauthorized
	}
	st, err := s.users.Stats(ctx)
	if err != nil {
		return domain.Stats{}, unavailable("user stats", err)
	}
	return st, nil
}

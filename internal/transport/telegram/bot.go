package telegram

import (
	"context"
	"sync"

	"ent-bot/internal/app"
	"ent-bot/internal/metrics"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Services are the use cases the bot dispatches to.
type Services struct {
	Quiz     *app.QuizService
	Schedule *app.ScheduleService
	Admin    *app.AdminService
	Users    *app.UserService
}

type Config struct {
	Subjects    []string
	PollTimeout int
}

// Bot long-polls the Bot API and routes updates to the services.
// Updates from one chat are handled strictly in arrival order; different chats run concurrently.
type Bot struct {
	api     *tgbotapi.BotAPI
	out     app.Messenger
	svc     Services
	auth    app.Authorizer
	cfg     Config
	log     *zap.Logger
	metrics *metrics.Metrics
	handle  func(context.Context, tgbotapi.Update)

	qmu    sync.Mutex
	queues map[int64][]tgbotapi.Update
	wg     sync.WaitGroup
}

func New(api *tgbotapi.BotAPI, svc Services, auth app.Authorizer, cfg Config, log *zap.Logger, m *metrics.Metrics) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 60
	}
	b := &Bot{
		api:     api,
		out:     NewMessenger(api),
		svc:     svc,
		auth:    auth,
		cfg:     cfg,
		log:     log,
		metrics: m,
		queues:  make(map[int64][]tgbotapi.Update),
	}
	b.handle = b.HandleUpdate
	return b
}

// Run polls until ctx is done, then waits for queued updates to drain.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.PollTimeout
	updates := b.api.GetUpdatesChan(u)
	b.log.Info("telegram polling started", zap.String("bot", b.api.Self.UserName))

	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("telegram polling stopped")
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.enqueue(ctx, upd)
		}
	}
}

// enqueue appends upd to its chat's queue. A present map key means a drain goroutine owns the queue.
func (b *Bot) enqueue(ctx context.Context, upd tgbotapi.Update) {
	chatID := chatOf(upd)
	b.qmu.Lock()
	pending, running := b.queues[chatID]
	b.queues[chatID] = append(pending, upd)
	b.qmu.Unlock()
	if running {
		return
	}
	b.wg.Add(1)
	go b.drain(ctx, chatID)
}

func (b *Bot) drain(ctx context.Context, chatID int64) {
	defer b.wg.Done()
	for {
		b.qmu.Lock()
		pending := b.queues[chatID]
		if len(pending) == 0 {
			delete(b.queues, chatID)
			b.qmu.Unlock()
			return
		}
		upd := pending[0]
		b.queues[chatID] = pending[1:]
		b.qmu.Unlock()

		b.safeHandle(ctx, upd)
	}
}

func (b *Bot) safeHandle(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("update handler panicked", zap.Int("update_id", upd.UpdateID), zap.Any("panic", r))
		}
	}()
	b.handle(ctx, upd)
}

func chatOf(upd tgbotapi.Update) int64 {
	switch {
	case upd.Message != nil && upd.Message.Chat != nil:
		return upd.Message.Chat.ID
	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil && upd.CallbackQuery.Message.Chat != nil:
		return upd.CallbackQuery.Message.Chat.ID
	case upd.CallbackQuery != nil && upd.CallbackQuery.From != nil:
		return upd.CallbackQuery.From.ID
	}
	return 0
}

package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ent-bot/internal/app"
	"ent-bot/internal/config"
	"ent-bot/internal/infra/memory"
	pgstore "ent-bot/internal/infra/postgres"
	redisstore "ent-bot/internal/infra/redis"
	"ent-bot/internal/logger"
	"ent-bot/internal/metrics"
	transport "ent-bot/internal/transport/http"
	"ent-bot/internal/transport/telegram"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NewStartCmd builds the CLI subcommand that runs the bot and the web API.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the Telegram bot and the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// backend is the storage selected by configuration.
type backend struct {
	users     app.UserStore
	schedule  app.ScheduleStore
	materials app.MaterialStore
	questions app.QuestionBank
	sessions  app.Registry[app.QuizSession]
	wizards   app.Registry[app.Wizard]
	close     func()
}

// openBackend uses Postgres for records and Redis for registries and the question cache
// when they are configured, falling back to in-memory stores seeded with sample content.
func openBackend(ctx context.Context, cfg config.Config, log *zap.Logger) (*backend, error) {
	b := &backend{close: func() {}}
	questionTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)

	var loader memory.PoolLoader = memory.NewStaticLoader(memory.SeedQuestions())
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		b.close = pool.Close
		loader = pgstore.NewQuestionLoader(pool)
		b.users = pgstore.NewUserStore(pool)
		b.schedule = pgstore.NewScheduleStore(pool)
		b.materials = pgstore.NewMaterialStore(pool)
		log.Info("using postgres storage")
	} else {
		b.users = memory.NewUserStore()
		b.schedule = memory.NewScheduleStore()
		b.materials = memory.NewMaterialStore(memory.SeedMaterials())
		log.Warn("postgres not configured; users and schedule live in memory")
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			b.close()
			return nil, err
		}
		closePG := b.close
		b.close = func() {
			_ = client.Close()
			closePG()
		}
		registryTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)
		b.sessions = redisstore.NewRegistry[app.QuizSession](client, redisstore.QuizSessionPrefix, registryTTL)
		b.wizards = redisstore.NewRegistry[app.Wizard](client, redisstore.ScheduleWizardPrefix, registryTTL)
		b.questions = redisstore.NewQuestionBank(client, loader, questionTTL)
		log.Info("using redis registries", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", registryTTL))
	} else {
		sessionTTL := config.TTLDuration(cfg.Quiz.SessionTTL, 0)
		b.sessions = memory.NewRegistry[app.QuizSession](sessionTTL)
		b.wizards = memory.NewRegistry[app.Wizard](sessionTTL)
		b.questions = memory.NewQuestionBank(loader, questionTTL)
	}
	return b, nil
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer log.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	auth := app.NewAllowList(cfg.Admins...)
	opts := []app.Option{app.WithLogger(log), app.WithMetrics(m)}
	quizCfg := app.QuizConfig{
		MaxQuestions:    cfg.Quiz.MaxQuestions,
		PointsPerAnswer: cfg.Quiz.PointsPerAnswer,
		FeedbackPause:   config.TTLDuration(cfg.Quiz.FeedbackPause, 1500*time.Millisecond),
	}
	users := app.NewUserService(store.users, store.materials, opts...)

	hub := transport.NewHub()
	webQuiz := app.NewQuizService(store.sessions, store.questions, store.users, hub, quizCfg, opts...)
	ws := transport.NewWSHandler(webQuiz, users, hub, log.Named("ws"))

	var (
		bot      *telegram.Bot
		schedule *app.ScheduleService
	)
	if cfg.Telegram.Token != "" {
		api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return err
		}
		api.Debug = cfg.Telegram.Debug
		out := telegram.NewMessenger(api)
		schedule = app.NewScheduleService(store.wizards, store.schedule, auth, out, cfg.Quiz.Subjects, opts...)
		bot = telegram.New(api, telegram.Services{
			Quiz:     app.NewQuizService(store.sessions, store.questions, store.users, out, quizCfg, opts...),
			Schedule: schedule,
			Admin: app.NewAdminService(store.users, auth, out, app.BroadcastConfig{
				Concurrency: cfg.Broadcast.Concurrency,
				Rate:        cfg.Broadcast.Rate,
			}, opts...),
			Users: users,
		}, auth, telegram.Config{
			Subjects:    cfg.Quiz.Subjects,
			PollTimeout: cfg.Telegram.PollTimeout,
		}, log.Named("telegram"), m)
	} else {
		log.Warn("telegram token not configured; running the web API only")
		schedule = app.NewScheduleService(store.wizards, store.schedule, auth, hub, cfg.Quiz.Subjects, opts...)
	}

	server := &http.Server{
		Addr: ":" + finalPort,
		Handler: transport.NewRouter(transport.RouterConfig{
			Users:     users,
			Schedule:  schedule,
			Questions: store.questions,
			Auth:      auth,
			WS:        ws,
			Gatherer:  reg,
			Log:       log.Named("http"),
			Metrics:   m,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if bot != nil {
		g.Go(func() error { return bot.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

package cli

import (
	"context"

	"ent-bot/internal/config"
	"ent-bot/internal/infra/memory"
	pgstore "ent-bot/internal/infra/postgres"
	"ent-bot/internal/logger"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewSeedCmd loads the starter questions and materials into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample questions and materials into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
			if err != nil {
				return err
			}
			defer log.Sync()
			return runSeed(cmd.Context(), cfg, log, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "insert even when questions already exist")
	return cmd
}

func runSeed(ctx context.Context, cfg config.Config, log *zap.Logger, force bool) error {
	if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
		return err
	}
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	questions := pgstore.NewQuestionLoader(pool)
	existing, err := questions.Count(ctx)
	if err != nil {
		return err
	}
	if existing > 0 && !force {
		log.Info("questions already present; skipping seed", zap.Int("count", existing))
		return nil
	}

	seedQuestions := memory.SeedQuestions()
	if err := questions.InsertQuestions(ctx, seedQuestions); err != nil {
		return err
	}
	seedMaterials := memory.SeedMaterials()
	if err := pgstore.NewMaterialStore(pool).InsertMaterials(ctx, seedMaterials); err != nil {
		return err
	}
	log.Info("seed complete", zap.Int("questions", len(seedQuestions)), zap.Int("materials", len(seedMaterials)))
	return nil
}

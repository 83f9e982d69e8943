package journal

import (
	"context"
	"log"

	"go.uber.org/fx"

	"paper_bot/internal/modules/config"
	"paper_bot/internal/modules/journal/service"
	"paper_bot/pkg/db"
)

func Module() fx.Option {
	return fx.Module("journal",
		fx.Provide(
			func(ctx context.Context, cfg *config.Config) (*service.Journal, error) {
				if cfg.JournalDSN == "" {
					log.Println("[JOURNAL] no DSN, journal disabled")
					return nil, nil
				}
				pool, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.JournalDSN})
				if err != nil {
					return nil, err
				}
				return service.New(ctx, db.NewPgTxManager(pool))
			},
		),
	)
}

package runner

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"paper_bot/internal/exchange"
	"paper_bot/internal/models"
	"paper_bot/internal/modules/config"
	jsvc "paper_bot/internal/modules/journal/service"
	"paper_bot/internal/modules/strategy/service"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			func(cfg *config.Config) *Ledger {
				return NewLedger(cfg.Engine.QuoteAsset, cfg.Engine.InitialQuote)
			},

			// Оценщику позиция видна только на чтение.
			func(l *Ledger) service.PositionView { return l },

			func(cfg *config.Config) MetaSource {
				return exchange.NewClient(cfg.Feed.RESTURL)
			},

			func(j *jsvc.Journal) Journal {
				if j == nil {
					return nil
				}
				return j
			},

			NewExecutor,
			New, // *Runner
		),

		// прогрев кэша шага лота: без метаданных торговать нельзя,
		// недоступная биржа на старте — фатальна
		fx.Invoke(func(lc fx.Lifecycle, meta MetaSource, cfg *config.Config) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					for _, s := range cfg.Strategy.Symbols {
						if _, err := meta.Instrument(ctx, s); err != nil {
							return errors.Wrapf(err, "instrument meta %s", s)
						}
					}
					return nil
				},
			})
		}),

		fx.Invoke(func(lc fx.Lifecycle, r *Runner, sigs chan models.Signal, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go r.HealthLoop(ctx)
					go func() {
						for {
							select {
							case <-ctx.Done():
								return
							case sig := <-sigs:
								r.OnSignal(ctx, sig)
							}
						}
					}()
					return nil
				},
			})
		}),
	)
}

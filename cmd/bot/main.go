package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"paper_bot/internal/modules/binance_websocket"
	"paper_bot/internal/modules/config"
	"paper_bot/internal/modules/health"
	"paper_bot/internal/modules/journal"
	"paper_bot/internal/modules/metrics"
	"paper_bot/internal/modules/strategy"
	"paper_bot/internal/modules/telegram"
	"paper_bot/internal/runner"
	"paper_bot/pkg/logger"
	"paper_bot/pkg/tracing"
)

func main() {
	if err := logger.Init("paper_bot"); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		metrics.Module(),
		health.Module(),
		journal.Module(),
		telegram.Module(),
		binance_websocket.Module(),
		strategy.Module(),
		runner.Module(),

		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Tracing.Host,
				Port: cfg.Tracing.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closeTracer()
					return nil
				},
			})
			return nil
		}),
	)

	app.Run()
}

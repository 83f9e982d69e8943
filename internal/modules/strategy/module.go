package strategy

import (
	"context"
	"log"

	"go.uber.org/fx"

	"paper_bot/internal/models"
	"paper_bot/internal/modules/strategy/service"
)

func newSignalsChan() chan models.Signal {
	return make(chan models.Signal, 4096)
}
func asSendOnlySignals(ch chan models.Signal) chan<- models.Signal { return ch }

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			newSignalsChan,    // chan models.Signal
			asSendOnlySignals, // chan<- models.Signal
			service.NewEngine, // service.Engine
			service.NewHub,    // *service.Hub
		),

		fx.Invoke(func(lc fx.Lifecycle, hub *service.Hub, events chan models.StreamEvent, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						log.Printf("[STRAT] hub loop started")
						for {
							select {
							case <-ctx.Done():
								log.Printf("[STRAT] hub loop stopped")
								return
							case ev, ok := <-events:
								if !ok {
									log.Printf("[STRAT] events channel closed")
									return
								}
								hub.OnEvent(ctx, ev)
							}
						}
					}()
					return nil
				},
			})
		}),
	)
}

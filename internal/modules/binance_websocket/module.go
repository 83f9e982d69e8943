package binance_websocket

import (
	"context"

	"go.uber.org/fx"

	"paper_bot/internal/models"
	"paper_bot/internal/modules/binance_websocket/service"
)

// Module поднимает стример событий Binance.
func Module() fx.Option {
	return fx.Module("binance_websocket",
		fx.Provide(
			service.NewClient,
			func() chan models.StreamEvent {
				// общий буфер событий для конвейера
				return make(chan models.StreamEvent, 1024)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, c *service.Client, out chan models.StreamEvent, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go c.Start(ctx, out)
					return nil
				},
			})
		}),
	)
}

package telegram

import (
	"context"
	"log"

	"go.uber.org/fx"

	"paper_bot/internal/modules/config"
	"paper_bot/internal/notify"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// Бэкенд: Telegram при наличии токена, иначе stdout.
		fx.Provide(
			func(cfg *config.Config) notify.Backend {
				if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
					log.Println("[NOTIFY] no telegram token, using stdout")
					return notify.NewStdout()
				}
				t, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
				if err != nil {
					log.Printf("[NOTIFY] telegram init failed (%v), using stdout", err)
					return notify.NewStdout()
				}
				return t
			},
		),

		fx.Provide(
			notify.NewService,
		),

		// Адаптер: *notify.Service -> notify.Notifier
		fx.Provide(
			func(s *notify.Service) notify.Notifier {
				return s
			},
		),

		// Воркер доставки + стартовое сообщение.
		fx.Invoke(
			func(lc fx.Lifecycle, ctx context.Context, s *notify.Service, cfg *config.Config) {
				runCtx, cancel := context.WithCancel(ctx)
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						go s.Run(runCtx)
						s.Sendf("🤖 paper_bot started | strategy=%s symbols=%v",
							cfg.Strategy.Name, cfg.Strategy.Symbols)
						return nil
					},
					OnStop: func(context.Context) error {
						cancel()
						return nil
					},
				})
			},
		),
	)
}

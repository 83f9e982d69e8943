package runner

import (
	"context"
	"log"
	"time"

	"paper_bot/internal/models"
	"paper_bot/internal/modules/config"
	"paper_bot/internal/notify"
)

// Runner разбирает сигналы оценщика: советы уходят в уведомления,
// BUY/SELL — в исполнитель.
type Runner struct {
	cfg    *config.Config
	exec   *Executor
	ledger *Ledger
	n      notify.Notifier
}

func New(cfg *config.Config, exec *Executor, ledger *Ledger, n notify.Notifier) *Runner {
	return &Runner{cfg: cfg, exec: exec, ledger: ledger, n: n}
}

func (r *Runner) OnSignal(ctx context.Context, sig models.Signal) {
	if sig.Advisory {
		log.Printf("[RUNNER] 📣 %s advisory: %s", sig.Symbol, sig.Reason)
		r.n.Sendf("📣 [%s] %s", sig.Symbol, sig.Reason)
		return
	}

	switch sig.Side {
	case models.SideBuy:
		r.exec.ExecuteBuy(ctx, sig)
	case models.SideSell:
		r.exec.ExecuteSell(ctx, sig)
	default:
		log.Printf("[RUNNER] %s unknown side %q", sig.Symbol, sig.Side)
	}
}

// HealthLoop — периодическая сводка в уведомления.
func (r *Runner) HealthLoop(ctx context.Context) {
	every := r.cfg.Engine.HealthEvery
	if every <= 0 {
		every = 30 * time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pos := "none"
			if p, ok := r.ledger.Open(); ok {
				pos = p.Symbol
			}
			r.n.Sendf("🩺 HEALTH | %s=%.2f | position=%s",
				r.cfg.Engine.QuoteAsset, r.ledger.QuoteBalance(), pos)
		}
	}
}

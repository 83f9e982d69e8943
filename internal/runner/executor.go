package runner

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/opentracing/opentracing-go"

	"paper_bot/internal/models"
	"paper_bot/internal/modules/config"
	"paper_bot/internal/modules/metrics"
	"paper_bot/internal/notify"
)

// MetaSource — метаданные инструмента (шаг лота). Реализуется REST-клиентом биржи.
type MetaSource interface {
	Instrument(ctx context.Context, symbol string) (models.Instrument, error)
}

// Journal — опциональный журнал сделок; nil-безопасен.
type Journal interface {
	Record(ctx context.Context, rec models.TradeRecord) error
}

// Executor — симулированное исполнение: спред вокруг референсной цены,
// количество с округлением вниз до шага лота.
type Executor struct {
	cfg    *config.Config
	ledger *Ledger
	meta   MetaSource
	n      notify.Notifier
	j      Journal
	m      *metrics.Metrics
}

func NewExecutor(cfg *config.Config, ledger *Ledger, meta MetaSource, n notify.Notifier, j Journal, m *metrics.Metrics) *Executor {
	return &Executor{cfg: cfg, ledger: ledger, meta: meta, n: n, j: j, m: m}
}

func (e *Executor) askPrice(ref float64) float64 { return ref * (1 + e.cfg.Engine.SpreadPct/2) }
func (e *Executor) bidPrice(ref float64) float64 { return ref * (1 - e.cfg.Engine.SpreadPct/2) }

// ExecuteBuy открывает позицию по сигналу. Повторный BUY, пока идёт
// покупка или позиция открыта, молча отбрасывается.
func (e *Executor) ExecuteBuy(ctx context.Context, sig models.Signal) {
	if !e.ledger.tryBeginBuy() {
		log.Printf("[EXEC] %s BUY ignored: busy or position open", sig.Symbol)
		return
	}
	defer e.ledger.endBuy()

	span, ctx := opentracing.StartSpanFromContext(ctx, "execute_buy")
	defer span.Finish()
	span.SetTag("symbol", sig.Symbol)

	inst, err := e.meta.Instrument(ctx, sig.Symbol)
	if err != nil {
		log.Printf("[EXEC] %s meta: %v", sig.Symbol, err)
		e.n.Sendf("❗️ [%s] Failed to fetch lot step size: %v", sig.Symbol, err)
		return
	}

	budget := e.cfg.Engine.Budget
	if avail := e.ledger.QuoteBalance(); budget <= 0 || budget > avail {
		budget = avail
	}

	ask := e.askPrice(sig.Price)
	pow := math.Pow(10, float64(inst.StepPrecision))
	qty := math.Floor(budget/ask*pow) / pow

	if qty < inst.StepSize {
		e.m.SkipsTotal.Inc()
		log.Printf("[EXEC] %s BUY skipped: qty %.8f < step %.8f", sig.Symbol, qty, inst.StepSize)
		e.n.Sendf("⚠️ [%s] Skipped buy: budget too low (qty %.8f < step %.8f)",
			sig.Symbol, qty, inst.StepSize)
		e.record(ctx, models.TradeRecord{
			Symbol: sig.Symbol, Side: models.SideBuy, Quantity: qty,
			FillPrice: ask, QuoteBalance: e.ledger.QuoteBalance(),
			Reason: sig.Reason, Skipped: true, At: time.Now(),
		})
		return
	}

	quoteLeft := e.ledger.applyBuy(sig.Symbol, qty, ask)
	e.m.TradesTotal.WithLabelValues("BUY").Inc()
	e.m.QuoteBalance.Set(quoteLeft)

	log.Printf("[EXEC] 🟠 BUY %s qty=%.8f @ %.4f (%s)", sig.Symbol, qty, ask, sig.Reason)
	e.n.Sendf("🟠 Bought %.6f %s @ %.4f\n%s: %.2f\nReason: %s",
		qty, sig.Symbol, ask, e.cfg.Engine.QuoteAsset, quoteLeft, sig.Reason)

	e.record(ctx, models.TradeRecord{
		Symbol: sig.Symbol, Side: models.SideBuy, Quantity: qty,
		FillPrice: ask, QuoteBalance: quoteLeft,
		Reason: sig.Reason, At: time.Now(),
	})
}

// ExecuteSell закрывает позицию целиком по bid-цене.
func (e *Executor) ExecuteSell(ctx context.Context, sig models.Signal) {
	pos, ok := e.ledger.tryBeginSell(sig.Symbol)
	if !ok {
		log.Printf("[EXEC] %s SELL ignored: busy or no matching position", sig.Symbol)
		return
	}
	defer e.ledger.endSell()

	span, ctx := opentracing.StartSpanFromContext(ctx, "execute_sell")
	defer span.Finish()
	span.SetTag("symbol", sig.Symbol)

	bid := e.bidPrice(sig.Price)
	quoteLeft := e.ledger.applySell(sig.Symbol, pos.Quantity, bid)
	e.m.TradesTotal.WithLabelValues("SELL").Inc()
	e.m.QuoteBalance.Set(quoteLeft)

	gain := bid / pos.EntryPrice
	log.Printf("[EXEC] 🟢 SELL %s qty=%.8f @ %.4f gain=x%.4f (%s)",
		sig.Symbol, pos.Quantity, bid, gain, sig.Reason)
	e.n.Sendf("🟢 Sold %.6f %s @ %.4f (x%.4f)\n%s: %.2f\nReason: %s",
		pos.Quantity, sig.Symbol, bid, gain, e.cfg.Engine.QuoteAsset, quoteLeft, sig.Reason)

	e.record(ctx, models.TradeRecord{
		Symbol: sig.Symbol, Side: models.SideSell, Quantity: pos.Quantity,
		FillPrice: bid, QuoteBalance: quoteLeft,
		Reason: sig.Reason, At: time.Now(),
	})
}

func (e *Executor) record(ctx context.Context, rec models.TradeRecord) {
	if e.j == nil {
		return
	}
	if err := e.j.Record(ctx, rec); err != nil {
		log.Printf("[JOURNAL] record failed: %v", err)
	}
}

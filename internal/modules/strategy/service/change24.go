package service

import (
	"fmt"
	"sync"

	"paper_bot/internal/models"
	"paper_bot/internal/modules/config"
)

// Change24 игнорирует скользящие средние: следит за суточным процентным
// изменением каждого символа и покупает самый просевший, когда
// одновременно в минусе не меньше AllowableNegatives символов.
// Сравнение с BuyPercent намеренно литеральное — знак порога задаёт
// конфигурация, код его не "исправляет".
type Change24 struct {
	mu  sync.Mutex
	cfg config.Strategy
	eng config.Config // spread для bid при продаже
	pos PositionView

	change map[string]float64
	last   map[string]float64
}

func NewChange24(cfg *config.Config, pos PositionView) *Change24 {
	return &Change24{
		cfg:    cfg.Strategy,
		eng:    *cfg,
		pos:    pos,
		change: make(map[string]float64),
		last:   make(map[string]float64),
	}
}

func (c *Change24) Name() string { return string(models.StrategyChange24) }

func (c *Change24) OnEvent(ev models.StreamEvent) (models.Signal, bool) {
	if ev.Type != models.EventMiniTicker && ev.Type != models.EventTicker {
		return models.Signal{}, false
	}
	t := ev.Ticker
	if t.Open == 0 {
		return models.Signal{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	changePct := (t.Last - t.Open) / t.Open * 100
	c.change[t.Symbol] = changePct
	c.last[t.Symbol] = t.Last

	if pos, open := c.pos.Open(); open {
		if pos.Symbol != t.Symbol {
			return models.Signal{}, false
		}
		ref := t.Last
		if c.cfg.UseBidForGain {
			ref = t.Last * (1 - c.eng.Engine.SpreadPct/2)
		}
		if ref/pos.EntryPrice >= c.eng.Engine.TargetGain {
			return models.Signal{
				Symbol:   t.Symbol,
				Side:     models.SideSell,
				Price:    t.Last,
				Strategy: models.StrategyChange24,
				Reason:   "Target reached",
			}, true
		}
		return models.Signal{}, false
	}

	candidates := c.cfg.Symbols
	if c.cfg.NegativeFilter {
		neg := make([]string, 0, len(candidates))
		for _, s := range candidates {
			if ch, ok := c.change[s]; ok && ch < 0 {
				neg = append(neg, s)
			}
		}
		candidates = neg
	}
	if len(candidates) < c.cfg.AllowableNegatives {
		return models.Signal{}, false
	}

	target := ""
	for _, s := range candidates {
		ch, ok := c.change[s]
		if !ok || ch > c.cfg.BuyPercent {
			continue
		}
		if target == "" || ch < c.change[target] {
			target = s
		}
	}
	if target == "" {
		return models.Signal{}, false
	}

	return models.Signal{
		Symbol:   target,
		Side:     models.SideBuy,
		Price:    c.last[target],
		Strategy: models.StrategyChange24,
		Reason:   fmt.Sprintf("24h change %.2f%%", c.change[target]),
	}, true
}

func (c *Change24) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.change = make(map[string]float64)
	c.last = make(map[string]float64)
}

func (c *Change24) Dump(symbol string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("change=%.4f last=%.4f", c.change[symbol], c.last[symbol])
}

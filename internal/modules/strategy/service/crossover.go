package service

import (
	"fmt"
	"sync"

	"paper_bot/internal/indicator"
	"paper_bot/internal/models"
	"paper_bot/internal/modules/config"
)

// Crossover — SMA-кроссовер с памятью пересечения и трендовыми флагами.
// Варианты поведения (мин. дивергенция, тейк от входа, покупка ниже
// короткой средней, наклон регрессии) включаются конфигом, а не кодом.
type Crossover struct {
	mu  sync.Mutex
	cfg config.Strategy
	pos PositionView

	sym map[string]*crossState
}

type crossState struct {
	agg *indicator.Aggregator

	crossedDown bool
	rising      bool
	falling     bool
}

func NewCrossover(cfg config.Strategy, pos PositionView) *Crossover {
	return &Crossover{
		cfg: cfg,
		pos: pos,
		sym: make(map[string]*crossState),
	}
}

func (c *Crossover) Name() string { return string(models.StrategyCrossover) }

func (c *Crossover) state(symbol string) *crossState {
	st := c.sym[symbol]
	if st == nil {
		policy := indicator.PolicyCandles
		if c.cfg.Populate == "ticks" {
			policy = indicator.PolicyTicks
		}
		st = &crossState{agg: indicator.NewAggregator(c.cfg.WindowCap, policy)}
		c.sym[symbol] = st
	}
	return st
}

func (c *Crossover) OnEvent(ev models.StreamEvent) (models.Signal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state(ev.Symbol)

	switch ev.Type {
	case models.EventKline:
		st.agg.OnCandle(ev.Candle)
		return models.Signal{}, false
	case models.EventTrade:
		if !st.agg.OnTick(ev.Tick.Price) {
			return models.Signal{}, false
		}
		return c.evaluate(ev.Symbol, st, ev.Tick.Price)
	default:
		return models.Signal{}, false
	}
}

// evaluate — один прогон машины состояний по новой цене.
func (c *Crossover) evaluate(symbol string, st *crossState, price float64) (models.Signal, bool) {
	if st.agg.Window.Len() <= c.cfg.MinWindow {
		return models.Signal{}, false
	}

	round := indicator.Rounder(c.cfg.RoundDecimals, c.cfg.RoundCeil)

	shortOld, ok1 := st.agg.Window.SMA(c.cfg.ShortPeriod, 2)
	shortPrev, ok2 := st.agg.Window.SMA(c.cfg.ShortPeriod, 1)
	shortCur, ok3 := st.agg.Window.SMA(c.cfg.ShortPeriod, 0)
	longPrev, ok4 := st.agg.Window.SMA(c.cfg.LongPeriod, 1)
	longCur, ok5 := st.agg.Window.SMA(c.cfg.LongPeriod, 0)
	if !(ok1 && ok2 && ok3 && ok4 && ok5) {
		return models.Signal{}, false
	}
	x, y, z := round(shortOld), round(shortPrev), round(shortCur)
	bLong, cLong := round(longPrev), round(longCur)

	// пересечение вниз / вверх
	if y >= bLong && z < cLong {
		st.crossedDown = true
	}
	if z > cLong && y <= bLong {
		st.crossedDown = false
	}

	// три подряд растущих/падающих коротких средних
	if z > y && y > x {
		st.rising = true
	}
	if z < y && y < x {
		st.falling = true
	}

	if pos, open := c.pos.Open(); open {
		if pos.Symbol != symbol {
			return models.Signal{}, false
		}
		return c.sellSignal(symbol, st, pos, price, z)
	}
	return c.buySignal(symbol, st, price, z)
}

func (c *Crossover) buySignal(symbol string, st *crossState, price, shortCur float64) (models.Signal, bool) {
	if c.cfg.BuyNeedsCrossedDown && !st.crossedDown {
		return models.Signal{}, false
	}
	if c.cfg.BuyNeedsRising && !st.rising {
		return models.Signal{}, false
	}
	if c.cfg.BuyNeedsFalling && !st.falling {
		return models.Signal{}, false
	}
	if c.cfg.BuyBelowShortMA > 0 && !(price < shortCur-c.cfg.BuyBelowShortMA) {
		return models.Signal{}, false
	}
	if c.cfg.BuyMinDivergence > 0 {
		// вариант с дивергенцией: короткая средняя должна просесть от
		// "давней" больше порога, а хвост окна иметь отрицательный наклон
		past, ok := st.agg.Window.SMA(c.cfg.ShortPeriod, 4)
		if !ok || past == 0 || (past-shortCur)/past <= c.cfg.BuyMinDivergence {
			return models.Signal{}, false
		}
	}
	if c.cfg.BuyNeedsNegSlope {
		if indicator.Slope(st.agg.Window.Tail(c.cfg.SlopeWindow)) >= 0 {
			return models.Signal{}, false
		}
	}

	st.rising = false
	st.falling = false
	return models.Signal{
		Symbol:   symbol,
		Side:     models.SideBuy,
		Price:    price,
		Strategy: models.StrategyCrossover,
		Reason:   "crossover",
	}, true
}

func (c *Crossover) sellSignal(symbol string, st *crossState, pos models.Position, price, shortCur float64) (models.Signal, bool) {
	if c.cfg.TakeProfitPct > 0 && price >= pos.EntryPrice*(1+c.cfg.TakeProfitPct) {
		st.falling, st.rising = false, false
		return models.Signal{
			Symbol:   symbol,
			Side:     models.SideSell,
			Price:    price,
			Strategy: models.StrategyCrossover,
			Reason:   "Target reached",
		}, true
	}
	if c.cfg.SellOnFalling && st.falling {
		st.falling, st.rising = false, false
		return models.Signal{
			Symbol:   symbol,
			Side:     models.SideSell,
			Price:    price,
			Strategy: models.StrategyCrossover,
			Reason:   "Price falling",
		}, true
	}
	if c.cfg.SellAboveShortMA > 0 && price > shortCur+c.cfg.SellAboveShortMA {
		st.falling, st.rising = false, false
		return models.Signal{
			Symbol:   symbol,
			Side:     models.SideSell,
			Price:    price,
			Strategy: models.StrategyCrossover,
			Reason:   "Reversal",
		}, true
	}
	return models.Signal{}, false
}

func (c *Crossover) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, st := range c.sym {
		st.agg.Reset()
		st.crossedDown = false
		st.rising = false
		st.falling = false
	}
}

func (c *Crossover) Dump(symbol string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.sym[symbol]
	if st == nil {
		return "no state"
	}
	return fmt.Sprintf("len=%d crossedDown=%v rising=%v falling=%v",
		st.agg.Window.Len(), st.crossedDown, st.rising, st.falling)
}

package service

import (
	"fmt"
	"sync"

	"paper_bot/internal/models"
	"paper_bot/internal/modules/config"
)

// BuyZone — чисто рекомендательный оценщик: голосование трендов
// середин тел/диапазонов последних свечей. Никогда не исполняется,
// только уведомляет о "зоне покупки".
type BuyZone struct {
	mu  sync.Mutex
	cfg config.Strategy

	candles map[string][]zoneCandle
}

type zoneCandle struct {
	open, high, low, close float64
	x1, x2                 float64 // середина тела / середина диапазона
	color                  byte    // 'G' / 'R' / 'E'
	trendX1, trendX2       byte    // 'U' / 'D' / 'E', 0 пока неизвестен
}

func NewBuyZone(cfg config.Strategy) *BuyZone {
	return &BuyZone{
		cfg:     cfg,
		candles: make(map[string][]zoneCandle),
	}
}

func (b *BuyZone) Name() string { return string(models.StrategyBuyZone) }

func (b *BuyZone) OnEvent(ev models.StreamEvent) (models.Signal, bool) {
	if ev.Type != models.EventKline || !ev.Candle.Final {
		return models.Signal{}, false
	}
	c := ev.Candle

	b.mu.Lock()
	defer b.mu.Unlock()

	color := byte('E')
	switch {
	case c.Open > c.Close:
		color = 'R'
	case c.Open < c.Close:
		color = 'G'
	}
	nc := zoneCandle{
		open: c.Open, high: c.High, low: c.Low, close: c.Close,
		x1:    (c.Open + c.Close) / 2,
		x2:    (c.High + c.Low) / 2,
		color: color,
	}

	list := b.candles[ev.Symbol]
	if n := len(list); n > 0 {
		prev := &list[n-1]
		prev.trendX1 = trendOf(nc.x1, prev.x1)
		prev.trendX2 = trendOf(nc.x2, prev.x2)
	}
	list = append(list, nc)
	if len(list) > b.cfg.CandleKeep {
		list = list[1:]
	}
	b.candles[ev.Symbol] = list

	if len(list) < b.cfg.CandleMin {
		return models.Signal{}, false
	}
	return b.analyze(ev.Symbol, list)
}

func trendOf(cur, prev float64) byte {
	switch {
	case cur > prev:
		return 'U'
	case cur < prev:
		return 'D'
	default:
		return 'E'
	}
}

func (b *BuyZone) analyze(symbol string, list []zoneCandle) (models.Signal, bool) {
	latest := list[len(list)-1]
	prev := list[:len(list)-1]
	if len(prev) == 0 {
		// голосовать не по чему
		return models.Signal{}, false
	}

	var x1U, x1D, x2U, x2D int
	for _, c := range prev {
		switch c.trendX1 {
		case 'U':
			x1U++
		case 'D':
			x1D++
		}
		switch c.trendX2 {
		case 'U':
			x2U++
		case 'D':
			x2D++
		}
	}
	lastTrendX2 := prev[len(prev)-1].trendX2

	ok := x2D >= x2U && lastTrendX2 == 'U' &&
		x1D >= x1U && (latest.color == 'G' || latest.color == 'E')
	if !ok {
		return models.Signal{}, false
	}

	return models.Signal{
		Symbol:   symbol,
		Side:     models.SideBuy,
		Price:    latest.close,
		Strategy: models.StrategyBuyZone,
		Reason:   fmt.Sprintf("Buy now between %.4f -> %.4f", latest.close, latest.high),
		Advisory: true,
	}, true
}

func (b *BuyZone) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.candles = make(map[string][]zoneCandle)
}

func (b *BuyZone) Dump(symbol string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fmt.Sprintf("candles=%d", len(b.candles[symbol]))
}

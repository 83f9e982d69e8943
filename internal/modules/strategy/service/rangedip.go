package service

import (
	"fmt"
	"sync"
	"time"

	"paper_bot/internal/models"
	"paper_bot/internal/modules/config"
)

// RangeDip собирает кандидатов по суточному диапазону: цена в нижних
// 20% диапазона и проекция +2% не выше суточного хая. Решение о покупке
// принимается не на каждом тике, а по одноразовому таймеру: он
// взводится первым апдейтом при простое движка, по срабатыванию
// выбирается лучший кандидат (минимальное расстояние до лоу) и все
// записи очищаются.
type RangeDip struct {
	mu  sync.Mutex
	cfg config.Strategy
	eng config.Config
	pos PositionView

	// асинхронный выход: flush стреляет из таймера, мимо OnEvent
	emit func(models.Signal)

	records map[string]dipRecord
	timer   *time.Timer
}

type dipRecord struct {
	symbol string
	price  float64
	low    float64
	within bool
	projOK bool
}

func NewRangeDip(cfg *config.Config, pos PositionView) *RangeDip {
	return &RangeDip{
		cfg:     cfg.Strategy,
		eng:     *cfg,
		pos:     pos,
		records: make(map[string]dipRecord),
	}
}

func (r *RangeDip) Name() string { return string(models.StrategyRangeDip) }

// SetEmit задаёт сток для отложенных сигналов покупки.
func (r *RangeDip) SetEmit(emit func(models.Signal)) {
	r.mu.Lock()
	r.emit = emit
	r.mu.Unlock()
}

func (r *RangeDip) OnEvent(ev models.StreamEvent) (models.Signal, bool) {
	if ev.Type != models.EventTicker {
		return models.Signal{}, false
	}
	t := ev.Ticker
	if t.High <= 0 || t.Low <= 0 {
		return models.Signal{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rangeTop := t.Low + (t.High-t.Low)*r.cfg.LowerRange
	r.records[t.Symbol] = dipRecord{
		symbol: t.Symbol,
		price:  t.Last,
		low:    t.Low,
		within: t.Last <= rangeTop,
		projOK: t.Last*r.cfg.ProjectedUp <= t.High,
	}

	if pos, open := r.pos.Open(); open {
		if pos.Symbol != t.Symbol {
			return models.Signal{}, false
		}
		bid := t.Last * (1 - r.eng.Engine.SpreadPct/2)
		if bid/pos.EntryPrice >= r.eng.Engine.TargetGain {
			return models.Signal{
				Symbol:   t.Symbol,
				Side:     models.SideSell,
				Price:    t.Last,
				Strategy: models.StrategyRangeDip,
				Reason:   "Target reached",
			}, true
		}
		return models.Signal{}, false
	}

	if r.timer == nil && r.pos.Idle() {
		r.timer = time.AfterFunc(r.cfg.Debounce, func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.flush()
		})
	}
	return models.Signal{}, false
}

// flush выбирает лучшего кандидата и чистит аккумулятор.
// Вызывается под мьютексом.
func (r *RangeDip) flush() {
	defer func() {
		r.records = make(map[string]dipRecord)
		r.timer = nil
	}()

	best := dipRecord{}
	found := false
	for _, rec := range r.records {
		if !rec.within || !rec.projOK {
			continue
		}
		if !found || rec.price-rec.low < best.price-best.low {
			best = rec
			found = true
		}
	}
	if !found || r.emit == nil || !r.pos.Idle() {
		return
	}

	r.emit(models.Signal{
		Symbol:   best.symbol,
		Side:     models.SideBuy,
		Price:    best.price,
		Strategy: models.StrategyRangeDip,
		Reason:   fmt.Sprintf("dip %.4f above day low", best.price-best.low),
	})
}

// Reset гасит таймер и чистит записи — в том числе после ошибок
// разбора, чтобы движок всегда мог двигаться дальше.
func (r *RangeDip) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.records = make(map[string]dipRecord)
}

func (r *RangeDip) Dump(symbol string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[symbol]
	if !ok {
		return "no record"
	}
	return fmt.Sprintf("price=%.4f low=%.4f within=%v projOK=%v",
		rec.price, rec.low, rec.within, rec.projOK)
}

package service

import (
	"context"
	"log"
	"time"

	healthsvc "paper_bot/internal/modules/health/service"
	"paper_bot/internal/modules/metrics"

	"paper_bot/internal/models"
)

// Hub принимает события фида, прогоняет через оценщик и публикует
// решения в канал сигналов. Единственный потребитель событий —
// конвейер строго последовательный.
type Hub struct {
	engine Engine
	out    chan<- models.Signal
	m      *metrics.Metrics
	state  *healthsvc.State
}

func NewHub(engine Engine, out chan<- models.Signal, m *metrics.Metrics, state *healthsvc.State) *Hub {
	// отложенные сигналы (debounce) минуют OnEvent и идут сразу в канал
	if rd, ok := engine.(*RangeDip); ok {
		rd.SetEmit(func(sig models.Signal) {
			select {
			case out <- sig:
			default:
				log.Printf("[STRAT] signal channel full, drop %s %s", sig.Symbol, sig.Side)
			}
		})
	}
	return &Hub{engine: engine, out: out, m: m, state: state}
}

func (h *Hub) OnEvent(ctx context.Context, ev models.StreamEvent) {
	if ev.Type == models.EventReconnect {
		// граница отмены: вся накопленная история и память оценщика
		// отбрасываются и строятся заново
		h.engine.Reset()
		log.Printf("[STRAT] reconnect — rolling state reset")
		return
	}

	if h.m != nil {
		h.m.EventsTotal.Inc()
	}
	if h.state != nil {
		h.state.TouchTick(time.Now())
	}

	sig, ok := h.engine.OnEvent(ev)
	if !ok {
		return
	}
	if h.m != nil {
		h.m.SignalsTotal.Inc()
	}
	log.Printf("[SIGNAL] %s %s @ %.4f (%s)", sig.Symbol, sig.Side, sig.Price, sig.Reason)

	select {
	case h.out <- sig:
	case <-ctx.Done():
	}
}

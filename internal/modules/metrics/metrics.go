package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — счётчики конвейера для Prometheus.
type Metrics struct {
	EventsTotal   prometheus.Counter
	SignalsTotal  prometheus.Counter
	TradesTotal   *prometheus.CounterVec // label: side
	SkipsTotal    prometheus.Counter
	WSReconnects  prometheus.Counter
	NotifyDropped prometheus.Counter
	QuoteBalance  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paperbot_events_total",
			Help: "Stream events accepted by the evaluation pipeline",
		}),
		SignalsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paperbot_signals_total",
			Help: "Decisions emitted by the signal evaluator",
		}),
		TradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paperbot_trades_total",
			Help: "Simulated executions by side",
		}, []string{"side"}),
		SkipsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paperbot_buy_skips_total",
			Help: "Buys skipped because quantity fell below step size",
		}),
		WSReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paperbot_ws_reconnects_total",
			Help: "WebSocket reconnection attempts",
		}),
		NotifyDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paperbot_notify_dropped_total",
			Help: "Outcome notifications dropped on full queue",
		}),
		QuoteBalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "paperbot_quote_balance",
			Help: "Current simulated quote-currency balance",
		}),
	}

	reg.MustRegister(
		m.EventsTotal,
		m.SignalsTotal,
		m.TradesTotal,
		m.SkipsTotal,
		m.WSReconnects,
		m.NotifyDropped,
		m.QuoteBalance,
	)

	return m
}

package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"paper_bot/internal/models"
	"paper_bot/internal/modules/config"
	healthsvc "paper_bot/internal/modules/health/service"
	"paper_bot/internal/modules/metrics"
)

// Client держит подписку на комбинированный стрим Binance и отдаёт
// события в канал. На разрыве соединение пересоздаётся с фиксированной
// паузой, вниз по конвейеру уходит EventReconnect — скользкую историю
// после пропуска держать нельзя.
type Client struct {
	cfg      *config.Config
	wsDialer *websocket.Dialer
	m        *metrics.Metrics
	state    *healthsvc.State
}

func NewClient(cfg *config.Config, m *metrics.Metrics, state *healthsvc.State) *Client {
	return &Client{
		cfg:      cfg,
		wsDialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		m:        m,
		state:    state,
	}
}

// streams собирает имена каналов под выбранную стратегию.
func streams(cfg *config.Config) []string {
	st := cfg.Strategy
	var out []string
	for _, s := range st.Symbols {
		low := strings.ToLower(s)
		switch st.Name {
		case "change24":
			out = append(out, low+"@miniTicker")
		case "rangedip":
			out = append(out, low+"@ticker")
		case "buyzone":
			out = append(out, low+"@kline_"+st.Timeframe)
		default: // crossover
			if st.Populate != "ticks" {
				out = append(out, low+"@kline_"+st.Timeframe)
			}
			out = append(out, low+"@trade")
		}
	}
	return out
}

func (c *Client) url() string {
	return c.cfg.Feed.WSURL + "?streams=" + strings.Join(streams(c.cfg), "/")
}

// Start блокируется до отмены контекста.
func (c *Client) Start(ctx context.Context, out chan<- models.StreamEvent) {
	url := c.url()
	delay := c.cfg.Feed.ReconnectDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}

	first := true
	for {
		if ctx.Err() != nil {
			return
		}
		if !first {
			// фиксированная пауза перед новой подпиской
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}
		first = false

		log.Printf("[WS] connect %d streams", len(streams(c.cfg)))
		conn, _, err := c.wsDialer.DialContext(ctx, url, nil)
		if err != nil {
			log.Printf("[WS] dial error: %v", err)
			continue
		}
		if c.state != nil {
			c.state.SetWSConnected(true)
		}

		c.readLoop(ctx, conn, out)

		if c.state != nil {
			c.state.SetWSConnected(false)
		}
		if c.m != nil {
			c.m.WSReconnects.Inc()
		}
		// граница отмены для всего per-symbol состояния ниже по конвейеру
		select {
		case out <- models.StreamEvent{Type: models.EventReconnect}:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- models.StreamEvent) {
	defer func() { _ = conn.Close() }()

	// сторож живёт не дольше своего соединения, иначе по одной
	// горутине копилось бы на каждый reconnect
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("[WS] read error: %v", err)
			}
			return
		}

		ev, err := parseEvent(msg)
		if err != nil {
			// битый кадр не должен ни уронить процесс, ни попасть в окно
			log.Printf("[WS] drop malformed payload: %v", err)
			continue
		}

		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

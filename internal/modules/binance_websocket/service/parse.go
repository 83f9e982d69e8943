package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"paper_bot/internal/models"
)

// combinedFrame — кадр комбинированного стрима Binance:
// {"stream":"arusdt@trade","data":{...}}.
type combinedFrame struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// wsPayload — объединение полей всех типов событий; числа приходят строками.
type wsPayload struct {
	Event  string `json:"e"`
	Symbol string `json:"s"`

	Price string `json:"p"` // trade

	Close string `json:"c"` // ticker: last
	Open  string `json:"o"`
	High  string `json:"h"`
	Low   string `json:"l"`

	Kline struct {
		Open  string `json:"o"`
		High  string `json:"h"`
		Low   string `json:"l"`
		Close string `json:"c"`
		Final bool   `json:"x"`
		Start int64  `json:"t"` // ms
	} `json:"k"`
}

// parseEvent разбирает сырой кадр в StreamEvent. Неизвестные и битые
// кадры — ошибка: вызывающий логирует и отбрасывает.
func parseEvent(raw []byte) (models.StreamEvent, error) {
	var frame combinedFrame
	if err := sonic.Unmarshal(raw, &frame); err != nil {
		return models.StreamEvent{}, fmt.Errorf("frame: %w", err)
	}
	if len(frame.Data) == 0 {
		return models.StreamEvent{}, fmt.Errorf("empty data in frame %q", frame.Stream)
	}

	var p wsPayload
	if err := sonic.Unmarshal(frame.Data, &p); err != nil {
		return models.StreamEvent{}, fmt.Errorf("payload: %w", err)
	}

	switch p.Event {
	case "trade":
		price, err := parsePrice("p", p.Price)
		if err != nil {
			return models.StreamEvent{}, err
		}
		return models.StreamEvent{
			Type:   models.EventTrade,
			Symbol: p.Symbol,
			Tick:   models.Tick{Symbol: p.Symbol, Price: price, Time: time.Now()},
		}, nil

	case "kline":
		k := p.Kline
		open, err1 := parsePrice("k.o", k.Open)
		high, err2 := parsePrice("k.h", k.High)
		low, err3 := parsePrice("k.l", k.Low)
		closep, err4 := parsePrice("k.c", k.Close)
		for _, err := range []error{err1, err2, err3, err4} {
			if err != nil {
				return models.StreamEvent{}, err
			}
		}
		return models.StreamEvent{
			Type:   models.EventKline,
			Symbol: p.Symbol,
			Candle: models.Candle{
				Open: open, High: high, Low: low, Close: closep,
				Final: k.Final,
				Start: time.UnixMilli(k.Start),
			},
		}, nil

	case "24hrMiniTicker", "24hrTicker":
		last, err := parsePrice("c", p.Close)
		if err != nil {
			return models.StreamEvent{}, err
		}
		t := models.Ticker24h{Symbol: p.Symbol, Last: last}
		if p.Open != "" {
			if t.Open, err = parsePrice("o", p.Open); err != nil {
				return models.StreamEvent{}, err
			}
		}
		if p.High != "" {
			if t.High, err = parsePrice("h", p.High); err != nil {
				return models.StreamEvent{}, err
			}
		}
		if p.Low != "" {
			if t.Low, err = parsePrice("l", p.Low); err != nil {
				return models.StreamEvent{}, err
			}
		}
		typ := models.EventMiniTicker
		if p.Event == "24hrTicker" {
			typ = models.EventTicker
		}
		return models.StreamEvent{Type: typ, Symbol: p.Symbol, Ticker: t}, nil

	default:
		return models.StreamEvent{}, fmt.Errorf("unknown event %q", p.Event)
	}
}

func parsePrice(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse: %v (%q)", name, err, s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s <= 0: %q", name, s)
	}
	return v, nil
}

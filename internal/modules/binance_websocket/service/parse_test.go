package service

import (
	"testing"

	"paper_bot/internal/models"
	"paper_bot/internal/modules/config"
)

func TestParseEvent_Trade(t *testing.T) {
	raw := []byte(`{"stream":"arusdt@trade","data":{"e":"trade","s":"ARUSDT","p":"12.3400"}}`)

	ev, err := parseEvent(raw)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Type != models.EventTrade || ev.Symbol != "ARUSDT" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Tick.Price != 12.34 {
		t.Errorf("price = %v, want 12.34", ev.Tick.Price)
	}
}

func TestParseEvent_Kline(t *testing.T) {
	raw := []byte(`{"stream":"arusdt@kline_3m","data":{"e":"kline","s":"ARUSDT",
		"k":{"o":"10.0","h":"12.0","l":"9.5","c":"11.0","x":true,"t":1700000000000}}}`)

	ev, err := parseEvent(raw)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Type != models.EventKline {
		t.Fatalf("type = %v, want kline", ev.Type)
	}
	c := ev.Candle
	if c.Open != 10 || c.High != 12 || c.Low != 9.5 || c.Close != 11 || !c.Final {
		t.Errorf("candle = %+v", c)
	}
	if c.Start.UnixMilli() != 1700000000000 {
		t.Errorf("start = %v", c.Start)
	}
}

func TestParseEvent_MiniTickerAndTicker(t *testing.T) {
	mini := []byte(`{"stream":"arusdt@miniTicker","data":{"e":"24hrMiniTicker","s":"ARUSDT",
		"c":"99.0","o":"100.0","h":"105.0","l":"95.0"}}`)
	ev, err := parseEvent(mini)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Type != models.EventMiniTicker {
		t.Errorf("type = %v, want miniTicker", ev.Type)
	}
	if ev.Ticker.Last != 99 || ev.Ticker.Open != 100 || ev.Ticker.High != 105 || ev.Ticker.Low != 95 {
		t.Errorf("ticker = %+v", ev.Ticker)
	}

	full := []byte(`{"stream":"arusdt@ticker","data":{"e":"24hrTicker","s":"ARUSDT","c":"99.0","o":"100.0"}}`)
	ev, err = parseEvent(full)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Type != models.EventTicker {
		t.Errorf("type = %v, want ticker", ev.Type)
	}
}

func TestParseEvent_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":      `{{{`,
		"empty data":    `{"stream":"arusdt@trade"}`,
		"unknown event": `{"stream":"x","data":{"e":"depthUpdate","s":"ARUSDT"}}`,
		"bad price":     `{"stream":"arusdt@trade","data":{"e":"trade","s":"ARUSDT","p":"abc"}}`,
		"zero price":    `{"stream":"arusdt@trade","data":{"e":"trade","s":"ARUSDT","p":"0"}}`,
	}
	for name, raw := range cases {
		if _, err := parseEvent([]byte(raw)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestStreams_PerStrategy(t *testing.T) {
	mk := func(name, populate string) *config.Config {
		cfg := &config.Config{}
		cfg.Strategy.Name = name
		cfg.Strategy.Symbols = []string{"ARUSDT"}
		cfg.Strategy.Timeframe = "3m"
		cfg.Strategy.Populate = populate
		return cfg
	}

	cases := []struct {
		name, populate string
		want           []string
	}{
		{"change24", "", []string{"arusdt@miniTicker"}},
		{"rangedip", "", []string{"arusdt@ticker"}},
		{"buyzone", "", []string{"arusdt@kline_3m"}},
		{"crossover", "candles", []string{"arusdt@kline_3m", "arusdt@trade"}},
		{"crossover", "ticks", []string{"arusdt@trade"}},
	}
	for _, c := range cases {
		got := streams(mk(c.name, c.populate))
		if len(got) != len(c.want) {
			t.Errorf("%s/%s: streams = %v, want %v", c.name, c.populate, got, c.want)
			continue
		}
		for i := range c.want {
			if got[i] != c.want[i] {
				t.Errorf("%s/%s: streams[%d] = %q, want %q", c.name, c.populate, i, got[i], c.want[i])
			}
		}
	}
}

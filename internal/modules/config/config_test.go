package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "configs", "values_local.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
}

const minimalYAML = `
strategy:
  name: "crossover"
  symbols: ["ARUSDT"]
`

func TestNewConfig_Defaults(t *testing.T) {
	writeConfig(t, minimalYAML)

	cfg, err := NewConfig()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Engine.QuoteAsset != "USDT" {
		t.Errorf("quote asset = %q, want USDT", cfg.Engine.QuoteAsset)
	}
	if cfg.Engine.SpreadPct != 0.002 {
		t.Errorf("spread = %v, want 0.002", cfg.Engine.SpreadPct)
	}
	if cfg.Engine.TargetGain != 1.03 {
		t.Errorf("target gain = %v, want 1.03", cfg.Engine.TargetGain)
	}
	if cfg.Strategy.WindowCap != 25 || cfg.Strategy.MinWindow != 22 {
		t.Errorf("window = %d/%d, want 25/22", cfg.Strategy.WindowCap, cfg.Strategy.MinWindow)
	}
	if cfg.Strategy.ShortPeriod != 3 || cfg.Strategy.LongPeriod != 20 {
		t.Errorf("periods = %d/%d, want 3/20", cfg.Strategy.ShortPeriod, cfg.Strategy.LongPeriod)
	}
	if cfg.Feed.ReconnectDelay != 2*time.Second {
		t.Errorf("reconnect delay = %v, want 2s", cfg.Feed.ReconnectDelay)
	}
	// у crossover по умолчанию обязан быть выход из позиции
	if !cfg.Strategy.SellOnFalling {
		t.Error("default crossover must enable sell_on_falling")
	}
	// gain в оригинале считается от сырой цены, не от bid
	if cfg.Strategy.UseBidForGain {
		t.Error("use_bid_for_gain must default to false")
	}
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	writeConfig(t, minimalYAML)
	t.Setenv("TELEGRAM_TOKEN", "tok123")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("JOURNAL_DSN", "postgres://x")
	t.Setenv("RECONNECT_DELAY", "5s")
	t.Setenv("TARGET_GAIN", "1.05")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Telegram.Token != "tok123" || cfg.Telegram.ChatID != 42 {
		t.Errorf("telegram = %q/%d", cfg.Telegram.Token, cfg.Telegram.ChatID)
	}
	if cfg.JournalDSN != "postgres://x" {
		t.Errorf("journal dsn = %q", cfg.JournalDSN)
	}
	if cfg.Feed.ReconnectDelay != 5*time.Second {
		t.Errorf("reconnect delay = %v, want 5s", cfg.Feed.ReconnectDelay)
	}
	if cfg.Engine.TargetGain != 1.05 {
		t.Errorf("target gain = %v, want 1.05", cfg.Engine.TargetGain)
	}
}

func TestNewConfig_YamlWins(t *testing.T) {
	writeConfig(t, `
engine:
  spread_pct: 0.004
  target_gain: 1.1
strategy:
  name: "change24"
  symbols: ["AAAUSDT", "BBBUSDT"]
  allowable_negatives: 3
`)

	cfg, err := NewConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.SpreadPct != 0.004 || cfg.Engine.TargetGain != 1.1 {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Strategy.Name != "change24" || cfg.Strategy.AllowableNegatives != 3 {
		t.Errorf("strategy = %q/%d", cfg.Strategy.Name, cfg.Strategy.AllowableNegatives)
	}
	if len(cfg.Strategy.Symbols) != 2 {
		t.Errorf("symbols = %v", cfg.Strategy.Symbols)
	}
}

func TestNewConfig_Validation(t *testing.T) {
	for name, body := range map[string]string{
		"unknown strategy": `
strategy:
  name: "martingale"
  symbols: ["ARUSDT"]
`,
		"empty symbols": `
strategy:
  name: "crossover"
  symbols: []
`,
		"short >= long": `
strategy:
  name: "crossover"
  symbols: ["ARUSDT"]
  short_period: 20
  long_period: 20
`,
		"crossover without sell gate": `
strategy:
  name: "crossover"
  symbols: ["ARUSDT"]
  sell_on_falling: false
`,
		"buyzone candle_min too small": `
strategy:
  name: "buyzone"
  symbols: ["ARUSDT"]
  candle_min: 1
`,
	} {
		t.Run(name, func(t *testing.T) {
			writeConfig(t, body)
			if _, err := NewConfig(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

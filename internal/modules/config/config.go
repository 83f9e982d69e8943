package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	chatIDTelegramENV = "TELEGRAM_CHAT_ID"
	journalDSNENV     = "JOURNAL_DSN"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	// DSN журнала сделок; пустой — журнал выключен.
	JournalDSN string `yaml:"journal_dsn"`

	Service struct {
		HealthAddr string `yaml:"health_addr"` // например ":8080"
	} `yaml:"service"`

	Tracing struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"tracing"`

	Feed struct {
		WSURL          string        `yaml:"ws_url"`
		RESTURL        string        `yaml:"rest_url"`
		ReconnectDelay time.Duration `yaml:"-"` // .env: RECONNECT_DELAY (2–5s)
	} `yaml:"feed"`

	Engine struct {
		QuoteAsset   string  `yaml:"quote_asset"`
		InitialQuote float64 `yaml:"initial_quote"` // стартовый баланс USDT
		Budget       float64 `yaml:"budget"`        // бюджет на сделку; 0 = весь баланс
		SpreadPct    float64 `yaml:"spread_pct"`    // 0.002 = 0.2%
		TargetGain   float64 `yaml:"target_gain"`   // множитель, напр. 1.03
		HealthEvery  time.Duration `yaml:"-"` // .env: HEALTH_EVERY
	} `yaml:"engine"`

	Strategy Strategy `yaml:"strategy"`
}

// Strategy — параметры всех вариантов оценщика. Какие поля читаются,
// зависит от Name; несовпадающие игнорируются.
type Strategy struct {
	Name    string   `yaml:"name"` // crossover | change24 | rangedip | buyzone
	Symbols []string `yaml:"symbols"`

	Timeframe string `yaml:"timeframe"` // "3m", "15m"

	// Окно и скользящие средние
	WindowCap     int    `yaml:"window_cap"`     // 25
	MinWindow     int    `yaml:"min_window"`     // >22 до первой оценки
	ShortPeriod   int    `yaml:"short_period"`   // 3
	LongPeriod    int    `yaml:"long_period"`    // 20
	RoundDecimals int    `yaml:"round_decimals"` // 2 или 3
	RoundCeil     bool   `yaml:"round_ceil"`     // ceiling вместо half-up
	Populate      string `yaml:"populate"`       // candles | ticks

	// Гейты crossover-варианта
	BuyNeedsCrossedDown bool    `yaml:"buy_needs_crossed_down"`
	BuyNeedsRising      bool    `yaml:"buy_needs_rising"`
	BuyNeedsFalling     bool    `yaml:"buy_needs_falling"`
	BuyBelowShortMA     float64 `yaml:"buy_below_short_ma"` // покупать только при price < SMAshort - X
	SellAboveShortMA    float64 `yaml:"sell_above_short_ma"`
	SellOnFalling       bool    `yaml:"sell_on_falling"`
	TakeProfitPct       float64 `yaml:"take_profit_pct"` // 0.005 = +0.5% от входа
	BuyMinDivergence    float64 `yaml:"buy_min_divergence"`
	BuyNeedsNegSlope    bool    `yaml:"buy_needs_neg_slope"`
	SlopeWindow         int     `yaml:"slope_window"`

	// change24-вариант
	AllowableNegatives int     `yaml:"allowable_negatives"`
	BuyPercent         float64 `yaml:"buy_percent"` // сравнение литеральное, знак не нормализуется
	NegativeFilter     bool    `yaml:"negative_filter"`
	UseBidForGain      bool    `yaml:"use_bid_for_gain"`

	// rangedip-вариант
	Debounce    time.Duration `yaml:"-"`            // .env: DEBOUNCE, напр. 1s
	LowerRange  float64       `yaml:"lower_range"`  // 0.2 = нижние 20% диапазона
	ProjectedUp float64       `yaml:"projected_up"` // 1.02 = проекция +2% ниже хая

	// buyzone-вариант
	CandleKeep int `yaml:"candle_keep"` // 8
	CandleMin  int `yaml:"candle_min"`  // 7
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{}
	config.Service.HealthAddr = getenvDefault("HEALTH_ADDR", ":8080")
	config.Feed.WSURL = "wss://stream.binance.com:9443/stream"
	config.Feed.RESTURL = "https://api.binance.com"
	config.Feed.ReconnectDelay = durationFromEnv("RECONNECT_DELAY", "2s")
	config.Engine.QuoteAsset = "USDT"
	config.Engine.InitialQuote = floatFromEnv("INITIAL_QUOTE", 100)
	config.Engine.Budget = floatFromEnv("BUDGET", 0)
	config.Engine.SpreadPct = floatFromEnv("SPREAD_PCT", 0.002)
	config.Engine.TargetGain = floatFromEnv("TARGET_GAIN", 1.03)
	config.Engine.HealthEvery = durationFromEnv("HEALTH_EVERY", "30s")
	config.Strategy = defaultStrategy()

	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if v := os.Getenv(chatIDTelegramENV); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Telegram.ChatID = id
		}
	}
	if dsn := os.Getenv(journalDSNENV); dsn != "" {
		config.JournalDSN = dsn
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func defaultStrategy() Strategy {
	return Strategy{
		Name:          getenvDefault("STRATEGY", "crossover"),
		Symbols:       splitEnv("SYMBOLS", []string{"ARUSDT"}),
		Timeframe:     getenvDefault("TIMEFRAME", "3m"),
		WindowCap:     intFromEnv("WINDOW_CAP", 25),
		MinWindow:     intFromEnv("MIN_WINDOW", 22),
		ShortPeriod:   intFromEnv("SHORT_PERIOD", 3),
		LongPeriod:    intFromEnv("LONG_PERIOD", 20),
		RoundDecimals: intFromEnv("ROUND_DECIMALS", 2),
		RoundCeil:     true,
		Populate:      getenvDefault("POPULATE", "candles"),

		BuyNeedsCrossedDown: true,
		BuyNeedsRising:      true,
		SellOnFalling:       true,
		TakeProfitPct:       floatFromEnv("TAKE_PROFIT_PCT", 0),
		SlopeWindow:         5,

		AllowableNegatives: intFromEnv("ALLOWABLE_NEGATIVES", 1),
		BuyPercent:         floatFromEnv("BUY_PERCENT", -0.005),
		NegativeFilter:     true,

		Debounce:    durationFromEnv("DEBOUNCE", "1s"),
		LowerRange:  0.2,
		ProjectedUp: 1.02,

		CandleKeep: 8,
		CandleMin:  7,
	}
}

func (c *Config) validate() error {
	if len(c.Strategy.Symbols) == 0 {
		return fmt.Errorf("strategy.symbols is empty")
	}
	switch c.Strategy.Name {
	case "crossover", "change24", "rangedip", "buyzone":
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy.Name)
	}
	if c.Strategy.ShortPeriod >= c.Strategy.LongPeriod {
		return fmt.Errorf("short_period must be < long_period")
	}
	// crossover без единого sell-гейта навсегда застревает в первой
	// позиции
	if c.Strategy.Name == "crossover" &&
		c.Strategy.TakeProfitPct <= 0 && !c.Strategy.SellOnFalling && c.Strategy.SellAboveShortMA <= 0 {
		return fmt.Errorf("crossover needs at least one sell gate (take_profit_pct, sell_on_falling or sell_above_short_ma)")
	}
	if c.Strategy.Name == "buyzone" && c.Strategy.CandleMin < 2 {
		return fmt.Errorf("candle_min must be >= 2")
	}
	if c.Engine.SpreadPct < 0 || c.Engine.SpreadPct >= 1 {
		return fmt.Errorf("spread_pct out of range: %v", c.Engine.SpreadPct)
	}
	return nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}

func splitEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

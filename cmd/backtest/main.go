package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"paper_bot/internal/models"
	"paper_bot/internal/modules/config"
	"paper_bot/internal/modules/metrics"
	"paper_bot/internal/modules/strategy/service"
	"paper_bot/internal/notify"
	"paper_bot/internal/runner"
)

// staticMeta — фиксированный шаг лота вместо похода на биржу.
type staticMeta struct {
	step float64
	prec int
}

func (s staticMeta) Instrument(_ context.Context, symbol string) (models.Instrument, error) {
	return models.Instrument{Symbol: symbol, StepSize: s.step, StepPrecision: s.prec}, nil
}

// directNotifier пишет сразу в бэкенд, без очереди.
type directNotifier struct {
	b notify.Backend
}

func (d directNotifier) Send(msg string)                  { d.b.Deliver(msg) }
func (d directNotifier) Sendf(format string, args ...any) { d.b.Deliver(fmt.Sprintf(format, args...)) }

func main() {
	v := viper.New()
	v.SetDefault("prices", "prices.csv")
	v.SetDefault("symbol", "BTCUSDT")
	v.SetDefault("strategy", "crossover")
	v.SetDefault("initial_quote", 1000.0)
	v.SetDefault("budget", 0.0)
	v.SetDefault("spread_pct", 0.002)
	v.SetDefault("target_gain", 1.03)
	v.SetDefault("step_size", 0.000001)
	v.SetDefault("step_precision", 6)
	v.SetDefault("short_period", 3)
	v.SetDefault("long_period", 20)
	v.SetDefault("window_cap", 25)
	v.SetDefault("min_window", 22)
	v.AutomaticEnv()
	v.SetEnvPrefix("BT")

	cfg := &config.Config{}
	cfg.Engine.QuoteAsset = "USDT"
	cfg.Engine.InitialQuote = v.GetFloat64("initial_quote")
	cfg.Engine.Budget = v.GetFloat64("budget")
	cfg.Engine.SpreadPct = v.GetFloat64("spread_pct")
	cfg.Engine.TargetGain = v.GetFloat64("target_gain")
	cfg.Strategy = config.Strategy{
		Name:          v.GetString("strategy"),
		Symbols:       []string{v.GetString("symbol")},
		WindowCap:     v.GetInt("window_cap"),
		MinWindow:     v.GetInt("min_window"),
		ShortPeriod:   v.GetInt("short_period"),
		LongPeriod:    v.GetInt("long_period"),
		RoundDecimals: 2,
		RoundCeil:     true,
		Populate:      "ticks",

		BuyNeedsFalling: true,
		// target_gain — множитель (1.03), тейк — доля от входа (0.03)
		TakeProfitPct: v.GetFloat64("target_gain") - 1,
	}

	ledger := runner.NewLedger(cfg.Engine.QuoteAsset, cfg.Engine.InitialQuote)
	engine, err := service.NewEngine(cfg, ledger)
	if err != nil {
		log.Fatal(err)
	}

	n := directNotifier{b: notify.NewStdout()}
	exec := runner.NewExecutor(cfg, ledger, staticMeta{
		step: v.GetFloat64("step_size"),
		prec: v.GetInt("step_precision"),
	}, n, nil, metrics.NewMetrics(prometheus.NewRegistry()))

	ctx := context.Background()
	symbol := v.GetString("symbol")

	handle := func(sig models.Signal) {
		switch {
		case sig.Advisory:
			log.Printf("📣 [%s] %s", sig.Symbol, sig.Reason)
		case sig.Side == models.SideBuy:
			exec.ExecuteBuy(ctx, sig)
		case sig.Side == models.SideSell:
			exec.ExecuteSell(ctx, sig)
		}
	}
	if rd, ok := engine.(*service.RangeDip); ok {
		rd.SetEmit(handle)
	}

	f, err := os.Open(v.GetString("prices"))
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	ticks := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		price, err := strconv.ParseFloat(line, 64)
		if err != nil {
			log.Fatalf("line %d: %v", ticks+1, err)
		}
		ticks++

		ev := models.StreamEvent{
			Type:   models.EventTrade,
			Symbol: symbol,
			Tick:   models.Tick{Symbol: symbol, Price: price, Time: time.Now()},
		}
		if sig, ok := engine.OnEvent(ev); ok {
			handle(sig)
		}
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\n=== Backtest done: %d ticks ===\n", ticks)
	for asset, bal := range ledger.Balances() {
		fmt.Printf("%s: %.8f\n", asset, bal)
	}
	if pos, ok := ledger.Open(); ok {
		fmt.Printf("open position: %s %.8f @ %.4f\n", pos.Symbol, pos.Quantity, pos.EntryPrice)
	}
}

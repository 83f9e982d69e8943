package models

type StrategyType string

const (
	StrategyCrossover StrategyType = "crossover"
	StrategyChange24  StrategyType = "change24"
	StrategyRangeDip  StrategyType = "rangedip"
	StrategyBuyZone   StrategyType = "buyzone"
)

type Signal struct {
	Symbol   string
	Side     Side // "BUY"/"SELL"
	Price    float64
	Strategy StrategyType
	Reason   string
	// Advisory-сигналы только уведомляют, ордер не симулируется.
	Advisory bool
}

// Side как в раннере: "BUY"/"SELL" или пустая строка.
type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

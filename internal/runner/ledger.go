package runner

import (
	"strings"
	"sync"
	"time"

	"paper_bot/internal/models"
)

// Ledger — симулированные балансы и единственная позиция движка.
// Флаги buying/selling закрывают окно между сигналом и исполнением:
// пока они взведены, повторные сигналы той же стороны отбрасываются.
type Ledger struct {
	mu       sync.Mutex
	quote    string
	balances map[string]float64
	position *models.Position
	buying   bool
	selling  bool
}

func NewLedger(quoteAsset string, initialQuote float64) *Ledger {
	return &Ledger{
		quote:    quoteAsset,
		balances: map[string]float64{quoteAsset: initialQuote},
	}
}

// Open реализует strategy-сторону: открытая позиция, если есть.
func (l *Ledger) Open() (models.Position, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.position == nil {
		return models.Position{}, false
	}
	return *l.position, true
}

// Idle — ни позиции, ни покупки в полёте.
func (l *Ledger) Idle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position == nil && !l.buying
}

func (l *Ledger) Balance(asset string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[asset]
}

func (l *Ledger) QuoteBalance() float64 { return l.Balance(l.quote) }

// Balances — копия всех ненулевых балансов.
func (l *Ledger) Balances() map[string]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]float64, len(l.balances))
	for k, v := range l.balances {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

// BaseAsset выделяет базовую валюту из символа: BTCUSDT -> BTC.
func (l *Ledger) BaseAsset(symbol string) string {
	return strings.TrimSuffix(symbol, l.quote)
}

func (l *Ledger) tryBeginBuy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.buying || l.position != nil {
		return false
	}
	l.buying = true
	return true
}

func (l *Ledger) endBuy() {
	l.mu.Lock()
	l.buying = false
	l.mu.Unlock()
}

func (l *Ledger) tryBeginSell(symbol string) (models.Position, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selling || l.position == nil || l.position.Symbol != symbol {
		return models.Position{}, false
	}
	l.selling = true
	return *l.position, true
}

func (l *Ledger) endSell() {
	l.mu.Lock()
	l.selling = false
	l.mu.Unlock()
}

// applyBuy списывает quote, зачисляет базу и открывает позицию.
func (l *Ledger) applyBuy(symbol string, qty, fill float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[l.quote] -= qty * fill
	l.balances[l.BaseAsset(symbol)] += qty
	l.position = &models.Position{
		Symbol:     symbol,
		EntryPrice: fill,
		Quantity:   qty,
		OpenedAt:   time.Now(),
	}
	return l.balances[l.quote]
}

// applySell зачисляет quote, списывает базу и закрывает позицию.
func (l *Ledger) applySell(symbol string, qty, fill float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[l.quote] += qty * fill
	l.balances[l.BaseAsset(symbol)] -= qty
	l.position = nil
	return l.balances[l.quote]
}

package models

import "time"

// Position — единственная открытая позиция движка.
// Инвариант: в процессе существует не более одной.
type Position struct {
	Symbol     string
	EntryPrice float64
	Quantity   float64
	OpenedAt   time.Time
}

// TradeRecord — исход исполнения для нотификаций и журнала.
type TradeRecord struct {
	Symbol       string
	Side         Side
	Quantity     float64
	FillPrice    float64
	QuoteBalance float64
	Reason       string
	Skipped      bool
	At           time.Time
}

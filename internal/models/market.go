package models

import "time"

type EventType int

const (
	EventNone EventType = iota
	EventTrade
	EventKline
	EventMiniTicker
	EventTicker
	// EventReconnect — стрим упал и будет переподключён; вся скользящая
	// история по символам после разрыва недостоверна и должна быть сброшена.
	EventReconnect
)

// Tick — одиночная сделка из trade-стрима.
type Tick struct {
	Symbol string
	Price  float64
	Time   time.Time
}

// Candle — свеча фиксированного интервала. Пока Final=false свеча ещё
// формируется и её Close обновляется с каждым апдейтом.
type Candle struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
	Final bool
	Start time.Time
}

// Ticker24h — суточная статистика (miniTicker/ticker стримы).
type Ticker24h struct {
	Symbol string
	Last   float64
	Open   float64
	High   float64
	Low    float64
}

// StreamEvent — единица данных от фид-коннектора. Заполнено только поле,
// соответствующее Type.
type StreamEvent struct {
	Type   EventType
	Symbol string
	Tick   Tick
	Candle Candle
	Ticker Ticker24h
}

package models

// Instrument — метаданные символа с биржи. Меняются редко,
// кэшируются на время жизни процесса.
type Instrument struct {
	Symbol        string
	StepSize      float64
	StepPrecision int // число знаков после запятой в шаге лота
}

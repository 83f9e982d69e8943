package indicator

import "paper_bot/internal/models"

// PopulatePolicy — способ наполнения окна.
type PopulatePolicy int

const (
	// PolicyCandles — окно из закрытий свечей; формирующаяся свеча
	// перезаписывает последний элемент, закрытая добавляет новый.
	PolicyCandles PopulatePolicy = iota
	// PolicyTicks — каждый новый отличный tick-price добавляется сам.
	PolicyTicks
)

// Aggregator складывает поток свечей/сделок одного символа в окно.
// Повторная цена, равная последней виденной, не даёт новой оценки.
type Aggregator struct {
	Window *Window
	policy PopulatePolicy

	latest    float64
	haveTick  bool
	lastStart int64 // unix-время начала последней закрытой свечи
}

func NewAggregator(capacity int, policy PopulatePolicy) *Aggregator {
	return &Aggregator{
		Window: NewWindow(capacity),
		policy: policy,
	}
}

// OnCandle обновляет окно свечой. Оценку свечи не запускают —
// триггером служат только сделки.
func (a *Aggregator) OnCandle(c models.Candle) {
	if a.policy != PolicyCandles {
		return
	}
	if c.Final {
		// защита от дубликата того же закрытия при ретрансляции
		start := c.Start.Unix()
		if a.lastStart != 0 && a.lastStart == start {
			return
		}
		a.lastStart = start
		a.Window.Append(c.Close)
		return
	}
	a.Window.ReplaceLast(c.Close)
}

// OnTick регистрирует цену сделки. Возвращает true когда цена новая и
// по ней стоит запускать оценку.
func (a *Aggregator) OnTick(price float64) bool {
	if a.haveTick && price == a.latest {
		return false
	}
	a.latest = price
	a.haveTick = true
	if a.policy == PolicyTicks {
		a.Window.Append(price)
	}
	return true
}

// Latest — последняя виденная цена сделки.
func (a *Aggregator) Latest() (float64, bool) { return a.latest, a.haveTick }

// Reset сбрасывает окно и память цен: частично виденная история после
// разрыва стрима недостоверна.
func (a *Aggregator) Reset() {
	a.Window.Reset()
	a.latest = 0
	a.haveTick = false
	a.lastStart = 0
}

package indicator

// Window — скользящее окно цен фиксированной ёмкости.
// Переполнение вытесняет самый старый элемент (FIFO); другого пути
// удаления нет, кроме полного Reset при разрыве стрима.
type Window struct {
	capacity int
	prices   []float64
}

func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{
		capacity: capacity,
		prices:   make([]float64, 0, capacity),
	}
}

// Append добавляет закрытую цену, вытесняя старейшую при переполнении.
func (w *Window) Append(p float64) {
	if len(w.prices) >= w.capacity {
		copy(w.prices, w.prices[1:])
		w.prices = w.prices[:len(w.prices)-1]
	}
	w.prices = append(w.prices, p)
}

// ReplaceLast перезаписывает последний элемент — так ещё формирующаяся
// свеча не считается дважды. На пустом окне добавляет.
func (w *Window) ReplaceLast(p float64) {
	if len(w.prices) == 0 {
		w.prices = append(w.prices, p)
		return
	}
	w.prices[len(w.prices)-1] = p
}

func (w *Window) Len() int { return len(w.prices) }

func (w *Window) Reset() { w.prices = w.prices[:0] }

// Values отдаёт копию содержимого, от старого к новому.
func (w *Window) Values() []float64 {
	out := make([]float64, len(w.prices))
	copy(out, w.prices)
	return out
}

// SMA — среднее арифметическое period последних значений, заканчивая
// offset позиций до конца окна (offset=0 — "текущее", 1 — "предыдущее",
// 2 — "позапрошлое"). ok=false когда данных не хватает.
func (w *Window) SMA(period, offset int) (float64, bool) {
	if period <= 0 || offset < 0 {
		return 0, false
	}
	end := len(w.prices) - offset
	start := end - period
	if start < 0 {
		return 0, false
	}
	sum := 0.0
	for _, p := range w.prices[start:end] {
		sum += p
	}
	return sum / float64(period), true
}

// Tail — последние n значений (для расчёта наклона).
func (w *Window) Tail(n int) []float64 {
	if n > len(w.prices) {
		n = len(w.prices)
	}
	out := make([]float64, n)
	copy(out, w.prices[len(w.prices)-n:])
	return out
}

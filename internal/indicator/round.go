package indicator

import "math"

// CeilAt округляет вверх на decimals знаках. Выбор именно ceiling —
// сознательный: он одинаково смещает все сравнения средних и должен
// воспроизводиться бит-в-бит.
func CeilAt(v float64, decimals int) float64 {
	f := math.Pow(10, float64(decimals))
	return math.Ceil(v*f) / f
}

// RoundAt — обычный half-up на decimals знаках.
func RoundAt(v float64, decimals int) float64 {
	f := math.Pow(10, float64(decimals))
	return math.Floor(v*f+0.5) / f
}

// Rounder возвращает функцию округления по конфигурации варианта.
func Rounder(decimals int, ceil bool) func(float64) float64 {
	if ceil {
		return func(v float64) float64 { return CeilAt(v, decimals) }
	}
	return func(v float64) float64 { return RoundAt(v, decimals) }
}

// Slope — наклон линейной регрессии по равноотстоящим точкам.
func Slope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	avgX := float64(n-1) / 2
	avgY := 0.0
	for _, v := range values {
		avgY += v
	}
	avgY /= float64(n)

	num, den := 0.0, 0.0
	for i, y := range values {
		dx := float64(i) - avgX
		num += dx * (y - avgY)
		den += dx * dx
	}
	return num / den
}

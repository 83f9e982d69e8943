package service

import "paper_bot/internal/models"

// Engine — оценщик сигналов. Конкретные реализации: crossover,
// change24, rangedip, buyzone; выбирается конфигурацией.
type Engine interface {
	// OnEvent обрабатывает событие стрима; ok==true когда есть решение.
	// За один вызов отдаётся не более одного решения.
	OnEvent(ev models.StreamEvent) (sig models.Signal, ok bool)

	// Reset сбрасывает всю скользящую память (граница переподключения).
	Reset()

	Dump(symbol string) string
	Name() string
}

// PositionView — то, что оценщику позволено знать о позиции.
// Реализуется леджером.
type PositionView interface {
	// Open возвращает открытую позицию, если она есть.
	Open() (models.Position, bool)
	// Idle — нет ни позиции, ни покупки в полёте.
	Idle() bool
}

package service

import (
	"fmt"

	"paper_bot/internal/modules/config"
)

func NewEngine(cfg *config.Config, pos PositionView) (Engine, error) {
	switch cfg.Strategy.Name {
	case "crossover":
		return NewCrossover(cfg.Strategy, pos), nil
	case "change24":
		return NewChange24(cfg, pos), nil
	case "rangedip":
		return NewRangeDip(cfg, pos), nil
	case "buyzone":
		return NewBuyZone(cfg.Strategy), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", cfg.Strategy.Name)
	}
}

package service

import (
	"context"
	"testing"

	"paper_bot/internal/models"
)

type countingEngine struct {
	resets int
	sig    models.Signal
	emit   bool
}

func (e *countingEngine) OnEvent(models.StreamEvent) (models.Signal, bool) {
	return e.sig, e.emit
}
func (e *countingEngine) Reset()             { e.resets++ }
func (e *countingEngine) Dump(string) string { return "" }
func (e *countingEngine) Name() string       { return "counting" }

func TestHub_ReconnectResetsEngine(t *testing.T) {
	eng := &countingEngine{}
	out := make(chan models.Signal, 1)
	hub := NewHub(eng, out, nil, nil)

	hub.OnEvent(context.Background(), models.StreamEvent{Type: models.EventReconnect})
	hub.OnEvent(context.Background(), models.StreamEvent{Type: models.EventReconnect})

	if eng.resets != 2 {
		t.Errorf("resets = %d, want 2", eng.resets)
	}
	select {
	case sig := <-out:
		t.Fatalf("reconnect must not emit signals, got %+v", sig)
	default:
	}
}

func TestHub_ForwardsSignals(t *testing.T) {
	eng := &countingEngine{
		sig:  models.Signal{Symbol: "ARUSDT", Side: models.SideBuy, Price: 10},
		emit: true,
	}
	out := make(chan models.Signal, 1)
	hub := NewHub(eng, out, nil, nil)

	hub.OnEvent(context.Background(), tradeEv("ARUSDT", 10))

	select {
	case sig := <-out:
		if sig.Symbol != "ARUSDT" || sig.Side != models.SideBuy {
			t.Errorf("signal = %+v", sig)
		}
	default:
		t.Fatal("signal not forwarded")
	}
}

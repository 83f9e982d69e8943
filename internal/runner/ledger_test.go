package runner

import "testing"

func TestLedger_SinglePosition(t *testing.T) {
	l := NewLedger("USDT", 100)

	if !l.Idle() {
		t.Fatal("fresh ledger should be idle")
	}
	if _, open := l.Open(); open {
		t.Fatal("fresh ledger should have no position")
	}

	if !l.tryBeginBuy() {
		t.Fatal("first buy attempt must pass")
	}
	if l.tryBeginBuy() {
		t.Error("second buy while one is in flight must fail")
	}
	if l.Idle() {
		t.Error("ledger with buy in flight is not idle")
	}

	l.applyBuy("ARUSDT", 2, 10)
	l.endBuy()

	if l.tryBeginBuy() {
		t.Error("buy with open position must fail")
	}
	pos, open := l.Open()
	if !open || pos.Symbol != "ARUSDT" || pos.Quantity != 2 || pos.EntryPrice != 10 {
		t.Errorf("position = %+v, want ARUSDT qty=2 entry=10", pos)
	}
}

func TestLedger_Balances(t *testing.T) {
	l := NewLedger("USDT", 100)
	l.applyBuy("ARUSDT", 2, 10)

	if got := l.Balance("USDT"); got != 80 {
		t.Errorf("USDT = %v, want 80", got)
	}
	if got := l.Balance("AR"); got != 2 {
		t.Errorf("AR = %v, want 2", got)
	}

	l.applySell("ARUSDT", 2, 12)
	if got := l.Balance("USDT"); got != 104 {
		t.Errorf("USDT after sell = %v, want 104", got)
	}
	if got := l.Balance("AR"); got != 0 {
		t.Errorf("AR after sell = %v, want 0", got)
	}
	if _, open := l.Open(); open {
		t.Error("position must be closed after sell")
	}
	if !l.Idle() {
		t.Error("ledger idle after round trip")
	}
}

func TestLedger_SellGuards(t *testing.T) {
	l := NewLedger("USDT", 100)

	if _, ok := l.tryBeginSell("ARUSDT"); ok {
		t.Error("sell without position must fail")
	}

	l.applyBuy("ARUSDT", 1, 10)
	if _, ok := l.tryBeginSell("BTCUSDT"); ok {
		t.Error("sell of a different symbol must fail")
	}

	pos, ok := l.tryBeginSell("ARUSDT")
	if !ok || pos.Quantity != 1 {
		t.Fatalf("sell begin: ok=%v pos=%+v", ok, pos)
	}
	if _, ok := l.tryBeginSell("ARUSDT"); ok {
		t.Error("second sell while one is in flight must fail")
	}
	l.endSell()
}

func TestLedger_BaseAsset(t *testing.T) {
	l := NewLedger("USDT", 0)
	if got := l.BaseAsset("BTCUSDT"); got != "BTC" {
		t.Errorf("BaseAsset = %q, want BTC", got)
	}
}

package indicator

import "testing"

func TestWindow_AppendEvictsOldest(t *testing.T) {
	w := NewWindow(3)
	for _, p := range []float64{1, 2, 3, 4} {
		w.Append(p)
	}

	got := w.Values()
	want := []float64{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Len() = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("values[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWindow_ReplaceLast(t *testing.T) {
	w := NewWindow(5)
	w.Append(10)
	w.Append(20)
	w.ReplaceLast(25)

	got := w.Values()
	if got[len(got)-1] != 25 {
		t.Errorf("last = %v, want 25", got[len(got)-1])
	}
	if w.Len() != 2 {
		t.Errorf("Len() = %d, want 2", w.Len())
	}

	// на пустом окне ReplaceLast добавляет
	empty := NewWindow(5)
	empty.ReplaceLast(7)
	if empty.Len() != 1 || empty.Values()[0] != 7 {
		t.Errorf("ReplaceLast on empty: got %v", empty.Values())
	}
}

func TestWindow_SMA(t *testing.T) {
	w := NewWindow(10)
	for _, p := range []float64{1, 2, 3, 4, 5} {
		w.Append(p)
	}

	cases := []struct {
		period, offset int
		want           float64
	}{
		{3, 0, 4}, // (3+4+5)/3
		{3, 1, 3}, // (2+3+4)/3
		{3, 2, 2}, // (1+2+3)/3
		{5, 0, 3},
	}
	for _, c := range cases {
		got, ok := w.SMA(c.period, c.offset)
		if !ok {
			t.Fatalf("SMA(%d,%d): not ok", c.period, c.offset)
		}
		if got != c.want {
			t.Errorf("SMA(%d,%d) = %v, want %v", c.period, c.offset, got, c.want)
		}
	}
}

func TestWindow_SMAInsufficientData(t *testing.T) {
	w := NewWindow(10)
	w.Append(1)
	w.Append(2)

	if _, ok := w.SMA(3, 0); ok {
		t.Error("SMA(3,0) on 2 values: expected ok=false")
	}
	if _, ok := w.SMA(2, 1); ok {
		t.Error("SMA(2,1) on 2 values: expected ok=false")
	}
	if _, ok := w.SMA(2, 0); !ok {
		t.Error("SMA(2,0) on 2 values: expected ok=true")
	}
}

func TestWindow_Tail(t *testing.T) {
	w := NewWindow(10)
	for _, p := range []float64{1, 2, 3} {
		w.Append(p)
	}
	got := w.Tail(2)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("Tail(2) = %v, want [2 3]", got)
	}
	if len(w.Tail(10)) != 3 {
		t.Errorf("Tail beyond len should clamp")
	}
}

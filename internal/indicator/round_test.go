package indicator

import "testing"

func TestCeilAt(t *testing.T) {
	cases := []struct {
		v        float64
		decimals int
		want     float64
	}{
		{2.004, 2, 2.01},
		{2.005, 2, 2.01},
		{2.0, 2, 2.0},
		{0.12301, 3, 0.124},
	}
	for _, c := range cases {
		if got := CeilAt(c.v, c.decimals); got != c.want {
			t.Errorf("CeilAt(%v,%d) = %v, want %v", c.v, c.decimals, got, c.want)
		}
	}
}

func TestRoundAt(t *testing.T) {
	if got := RoundAt(2.004, 2); got != 2.00 {
		t.Errorf("RoundAt(2.004,2) = %v, want 2.00", got)
	}
	if got := RoundAt(2.006, 2); got != 2.01 {
		t.Errorf("RoundAt(2.006,2) = %v, want 2.01", got)
	}
}

func TestRounder(t *testing.T) {
	ceil := Rounder(2, true)
	half := Rounder(2, false)
	if ceil(2.001) != 2.01 {
		t.Errorf("ceil rounder: got %v", ceil(2.001))
	}
	if half(2.001) != 2.00 {
		t.Errorf("half-up rounder: got %v", half(2.001))
	}
}

func TestSlope(t *testing.T) {
	if got := Slope([]float64{1, 2, 3, 4}); got != 1 {
		t.Errorf("Slope rising = %v, want 1", got)
	}
	if got := Slope([]float64{4, 3, 2, 1}); got != -1 {
		t.Errorf("Slope falling = %v, want -1", got)
	}
	if got := Slope([]float64{5, 5, 5}); got != 0 {
		t.Errorf("Slope flat = %v, want 0", got)
	}
	if got := Slope([]float64{1}); got != 0 {
		t.Errorf("Slope single point = %v, want 0", got)
	}
}

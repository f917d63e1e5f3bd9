package util

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(-1, 0, 1); got != 0 {
		t.Fatalf("Clamp below = %v", got)
	}
	if got := Clamp(2, 0, 1); got != 1 {
		t.Fatalf("Clamp above = %v", got)
	}
	if got := Clamp(0.25, 0, 1); got != 0.25 {
		t.Fatalf("Clamp inside = %v", got)
	}
}

func TestSnap(t *testing.T) {
	cases := []struct {
		value, origin, step, want float64
	}{
		{3.04, 0.1, 0.1, 3.0},
		{0.29, 0, 0.1, 0.3},
		{0.00149, 0, 0.001, 0.001},
		{0.0016, 0, 0.001, 0.002},
		{299.96, 0.1, 0.1, 300},
		{7, 0, 0, 7},
	}
	for _, c := range cases {
		if got := Snap(c.value, c.origin, c.step); got != c.want {
			t.Errorf("Snap(%v, %v, %v) = %v, want %v", c.value, c.origin, c.step, got, c.want)
		}
	}
}

func TestStepDecimals(t *testing.T) {
	cases := map[float64]int{1: 0, 0.1: 1, 0.001: 3, 2.5: 1}
	for step, want := range cases {
		if got := StepDecimals(step); got != want {
			t.Errorf("StepDecimals(%v) = %d, want %d", step, got, want)
		}
	}
}

func TestRandomRanges(t *testing.T) {
	rng := NewRand(42)
	for i := 0; i < 1000; i++ {
		f := RandomFloat(rng, -1, 1)
		if f < -1 || f >= 1 {
			t.Fatalf("RandomFloat out of range: %v", f)
		}
		n := RandomInt(rng, 120, 240)
		if n < 120 || n > 240 {
			t.Fatalf("RandomInt out of range: %v", n)
		}
	}
}

func TestNewRandSeeded(t *testing.T) {
	a, b := NewRand(7), NewRand(7)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("equal seeds produced different sequences")
		}
	}
}

package mastery

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %.10f, want %.10f (diff %.3g)", name, got, want, math.Abs(got-want))
	}
}

var testTheta = Theta{G: 0.2, S: 0.05, Pi: 0.4, L: 0.3, H0: 0.3, H1: 0.2}

func TestDerive(t *testing.T) {
	m := Derive(testTheta)

	assertFloat(t, "Init[0]", m.Init[0], 0.6)
	assertFloat(t, "Init[1]", m.Init[1], 0.4)
	assertFloat(t, "Transit[0][0]", m.Transit[0][0], 0.7)
	assertFloat(t, "Transit[0][1]", m.Transit[0][1], 0.3)
	assertFloat(t, "Observ[0][1]", m.Observ[0][1], 0.2)
	assertFloat(t, "Observ[1][0]", m.Observ[1][0], 0.05)
	assertFloat(t, "Hazard[0]", m.Hazard[0], 0.3)
	assertFloat(t, "Hazard[1]", m.Hazard[1], 0.2)
}

func TestDeriveMasteredIsAbsorbing(t *testing.T) {
	for _, l := range []float64{0, 0.3, 1} {
		m := Derive(Theta{L: l})
		if m.Transit[1][0] != 0 {
			t.Errorf("l=%v: Transit[1][0] = %v, want 0", l, m.Transit[1][0])
		}
		if m.Transit[1][1] != 1 {
			t.Errorf("l=%v: Transit[1][1] = %v, want 1", l, m.Transit[1][1])
		}
	}
}

func TestHazardPath(t *testing.T) {
	m := Derive(testTheta)
	h := m.HazardPath([]uint8{1, 0, 1})
	want := []float64{0.2, 0.3, 0.2}
	for i := range want {
		assertFloat(t, "h", h[i], want[i])
	}
}

func TestCensoredAt(t *testing.T) {
	tests := []struct {
		censored bool
		t, n     int
		want     bool
	}{
		{false, 2, 3, false},
		{true, 2, 3, true},
		{true, 1, 3, false},
		{true, 0, 1, true},
	}
	for _, tt := range tests {
		if got := CensoredAt(tt.censored, tt.t, tt.n); got != tt.want {
			t.Errorf("CensoredAt(%v, %d, %d) = %v, want %v", tt.censored, tt.t, tt.n, got, tt.want)
		}
	}
}

package sampler

import (
	"testing"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sky-flux/mastery"
)

func TestStatisticsAdd(t *testing.T) {
	learners := []mastery.Learner{
		{ID: 1, Responses: []uint8{0, 1, 1}, Censored: true},
		{ID: 2, Responses: []uint8{1, 0}, Censored: false},
		{ID: 3, Responses: []uint8{0}, Censored: true},
	}
	paths := [][]uint8{
		{0, 1, 1},
		{1, 1},
		{0},
	}
	got := Accumulate(learners, paths)

	want := Statistics{
		Learners:        3,
		MasteredAtStart: 1,
		TotalTrans:      1,
		CriticalTrans:   1,
		Obs:             [2][2]int{{2, 0}, {1, 3}},
		// Learner 1 survives step 1 and drops at step 2; learner 2
		// survives step 1. Step 0 never counts.
		Drop:    [2]int{0, 1},
		Survive: [2]int{1, 1},
	}
	if got != want {
		t.Errorf("Accumulate =\n%+v\nwant\n%+v", got, want)
	}
}

func TestStatisticsUnmasteredRun(t *testing.T) {
	var s Statistics
	s.Add(mastery.Learner{Responses: []uint8{0, 0, 1, 0}}, []uint8{0, 0, 0, 0})
	if s.TotalTrans != 3 || s.CriticalTrans != 0 {
		t.Errorf("transitions = %d/%d, want 0/3", s.CriticalTrans, s.TotalTrans)
	}
	if s.Survive != [2]int{2, 1} || s.Drop != [2]int{} {
		t.Errorf("survive=%v drop=%v", s.Survive, s.Drop)
	}
}

func TestDrawInUnitInterval(t *testing.T) {
	stats := Statistics{
		Learners:        100,
		MasteredAtStart: 40,
		TotalTrans:      150,
		CriticalTrans:   45,
		Obs:             [2][2]int{{160, 40}, {10, 190}},
		Drop:            [2]int{30, 40},
		Survive:         [2]int{100, 130},
	}
	src := NewSource(3)
	for i := 0; i < 200; i++ {
		theta := stats.Draw(src)
		if err := theta.Validate(); err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
	}
}

func TestDrawIsReproducible(t *testing.T) {
	stats := Statistics{Learners: 10, MasteredAtStart: 3, TotalTrans: 12, CriticalTrans: 4}
	a := stats.Draw(NewSource(9))
	b := stats.Draw(NewSource(9))
	if a != b {
		t.Errorf("same seed gave %+v and %+v", a, b)
	}
}

// With large counts the Beta posterior concentrates on the empirical rate.
func TestDrawFollowsCounts(t *testing.T) {
	stats := Statistics{
		Learners:        100000,
		MasteredAtStart: 25000,
		TotalTrans:      100000,
		CriticalTrans:   60000,
		Obs:             [2][2]int{{90000, 10000}, {5000, 95000}},
		Drop:            [2]int{20000, 10000},
		Survive:         [2]int{80000, 90000},
	}
	theta := stats.Draw(NewSource(1))
	checks := []struct {
		name      string
		got, want float64
	}{
		{"l", theta.L, 0.6},
		{"pi", theta.Pi, 0.25},
		{"s", theta.S, 0.05},
		{"g", theta.G, 0.1},
		{"h0", theta.H0, 0.2},
		{"h1", theta.H1, 0.1},
	}
	for _, c := range checks {
		if d := c.got - c.want; d > 0.01 || d < -0.01 {
			t.Errorf("%s = %.4f, want ≈ %.2f", c.name, c.got, c.want)
		}
	}
}

// Draw must use the Beta(1,4), Beta(2,2), Beta(1,9), Beta(1,3) and Beta(1,9)
// priors for l, pi, s, g and both hazards, drawn in that order.
func TestDrawPriors(t *testing.T) {
	stats := Statistics{
		Learners:        37,
		MasteredAtStart: 11,
		TotalTrans:      52,
		CriticalTrans:   17,
		Obs:             [2][2]int{{40, 13}, {6, 29}},
		Drop:            [2]int{9, 14},
		Survive:         [2]int{21, 5},
	}
	got := stats.Draw(NewSource(77))

	src := NewSource(77)
	draw := func(a, b int) float64 {
		return distuv.Beta{Alpha: float64(a), Beta: float64(b), Src: src}.Rand()
	}
	want := mastery.Theta{}
	want.L = draw(1+17, 4+52-17)
	want.Pi = draw(2+11, 2+37-11)
	want.S = draw(1+6, 9+29)
	want.G = draw(1+13, 3+40)
	want.H0 = draw(1+9, 9+21)
	want.H1 = draw(1+14, 9+5)

	if got != want {
		t.Errorf("Draw =\n%+v\nwant\n%+v", got, want)
	}
}

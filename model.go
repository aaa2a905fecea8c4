package mastery

// Latent states.
const (
	Unmastered uint8 = 0
	Mastered   uint8 = 1
)

// Matrices holds the quantities derived from a Theta. They are recomputed
// from scratch for every new Theta and never modified afterwards.
type Matrices struct {
	Init    [2]float64    // [1-pi, pi]
	Transit [2][2]float64 // [from][to]; Transit[1][0] is always 0
	Observ  [2][2]float64 // [state][response]
	Hazard  [2]float64    // indexed by the most recent response
}

// Derive computes the derived matrices for t.
func Derive(t Theta) Matrices {
	return Matrices{
		Init: [2]float64{1 - t.Pi, t.Pi},
		Transit: [2][2]float64{
			{1 - t.L, t.L},
			{0, 1},
		},
		Observ: [2][2]float64{
			{1 - t.G, t.G},
			{t.S, 1 - t.S},
		},
		Hazard: [2]float64{t.H0, t.H1},
	}
}

// HazardPath returns the per-step hazard h[t] = Hazard[obs[t]].
func (m Matrices) HazardPath(obs []uint8) []float64 {
	h := make([]float64, len(obs))
	for t, o := range obs {
		h[t] = m.Hazard[o]
	}
	return h
}

// CensoredAt reports whether the censoring flag is live at step t of a
// sequence of length n: only the terminal step of a censored sequence.
func CensoredAt(censored bool, t, n int) bool {
	return censored && t == n-1
}

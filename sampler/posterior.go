package sampler

import (
	"fmt"

	"github.com/sky-flux/mastery"
)

// Posterior holds the per-pattern quantities a Strategy computes for one
// Theta. It is read-only once returned.
type Posterior struct {
	// Marginals[t][x] = P(X_t = x | O_0..t, survival to t).
	Marginals [][2]float64
	// Transitions[t][j][i] = P(X_t = j, X_t+1 = i | O_0..t+1, survival to t+1).
	Transitions [][2][2]float64

	// Set by ExactEnumeration only: smoothed P(X_0 = 1 | O, E) and
	// LearnProbs[t-1] = P(X_t = 1 | X_t-1 = 0, O, E).
	InitialMastery float64
	LearnProbs     []float64
}

// Len returns the sequence length the posterior covers.
func (p *Posterior) Len() int {
	return len(p.Marginals)
}

// Marginal returns P(X_t = 1 | O_0..t).
func (p *Posterior) Marginal(t int) float64 {
	return p.Marginals[t][mastery.Mastered]
}

// Transition returns P(X_t-1 = from, X_t = to | O_0..t). Step 0 has no
// predecessor and returns ErrInvalidQuery.
func (p *Posterior) Transition(t int, from, to uint8) (float64, error) {
	if t <= 0 || t >= p.Len() {
		return 0, fmt.Errorf("%w: t = %d, length %d", mastery.ErrInvalidQuery, t, p.Len())
	}
	return p.Transitions[t-1][from][to], nil
}

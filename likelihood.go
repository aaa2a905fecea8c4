package mastery

import "fmt"

// SurvivalLikelihood returns the probability of the spell outcome given the
// per-step hazards h[0..T-1]:
//
//	Π_{t<T-1}(1-h[t]) · (censored ? h[T-1] : 1-h[T-1])
//
// The learner survived every step but the last; the last step either ends
// the spell (censored) or does not.
func SurvivalLikelihood(h []float64, censored bool) float64 {
	n := len(h)
	if n == 0 {
		return 1
	}
	p := 1.0
	for t := 0; t < n-1; t++ {
		p *= 1 - h[t]
	}
	if censored {
		return p * h[n-1]
	}
	return p * (1 - h[n-1])
}

// StatePathLikelihood returns init[x[0]] · Π_t transit[x[t-1]][x[t]].
func StatePathLikelihood(x []uint8, init [2]float64, transit [2][2]float64) float64 {
	if len(x) == 0 {
		return 1
	}
	p := init[x[0]]
	for t := 1; t < len(x); t++ {
		p *= transit[x[t-1]][x[t]]
	}
	return p
}

// EmissionLikelihood returns Π_t observ[x[t]][o[t]].
func EmissionLikelihood(x, o []uint8, observ [2][2]float64) float64 {
	p := 1.0
	for t := range x {
		p *= observ[x[t]][o[t]]
	}
	return p
}

// JointLikelihood returns P(E, O, X) for a latent path x, responses o and
// the spell-end flag: the product of the survival, emission and state-path
// likelihoods.
func JointLikelihood(x, o []uint8, censored bool, m Matrices) (float64, error) {
	if len(x) != len(o) {
		return 0, fmt.Errorf("%w: states %d, responses %d", ErrLengthMismatch, len(x), len(o))
	}
	for t := range x {
		if x[t] > Mastered || o[t] > 1 {
			return 0, fmt.Errorf("%w: non-binary value at step %d", ErrInvalidEvent, t)
		}
	}
	pa := SurvivalLikelihood(m.HazardPath(o), censored)
	po := EmissionLikelihood(x, o, m.Observ)
	px := StatePathLikelihood(x, m.Init, m.Transit)

	p := pa * po * px
	if p < 0 {
		return 0, fmt.Errorf("%w: %g", ErrNegativeLikelihood, p)
	}
	return p, nil
}

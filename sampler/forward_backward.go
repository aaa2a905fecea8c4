package sampler

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/sky-flux/mastery"
)

// ForwardBackward computes filtered marginals and pairwise transitions with
// a survival-corrected forward recursion, and samples paths backwards.
type ForwardBackward struct{}

// Name implements Strategy.
func (ForwardBackward) Name() string { return "fb" }

// Estimate implements Strategy.
//
// At t = 0 the prior is combined with the first emission and the survival
// factor of the first step, then normalised. For t > 0 the marginal is the
// previous slice's joint summed over the source state. Each slice
//
//	P[t][j][i] ∝ pi[t][j] · transit[j][i] · observ[i][O[t+1]] · S(h[0..t+1], e)
//
// is normalised over all (j, i). S is the survival likelihood of the hazard
// path so far; e is live only at the terminal step of a censored pattern.
func (ForwardBackward) Estimate(p mastery.Pattern, m mastery.Matrices) (*Posterior, error) {
	obs := p.Responses
	n := len(obs)
	if n == 0 {
		return &Posterior{}, nil
	}
	hz := m.HazardPath(obs)

	post := &Posterior{
		Marginals:   make([][2]float64, n),
		Transitions: make([][2][2]float64, n-1),
	}

	first := make([]float64, 2)
	pa := mastery.SurvivalLikelihood(hz[:1], mastery.CensoredAt(p.Censored, 0, n))
	for x := range first {
		first[x] = m.Init[x] * m.Observ[x][obs[0]] * pa
	}
	if err := normalise(first); err != nil {
		return nil, fmt.Errorf("%w: pattern %v at t=0", err, obs)
	}
	post.Marginals[0] = [2]float64{first[0], first[1]}

	raw := make([]float64, 4)
	for t := 0; t < n-1; t++ {
		if t > 0 {
			post.Marginals[t] = columnSums(post.Transitions[t-1])
		}

		pa := mastery.SurvivalLikelihood(hz[:t+2], mastery.CensoredAt(p.Censored, t+1, n))
		next := obs[t+1]
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				raw[2*j+i] = post.Marginals[t][j] * m.Transit[j][i] * m.Observ[i][next] * pa
			}
		}
		if err := normalise(raw); err != nil {
			return nil, fmt.Errorf("%w: pattern %v at t=%d", err, obs, t+1)
		}
		post.Transitions[t] = [2][2]float64{{raw[0], raw[1]}, {raw[2], raw[3]}}
	}
	if n > 1 {
		post.Marginals[n-1] = columnSums(post.Transitions[n-2])
	}
	return post, nil
}

// SamplePath implements Strategy with BackwardSample.
func (ForwardBackward) SamplePath(post *Posterior, src rand.Source) []uint8 {
	return BackwardSample(post, src)
}

// normalise scales v to sum to one. A zero or non-finite total means the
// observation is impossible under the current parameters.
func normalise(v []float64) error {
	if floats.HasNaN(v) {
		return mastery.ErrDegenerateLikelihood
	}
	if floats.Min(v) < 0 {
		return mastery.ErrNegativeLikelihood
	}
	total := floats.Sum(v)
	if !(total > 0) {
		return mastery.ErrDegenerateLikelihood
	}
	floats.Scale(1/total, v)
	return nil
}

func columnSums(p [2][2]float64) [2]float64 {
	return [2]float64{p[0][0] + p[1][0], p[0][1] + p[1][1]}
}

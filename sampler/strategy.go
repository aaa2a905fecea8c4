package sampler

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/sky-flux/mastery"
)

// Strategy computes the latent-state posterior of an observation pattern
// and draws latent paths from it.
type Strategy interface {
	// Name returns the short strategy name ("fb" or "enum").
	Name() string
	// Estimate computes the posterior of p under m.
	Estimate(p mastery.Pattern, m mastery.Matrices) (*Posterior, error)
	// SamplePath draws one latent path from post.
	SamplePath(post *Posterior, src rand.Source) []uint8
}

// Compile-time interface checks.
var (
	_ Strategy = ForwardBackward{}
	_ Strategy = ExactEnumeration{}
)

// StrategyByName returns the strategy for name. Accepted names are
// "fb"/"forward-backward" and "enum"/"exact"; the legacy "FB" and "DG"
// spellings are accepted too.
func StrategyByName(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "", "fb", "forward-backward":
		return ForwardBackward{}, nil
	case "enum", "exact", "dg":
		return ExactEnumeration{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// BackwardSample draws a path from the filtered marginals and pairwise
// transitions of post, starting at the last step:
//
//	X[T-1] ~ Bern(Marginals[T-1][1])
//	X[t]   ~ Bern(Transitions[t][1][n] / Σ_j Transitions[t][j][n]),  n = X[t+1]
//
// Transitions out of the mastered state have zero mass, so once a step is
// drawn unmastered every earlier step is unmastered too.
func BackwardSample(post *Posterior, src rand.Source) []uint8 {
	n := post.Len()
	x := make([]uint8, n)
	for t := n - 1; t >= 0; t-- {
		var p float64
		if t == n-1 {
			p = post.Marginals[t][mastery.Mastered]
		} else {
			next := x[t+1]
			col := post.Transitions[t][0][next] + post.Transitions[t][1][next]
			if col > 0 {
				p = post.Transitions[t][1][next] / col
			}
		}
		x[t] = bernoulli(p, src)
	}
	return x
}

// ForwardSample draws a path forwards from the smoothed initial mastery
// probability and per-step learning probabilities of post: X[0] ~
// Bern(InitialMastery), then a mastered step stays mastered and an
// unmastered step t-1 becomes mastered at t with LearnProbs[t-1].
func ForwardSample(post *Posterior, src rand.Source) []uint8 {
	n := post.Len()
	x := make([]uint8, n)
	if n == 0 {
		return x
	}
	x[0] = bernoulli(post.InitialMastery, src)
	for t := 1; t < n; t++ {
		if x[t-1] == mastery.Mastered {
			x[t] = mastery.Mastered
			continue
		}
		x[t] = bernoulli(post.LearnProbs[t-1], src)
	}
	return x
}

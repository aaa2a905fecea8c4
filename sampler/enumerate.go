package sampler

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/sky-flux/mastery"
)

// ExactEnumeration computes posteriors by scoring every monotone latent
// path with the joint likelihood. A sequence of length T has T+1 such
// paths, one per mastery onset position (or none).
//
// Besides the smoothed quantities used for forward sampling, Estimate fills
// the filtered Marginals and Transitions by enumerating every prefix, so
// its output can be compared with ForwardBackward slice by slice. The
// prefix pass costs O(T³); use ForwardBackward for long sequences.
type ExactEnumeration struct{}

// Name implements Strategy.
func (ExactEnumeration) Name() string { return "enum" }

// Estimate implements Strategy.
func (ExactEnumeration) Estimate(p mastery.Pattern, m mastery.Matrices) (*Posterior, error) {
	obs := p.Responses
	n := len(obs)
	if n == 0 {
		return &Posterior{}, nil
	}
	post := &Posterior{
		Marginals:   make([][2]float64, n),
		Transitions: make([][2][2]float64, n-1),
		LearnProbs:  make([]float64, n-1),
	}

	for k := 1; k <= n; k++ {
		paths := monotonePaths(k)
		llk, total, err := pathMasses(paths, obs[:k], mastery.CensoredAt(p.Censored, k-1, n), m)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %v prefix %d", err, obs, k)
		}

		t := k - 1
		for x := uint8(0); x < 2; x++ {
			post.Marginals[t][x] = stateMass(paths, llk, t, x) / total
		}
		if t > 0 {
			for j := uint8(0); j < 2; j++ {
				for i := uint8(0); i < 2; i++ {
					joint, err := jointMass(paths, llk, t, j, i)
					if err != nil {
						return nil, err
					}
					post.Transitions[t-1][j][i] = joint / total
				}
			}
		}

		if k < n {
			continue
		}
		post.InitialMastery = stateMass(paths, llk, 0, mastery.Mastered) / total
		for t := 1; t < n; t++ {
			learn, err := jointMass(paths, llk, t, mastery.Unmastered, mastery.Mastered)
			if err != nil {
				return nil, err
			}
			// An unreachable unmastered step never draws from its entry.
			if stay := stateMass(paths, llk, t-1, mastery.Unmastered); stay > 0 {
				post.LearnProbs[t-1] = learn / stay
			}
		}
	}
	return post, nil
}

// SamplePath implements Strategy with ForwardSample.
func (ExactEnumeration) SamplePath(post *Posterior, src rand.Source) []uint8 {
	return ForwardSample(post, src)
}

// monotonePaths returns the n+1 non-decreasing binary paths of length n.
// Row k is unmastered before step k and mastered from step k on; row n is
// never mastered.
func monotonePaths(n int) [][]uint8 {
	paths := make([][]uint8, n+1)
	for k := range paths {
		x := make([]uint8, n)
		for t := k; t < n; t++ {
			x[t] = mastery.Mastered
		}
		paths[k] = x
	}
	return paths
}

// pathMasses scores every path and returns the masses and their total.
func pathMasses(paths [][]uint8, obs []uint8, censored bool, m mastery.Matrices) ([]float64, float64, error) {
	llk := make([]float64, len(paths))
	for k, x := range paths {
		p, err := mastery.JointLikelihood(x, obs, censored, m)
		if err != nil {
			return nil, 0, err
		}
		llk[k] = p
	}
	total := floats.Sum(llk)
	if !(total > 0) {
		return nil, 0, mastery.ErrDegenerateLikelihood
	}
	return llk, total, nil
}

// stateMass sums the mass of paths with X[t] = x.
func stateMass(paths [][]uint8, llk []float64, t int, x uint8) float64 {
	var s float64
	for k, path := range paths {
		if path[t] == x {
			s += llk[k]
		}
	}
	return s
}

// jointMass sums the mass of paths with X[t-1] = from and X[t] = to.
func jointMass(paths [][]uint8, llk []float64, t int, from, to uint8) (float64, error) {
	if t == 0 {
		return 0, fmt.Errorf("%w: joint mass at t = 0", mastery.ErrInvalidQuery)
	}
	var s float64
	for k, path := range paths {
		if path[t-1] == from && path[t] == to {
			s += llk[k]
		}
	}
	return s, nil
}

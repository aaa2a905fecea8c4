package sampler

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// NewSource returns the random source used for a run. Every Bernoulli and
// Beta draw of the run comes from this one source, in a fixed order.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed)
}

func bernoulli(p float64, src rand.Source) uint8 {
	if math.IsNaN(p) {
		p = 0
	}
	return uint8(distuv.Bernoulli{P: p, Src: src}.Rand())
}

func beta(a, b float64, src rand.Source) float64 {
	return distuv.Beta{Alpha: a, Beta: b, Src: src}.Rand()
}

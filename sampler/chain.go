package sampler

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sky-flux/mastery"
)

// Point estimation settings.
const (
	thinStep       = 20  // keep every 20th post-burn-in sample
	tailPercentile = 0.1 // drop samples at or below the 0.1th percentile
)

// Chain is the append-only record of sampled parameters, one row per
// iteration in column order (s, g, pi, l, h0, h1).
type Chain struct {
	rows [][mastery.NumParams]float64
}

// NewChain returns an empty chain with room for n samples.
func NewChain(n int) *Chain {
	return &Chain{rows: make([][mastery.NumParams]float64, 0, n)}
}

// ChainFromRows builds a chain from existing rows.
func ChainFromRows(rows [][mastery.NumParams]float64) *Chain {
	c := NewChain(len(rows))
	c.rows = append(c.rows, rows...)
	return c
}

// Append records one sample.
func (c *Chain) Append(t mastery.Theta) {
	c.rows = append(c.rows, t.Vector())
}

// Len returns the number of samples.
func (c *Chain) Len() int {
	return len(c.rows)
}

// At returns sample i.
func (c *Chain) At(i int) mastery.Theta {
	return mastery.ThetaFromVector(c.rows[i])
}

// Rows returns a copy of every sample.
func (c *Chain) Rows() [][mastery.NumParams]float64 {
	out := make([][mastery.NumParams]float64, len(c.rows))
	copy(out, c.rows)
	return out
}

// Column returns the samples of parameter p (see mastery.ParamS etc.).
func (c *Chain) Column(p int) []float64 {
	col := make([]float64, len(c.rows))
	for i, r := range c.rows {
		col[i] = r[p]
	}
	return col
}

// Thin returns the samples start, start+step, ... below end. A step below
// 1 is treated as 1.
func (c *Chain) Thin(start, end, step int) *Chain {
	step = max(step, 1)
	end = min(end, len(c.rows))
	out := NewChain(0)
	for i := max(start, 0); i < end; i += step {
		out.rows = append(out.rows, c.rows[i])
	}
	return out
}

// PointEstimate discards the first half of the chain as burn-in, keeps
// every 20th remaining sample, drops samples at or below the 0.1th
// percentile of each parameter and returns the mean of the rest.
//
// At least two samples must survive thinning, so chains shorter than 41
// samples (including most cancelled runs) return ErrInsufficientChain.
func (c *Chain) PointEstimate() (mastery.Theta, error) {
	n := len(c.rows)
	kept := c.Thin(n/2, n, thinStep)

	var est [mastery.NumParams]float64
	for p := 0; p < mastery.NumParams; p++ {
		v, err := TrimmedMean(kept.Column(p), tailPercentile)
		if err != nil {
			return mastery.Theta{}, fmt.Errorf("%w: %s", err, mastery.ParamNames[p])
		}
		est[p] = v
	}
	return mastery.ThetaFromVector(est), nil
}

// TrimmedMean returns the mean of the values strictly above the q-th
// percentile of x.
func TrimmedMean(x []float64, q float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrInsufficientChain
	}
	lower := Percentile(x, q)
	kept := make([]float64, 0, len(x))
	for _, v := range x {
		if v > lower {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return 0, ErrInsufficientChain
	}
	return stat.Mean(kept, nil), nil
}

// Percentile returns the q-th percentile of x, linearly interpolating
// between the two nearest order statistics at rank (len(x)-1)·q/100.
// q is clamped to [0, 100]; an empty x or a NaN q yields NaN.
func Percentile(x []float64, q float64) float64 {
	if len(x) == 0 || math.IsNaN(q) {
		return math.NaN()
	}
	q = min(max(q, 0), 100)
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)

	rank := float64(len(s)-1) * q / 100
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return s[lo] + (s[hi]-s[lo])*frac
}

// ParamSummary describes the marginal posterior of one parameter.
type ParamSummary struct {
	Name   string
	Mean   float64
	StdDev float64
	Lower  float64 // 2.5th percentile
	Upper  float64 // 97.5th percentile
}

// Summary describes every parameter over the post-burn-in half of the chain.
func (c *Chain) Summary() [mastery.NumParams]ParamSummary {
	n := len(c.rows)
	tail := c.Thin(n/2, n, 1)

	var out [mastery.NumParams]ParamSummary
	for p := 0; p < mastery.NumParams; p++ {
		col := tail.Column(p)
		out[p] = ParamSummary{Name: mastery.ParamNames[p]}
		if len(col) == 0 {
			continue
		}
		out[p].Mean, out[p].StdDev = stat.MeanStdDev(col, nil)
		out[p].Lower = Percentile(col, 2.5)
		out[p].Upper = Percentile(col, 97.5)
	}
	return out
}

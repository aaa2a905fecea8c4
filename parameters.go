package mastery

import (
	"fmt"
	"math"
)

// NumParams is the number of model parameters.
const NumParams = 6

// Parameter column indices, in chain order.
const (
	ParamS = iota
	ParamG
	ParamPi
	ParamL
	ParamH0
	ParamH1
)

// ParamNames are the recognised parameter keys in chain column order.
var ParamNames = [NumParams]string{
	ParamS:  "s",
	ParamG:  "g",
	ParamPi: "pi",
	ParamL:  "l",
	ParamH0: "h0",
	ParamH1: "h1",
}

// Theta is one value of the six model parameters. All fields are
// probabilities in [0, 1]. Theta is a plain value: updates produce a new
// Theta rather than mutating one in place.
type Theta struct {
	G  float64 `json:"g" yaml:"g"`   // guess: P(correct | not mastered)
	S  float64 `json:"s" yaml:"s"`   // slip: P(incorrect | mastered)
	Pi float64 `json:"pi" yaml:"pi"` // P(mastered at step 0)
	L  float64 `json:"l" yaml:"l"`   // P(not mastered → mastered) per step
	H0 float64 `json:"h0" yaml:"h0"` // hazard after an incorrect response
	H1 float64 `json:"h1" yaml:"h1"` // hazard after a correct response
}

// Vector returns the parameters in chain column order (s, g, pi, l, h0, h1).
func (t Theta) Vector() [NumParams]float64 {
	return [NumParams]float64{t.S, t.G, t.Pi, t.L, t.H0, t.H1}
}

// ThetaFromVector is the inverse of Theta.Vector.
func ThetaFromVector(v [NumParams]float64) Theta {
	return Theta{
		S:  v[ParamS],
		G:  v[ParamG],
		Pi: v[ParamPi],
		L:  v[ParamL],
		H0: v[ParamH0],
		H1: v[ParamH1],
	}
}

// ThetaFromMap builds a Theta from the recognised keys g, s, pi, l, h0, h1.
// Every key must be present; unknown keys are rejected.
func ThetaFromMap(m map[string]float64) (Theta, error) {
	var v [NumParams]float64
	seen := 0
	for key, val := range m {
		idx := paramIndex(key)
		if idx < 0 {
			return Theta{}, fmt.Errorf("%w: unknown key %q", ErrInvalidParameters, key)
		}
		v[idx] = val
		seen++
	}
	if seen != NumParams {
		return Theta{}, fmt.Errorf("%w: got %d of %d keys", ErrInvalidParameters, seen, NumParams)
	}
	t := ThetaFromVector(v)
	if err := t.Validate(); err != nil {
		return Theta{}, err
	}
	return t, nil
}

// Map returns the parameters keyed by their recognised names.
func (t Theta) Map() map[string]float64 {
	v := t.Vector()
	m := make(map[string]float64, NumParams)
	for i, name := range ParamNames {
		m[name] = v[i]
	}
	return m
}

// Validate checks that every parameter is a probability in [0, 1].
func (t Theta) Validate() error {
	v := t.Vector()
	for i := 0; i < NumParams; i++ {
		if math.IsNaN(v[i]) || v[i] < 0 || v[i] > 1 {
			return fmt.Errorf("%w: %s = %f, bounds [0, 1]",
				ErrInvalidParameters, ParamNames[i], v[i])
		}
	}
	return nil
}

func paramIndex(name string) int {
	for i, n := range ParamNames {
		if n == name {
			return i
		}
	}
	return -1
}

package itemlog

import (
	"fmt"
	"math"

	"github.com/sky-flux/mastery"
)

// EmissionPolicy gives the probability of a response from a latent state.
type EmissionPolicy interface {
	Prob(state, response uint8) float64
}

// GuessSlip is the standard emission matrix [state][response].
type GuessSlip [2][2]float64

// Prob implements EmissionPolicy.
func (g GuessSlip) Prob(state, response uint8) float64 {
	return g[state][response]
}

// NoEffort forces an incorrect response regardless of state.
type NoEffort struct{}

// Prob implements EmissionPolicy.
func (NoEffort) Prob(_, response uint8) float64 {
	if response == 0 {
		return 1
	}
	return 0
}

// PolicyFor returns the emission policy of a step with the given effort
// flag and item emission matrix.
func PolicyFor(effort uint8, observ GuessSlip) EmissionPolicy {
	if effort == 0 {
		return NoEffort{}
	}
	return observ
}

// ItemEmissions returns per-item guess/slip matrices from per-item
// parameters, reusing the derivation of the single-skill model.
func ItemEmissions(items []mastery.Theta) []GuessSlip {
	out := make([]GuessSlip, len(items))
	for j, t := range items {
		out[j] = GuessSlip(mastery.Derive(t).Observ)
	}
	return out
}

// Likelihood returns P(responses | state) for a decoded key, with one
// emission matrix per dense item. A state that stays fixed over the
// learner's logs is assumed, as the tallies carry no order.
func Likelihood(tallies []Tally, observ []GuessSlip, state uint8) (float64, error) {
	p := 1.0
	for _, t := range tallies {
		if t.Item >= len(observ) {
			return 0, fmt.Errorf("%w: item %d has no emission matrix", mastery.ErrInvalidQuery, t.Item)
		}
		q := PolicyFor(t.Effort, observ[t.Item]).Prob(state, t.Response)
		p *= math.Pow(q, float64(t.Count))
	}
	if p < 0 {
		return 0, fmt.Errorf("%w: %g", mastery.ErrNegativeLikelihood, p)
	}
	return p, nil
}

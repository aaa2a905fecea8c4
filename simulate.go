package mastery

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// SimulationConfig configures Simulate.
// Zero values are replaced with defaults.
type SimulationConfig struct {
	Learners int `json:"learners" yaml:"learners"` // default 250
	MaxLen   int `json:"max_len" yaml:"max_len"`   // default 5
}

// Simulate draws synthetic learners from the model defined by t.
//
// Each learner starts mastered with probability pi, answers each step with
// the guess/slip emission of its current state, then ends the spell with
// the hazard of that response. A learner that reaches MaxLen steps without
// ending is cut off with Censored=false. Between steps the learner masters
// the skill with probability l. Event.State records the true latent state.
func Simulate(t Theta, cfg SimulationConfig, src rand.Source) []Event {
	if cfg.Learners == 0 {
		cfg.Learners = 250
	}
	if cfg.MaxLen == 0 {
		cfg.MaxLen = 5
	}
	m := Derive(t)
	draw := func(p float64) uint8 {
		return uint8(distuv.Bernoulli{P: p, Src: src}.Rand())
	}

	events := make([]Event, 0, cfg.Learners*cfg.MaxLen)
	for k := 0; k < cfg.Learners; k++ {
		x := draw(m.Init[Mastered])
		for step := 0; step < cfg.MaxLen; step++ {
			if step > 0 && x == Unmastered {
				x = draw(m.Transit[Unmastered][Mastered])
			}
			y := draw(m.Observ[x][1])
			ended := draw(m.Hazard[y]) == 1
			events = append(events, Event{
				LearnerID: int64(k),
				Time:      step,
				Response:  y,
				State:     int(x),
				Censored:  ended,
				Active:    true,
			})
			if ended {
				break
			}
		}
	}
	return events
}

package sampler

import (
	"math/rand/v2"

	"github.com/sky-flux/mastery"
)

// Beta prior hyperparameters (a, b) for each parameter. Posterior draws are
// Beta(a + successes, b + failures). Changing these changes every estimate.
var (
	priorL  = [2]float64{1, 4}
	priorPi = [2]float64{2, 2}
	priorS  = [2]float64{1, 9}
	priorG  = [2]float64{1, 3}
	priorH  = [2]float64{1, 9}
)

// Statistics are the sufficient statistics of one set of sampled paths.
type Statistics struct {
	Learners        int       // K
	MasteredAtStart int       // learners with X[0] = 1
	TotalTrans      int       // steps t > 0 with X[t-1] = 0
	CriticalTrans   int       // of those, steps with X[t] = 1
	Obs             [2][2]int // [state][response]
	Drop            [2]int    // steps t > 0 that end the spell, by response
	Survive         [2]int    // steps t > 0 that do not, by response
}

// Add accumulates the statistics of one learner's sampled path.
func (s *Statistics) Add(l mastery.Learner, x []uint8) {
	s.Learners++
	if len(x) > 0 && x[0] == mastery.Mastered {
		s.MasteredAtStart++
	}
	n := l.Len()
	for t := 0; t < n; t++ {
		y := l.Responses[t]
		if t > 0 && x[t-1] == mastery.Unmastered {
			s.TotalTrans++
			if x[t] == mastery.Mastered {
				s.CriticalTrans++
			}
		}
		s.Obs[x[t]][y]++

		if t > 0 {
			if mastery.CensoredAt(l.Censored, t, n) {
				s.Drop[y]++
			} else {
				s.Survive[y]++
			}
		}
	}
}

// Accumulate returns the statistics of paths[k] sampled for learners[k].
func Accumulate(learners []mastery.Learner, paths [][]uint8) Statistics {
	var s Statistics
	for k, l := range learners {
		s.Add(l, paths[k])
	}
	return s
}

// Draw samples a new Theta from the conjugate Beta posteriors, in the
// fixed order l, pi, s, g, h0, h1.
func (s Statistics) Draw(src rand.Source) mastery.Theta {
	var t mastery.Theta
	t.L = drawBeta(priorL, s.CriticalTrans, s.TotalTrans-s.CriticalTrans, src)
	t.Pi = drawBeta(priorPi, s.MasteredAtStart, s.Learners-s.MasteredAtStart, src)
	t.S = drawBeta(priorS, s.Obs[mastery.Mastered][0], s.Obs[mastery.Mastered][1], src)
	t.G = drawBeta(priorG, s.Obs[mastery.Unmastered][1], s.Obs[mastery.Unmastered][0], src)
	t.H0 = drawBeta(priorH, s.Drop[0], s.Survive[0], src)
	t.H1 = drawBeta(priorH, s.Drop[1], s.Survive[1], src)
	return t
}

func drawBeta(prior [2]float64, success, failure int, src rand.Source) float64 {
	return beta(prior[0]+float64(success), prior[1]+float64(failure), src)
}

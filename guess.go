package mastery

import "gonum.org/v1/gonum/stat"

// Bounds applied to moment-based starting values so the sampler never
// starts at a degenerate 0 or 1.
const (
	guessFloor   = 0.01
	guessCeiling = 0.99
	defaultGuess = 0.3
	slipHorizon  = 4
)

// InitialGuess derives rough starting values from the data:
//
//   - pi from the accuracy at step 0,
//   - l from the accuracy gain between step 0 and step 1,
//   - s from the error rate at step 4 (or the last step any learner reaches),
//   - h0, h1 from the share of steps t > 0 that end the spell, split by response,
//   - g fixed at 0.3.
//
// All values are clamped to [0.01, 0.99].
func InitialGuess(learners []Learner) Theta {
	horizon := min(slipHorizon, MaxLen(learners)-1)

	var y0, y1, yH []float64
	var ends [2][]float64
	for _, l := range learners {
		for t, y := range l.Responses {
			switch t {
			case 0:
				y0 = append(y0, float64(y))
			case 1:
				y1 = append(y1, float64(y))
			}
			if t == horizon {
				yH = append(yH, float64(y))
			}
			if t > 0 {
				end := 0.0
				if CensoredAt(l.Censored, t, l.Len()) {
					end = 1
				}
				ends[y] = append(ends[y], end)
			}
		}
	}

	return Theta{
		G:  defaultGuess,
		S:  clampGuess(1 - meanOr(yH, 1-defaultGuess)),
		Pi: clampGuess(meanOr(y0, 0.5)),
		L:  clampGuess(meanOr(y1, 0.5) - meanOr(y0, 0.5)),
		H0: clampGuess(meanOr(ends[0], 0.1)),
		H1: clampGuess(meanOr(ends[1], 0.1)),
	}
}

func meanOr(x []float64, fallback float64) float64 {
	if len(x) == 0 {
		return fallback
	}
	return stat.Mean(x, nil)
}

func clampGuess(v float64) float64 {
	return min(max(v, guessFloor), guessCeiling)
}

// Package mastery models learner mastery as a two-state left-to-right hidden
// Markov process observed through guess/slip responses, with an informative
// dropout hazard that depends on the most recent response.
//
// The package holds the model itself: the six-parameter [Theta], its derived
// [Matrices], the likelihood primitives, learner records built from raw
// [Event] logs and the observation-pattern compressor. Parameter estimation
// lives in the mastery/sampler subpackage.
//
// Basic usage:
//
//	learners, err := mastery.BuildLearners(events)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	patterns := mastery.Compress(learners)
//	m := mastery.Derive(mastery.Theta{G: 0.2, S: 0.05, Pi: 0.4, L: 0.3, H0: 0.3, H1: 0.2})
//	p, err := mastery.JointLikelihood([]uint8{0, 1, 1}, []uint8{1, 0, 1}, false, m)
package mastery

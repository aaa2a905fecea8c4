// Package sampler estimates mastery model parameters by Gibbs sampling.
//
// Each iteration derives the model matrices from the current parameters,
// computes a posterior over latent mastery paths once per distinct
// observation pattern, draws one path per learner, and redraws the six
// parameters from their conjugate Beta posteriors.
//
// Two interchangeable [Strategy] implementations compute the per-pattern
// posterior:
//
//   - [ForwardBackward] runs a survival-corrected forward filter and samples
//     paths backwards (FFBS). Linear in the sequence length.
//
//   - [ExactEnumeration] scores every monotone path with the joint
//     likelihood and samples paths forwards. Intended for short sequences
//     and as a reference for the recursive estimator.
//
// # Usage
//
//	s, err := sampler.New(sampler.Config{MaxIter: 1000, Seed: 7})
//	res, err := s.Run(ctx, theta0, learners)
//	est, err := res.Chain.PointEstimate()
//
// A cancelled context stops the run at the next iteration boundary; the
// returned Result still holds every recorded sample.
package sampler

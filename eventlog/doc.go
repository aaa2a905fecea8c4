// Package eventlog reads, writes and stores learner event logs.
//
// The flat-file format has one event per line with six comma-separated
// integers:
//
//	learner_id,time,response,state,censored,active
//
// state is the latent mastery state when known (simulated data) and is
// ignored by estimation. censored marks the step at which the learner's
// spell ends. Only rows with a non-zero active flag are used by
// [mastery.BuildLearners]; every row is kept so that files round-trip.
//
// [Store] persists imported logs in SQLite so that one import can feed
// many estimation runs.
package eventlog

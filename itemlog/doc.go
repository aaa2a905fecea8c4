// Package itemlog prepares multi-item response logs for mastery models with
// item-specific emissions and an optional effort channel.
//
// A raw log row is (learner, item, response) or (learner, item, response,
// effort). [Densify] maps learner and item ids to consecutive integers and
// numbers each learner's rows in order; [InvalidItems] finds items that
// nearly everyone answers the same way. A learner's rows can be reduced to
// a [Key] that counts, per item, the (response, effort) combinations seen;
// learners with equal keys share a likelihood, so [Collapse] groups them.
//
// When effort is not exerted the response is 0 with probability one. That
// rule is a separate [EmissionPolicy] and never folded into the guess/slip
// matrix.
package itemlog

package mastery

import "errors"

// Sentinel errors for the mastery package.
// Use errors.Is to check: errors.Is(err, mastery.ErrDegenerateLikelihood)
var (
	ErrInvalidParameters    = errors.New("mastery: parameters out of bounds")
	ErrDegenerateLikelihood = errors.New("mastery: likelihood mass is zero")
	ErrNegativeLikelihood   = errors.New("mastery: negative likelihood")
	ErrInvalidLogFormat     = errors.New("mastery: log format not recognized")
	ErrInvalidQuery         = errors.New("mastery: transition query has no predecessor step")
	ErrLengthMismatch       = errors.New("mastery: sequence lengths differ")
	ErrInvalidEvent         = errors.New("mastery: invalid event")
	ErrTimeGap              = errors.New("mastery: gap in learner time index")
	ErrEmptyData            = errors.New("mastery: no active events")
)

package itemlog

import "errors"

var (
	// ErrInvalidLogFormat is returned for rows that are neither
	// (learner, item, response) nor (learner, item, response, effort), that
	// mix both arities, or that record a correct response without effort.
	ErrInvalidLogFormat = errors.New("itemlog: log format not recognized")

	// ErrInvalidKey is returned when a Key cannot be decoded.
	ErrInvalidKey = errors.New("itemlog: invalid key")
)

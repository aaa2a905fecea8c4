package eventlog

import (
	"errors"

	"github.com/sky-flux/mastery"
)

var (
	// ErrInvalidLogFormat is returned for malformed flat-file rows. It is the
	// same value as mastery.ErrInvalidLogFormat.
	ErrInvalidLogFormat = mastery.ErrInvalidLogFormat

	// ErrBatchNotFound is returned when a batch id is not in the store.
	ErrBatchNotFound = errors.New("eventlog: batch not found")
)

package sampler

import "errors"

var (
	// ErrInvalidConfig is returned by New for out-of-range settings.
	ErrInvalidConfig = errors.New("sampler: invalid config")

	// ErrInsufficientChain is returned when too few samples remain after
	// burn-in, thinning and trimming to form an estimate.
	ErrInsufficientChain = errors.New("sampler: not enough samples for a point estimate")

	// ErrUnknownStrategy is returned by StrategyByName.
	ErrUnknownStrategy = errors.New("sampler: unknown strategy")
)

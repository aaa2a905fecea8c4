package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sky-flux/mastery"
)

// Config configures a Sampler.
// Zero values are replaced with sensible defaults.
type Config struct {
	MaxIter       int            `json:"max_iter" yaml:"max_iter"`             // default 1000
	Seed          uint64         `json:"seed" yaml:"seed"`                     // default 42
	Strategy      Strategy       `json:"-" yaml:"-"`                           // default ForwardBackward
	Workers       int            `json:"workers" yaml:"workers"`               // default GOMAXPROCS
	ProgressEvery int            `json:"progress_every" yaml:"progress_every"` // default 100
	Progress      func(Progress) `json:"-" yaml:"-"`                           // optional
	Logger        *slog.Logger   `json:"-" yaml:"-"`                           // default slog.Default()
}

// Progress is passed to Config.Progress every ProgressEvery iterations and
// after the last one.
type Progress struct {
	Iteration int // iterations completed
	MaxIter   int
	Theta     mastery.Theta // latest sample
	Elapsed   time.Duration
}

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Strategy string
	Learners int
	Patterns int
	Chain    *Chain
}

// Sampler runs the Gibbs sampler. A Sampler holds no per-run state and may
// be reused; concurrent runs each need their own Sampler only if they must
// not share a Logger.
type Sampler struct {
	maxIter       int
	seed          uint64
	strategy      Strategy
	workers       int
	progressEvery int
	progress      func(Progress)
	logger        *slog.Logger
}

// New creates a Sampler with the given config.
// Zero-valued fields receive defaults: MaxIter=1000, Seed=42,
// Strategy=ForwardBackward, Workers=GOMAXPROCS, ProgressEvery=100.
func New(cfg Config) (*Sampler, error) {
	s := &Sampler{
		maxIter:       cfg.MaxIter,
		seed:          cfg.Seed,
		strategy:      cfg.Strategy,
		workers:       cfg.Workers,
		progressEvery: cfg.ProgressEvery,
		progress:      cfg.Progress,
		logger:        cfg.Logger,
	}
	if s.maxIter == 0 {
		s.maxIter = 1000
	}
	if s.maxIter < 0 {
		return nil, fmt.Errorf("%w: max iterations %d must be positive", ErrInvalidConfig, s.maxIter)
	}
	if s.seed == 0 {
		s.seed = 42
	}
	if s.strategy == nil {
		s.strategy = ForwardBackward{}
	}
	if s.workers == 0 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	if s.workers < 0 {
		return nil, fmt.Errorf("%w: workers %d must be positive", ErrInvalidConfig, s.workers)
	}
	if s.progressEvery == 0 {
		s.progressEvery = 100
	}
	if s.progressEvery < 0 {
		return nil, fmt.Errorf("%w: progress interval %d must be positive", ErrInvalidConfig, s.progressEvery)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Run samples MaxIter parameter values starting from theta0.
//
// The returned Result is never nil once the inputs are valid. If ctx is
// cancelled the run stops at the next iteration boundary and returns the
// samples recorded so far together with ctx.Err(). If an iteration fails
// (for example with mastery.ErrDegenerateLikelihood) the run aborts and the
// Result holds the samples recorded before the failure; they are for
// diagnosis and do not form a finished chain.
func (s *Sampler) Run(ctx context.Context, theta0 mastery.Theta, learners []mastery.Learner) (*Result, error) {
	if err := theta0.Validate(); err != nil {
		return nil, err
	}
	if len(learners) == 0 {
		return nil, mastery.ErrEmptyData
	}

	patterns := mastery.Compress(learners)
	res := &Result{
		RunID:    uuid.NewString(),
		Strategy: s.strategy.Name(),
		Learners: len(learners),
		Patterns: patterns.Len(),
		Chain:    NewChain(s.maxIter),
	}
	patternsGauge.Set(float64(res.Patterns))

	ctx, span := startRunSpan(ctx, res.RunID, res.Strategy, res.Learners, res.Patterns, s.maxIter)
	log := s.logger.With("run_id", res.RunID, "strategy", res.Strategy)
	log.Info("sampler run started",
		"learners", res.Learners, "patterns", res.Patterns, "max_iter", s.maxIter, "seed", s.seed)

	src := NewSource(s.seed)
	theta := theta0
	start := time.Now()

	for iter := 0; iter < s.maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			log.Warn("sampler run cancelled", "iterations", res.Chain.Len(), "error", err)
			endRunSpan(span, outcomeCancelled, res.Chain.Len(), err)
			return res, err
		}

		iterStart := time.Now()
		iterCtx, iterSpan := startIterationSpan(ctx, iter)
		next, err := s.iterate(iterCtx, theta, learners, patterns, src)
		iterSpan.End()
		if err != nil && ctx.Err() != nil {
			log.Warn("sampler run cancelled", "iterations", res.Chain.Len(), "error", ctx.Err())
			endRunSpan(span, outcomeCancelled, res.Chain.Len(), ctx.Err())
			return res, ctx.Err()
		}
		if err != nil {
			err = fmt.Errorf("iteration %d: %w", iter, err)
			log.Error("sampler run aborted", "iterations", res.Chain.Len(), "error", err)
			endRunSpan(span, outcomeFailed, res.Chain.Len(), err)
			return res, err
		}
		theta = next
		res.Chain.Append(theta)

		iterationsTotal.WithLabelValues(res.Strategy).Inc()
		iterationDuration.WithLabelValues(res.Strategy).Observe(time.Since(iterStart).Seconds())

		done := iter + 1
		if done%s.progressEvery == 0 || done == s.maxIter {
			p := Progress{Iteration: done, MaxIter: s.maxIter, Theta: theta, Elapsed: time.Since(start)}
			log.Debug("sampler progress", "iteration", done, "theta", theta)
			if s.progress != nil {
				s.progress(p)
			}
		}
	}

	log.Info("sampler run finished", "iterations", res.Chain.Len(), "elapsed", time.Since(start))
	endRunSpan(span, outcomeCompleted, res.Chain.Len(), nil)
	return res, nil
}

// Estimate builds learners from events, runs the sampler and returns the
// point estimate of the resulting chain. On cancellation or failure the
// partial Result is returned with the error and no estimate.
func (s *Sampler) Estimate(ctx context.Context, theta0 mastery.Theta, events []mastery.Event) (*Result, mastery.Theta, error) {
	learners, err := mastery.BuildLearners(events)
	if err != nil {
		return nil, mastery.Theta{}, err
	}
	res, err := s.Run(ctx, theta0, learners)
	if err != nil {
		return res, mastery.Theta{}, err
	}
	est, err := res.Chain.PointEstimate()
	if err != nil {
		return res, mastery.Theta{}, err
	}
	return res, est, nil
}

// iterate performs one Gibbs sweep and returns the next sample.
func (s *Sampler) iterate(ctx context.Context, theta mastery.Theta, learners []mastery.Learner, patterns *mastery.Patterns, src rand.Source) (mastery.Theta, error) {
	m := mastery.Derive(theta)

	posts, err := s.estimatePatterns(ctx, patterns, m)
	if err != nil {
		return mastery.Theta{}, err
	}

	var stats Statistics
	for k, l := range learners {
		x := s.strategy.SamplePath(posts[patterns.LearnerPattern[k]], src)
		stats.Add(l, x)
	}
	return stats.Draw(src), nil
}

// estimatePatterns computes one posterior per pattern. Patterns are
// independent and estimation draws no random numbers, so the fan-out does
// not affect results.
func (s *Sampler) estimatePatterns(ctx context.Context, patterns *mastery.Patterns, m mastery.Matrices) ([]*Posterior, error) {
	posts := make([]*Posterior, patterns.Len())
	if s.workers == 1 {
		for i, p := range patterns.Patterns {
			post, err := s.strategy.Estimate(p, m)
			if err != nil {
				return nil, err
			}
			posts[i] = post
		}
		return posts, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, p := range patterns.Patterns {
		g.Go(func() error {
			// A failed sibling cancels gctx; skip the remaining patterns.
			if err := gctx.Err(); err != nil {
				return err
			}
			post, err := s.strategy.Estimate(p, m)
			if err != nil {
				return err
			}
			posts[i] = post
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return posts, nil
}

// IsCancelled reports whether err ended a run through its context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

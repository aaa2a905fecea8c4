package sampler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sky-flux/mastery"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func simulatedLearners(t testing.TB, n int, seed uint64) []mastery.Learner {
	t.Helper()
	events := mastery.Simulate(testTheta, mastery.SimulationConfig{Learners: n, MaxLen: 5}, NewSource(seed))
	learners, err := mastery.BuildLearners(events)
	if err != nil {
		t.Fatalf("BuildLearners: %v", err)
	}
	return learners
}

func newSampler(t testing.TB, cfg Config) *Sampler {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = quietLogger
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewDefaults(t *testing.T) {
	s := newSampler(t, Config{})
	if s.maxIter != 1000 {
		t.Errorf("maxIter = %d, want 1000", s.maxIter)
	}
	if s.seed != 42 {
		t.Errorf("seed = %d, want 42", s.seed)
	}
	if s.strategy.Name() != "fb" {
		t.Errorf("strategy = %s, want fb", s.strategy.Name())
	}
	if s.workers < 1 {
		t.Errorf("workers = %d", s.workers)
	}
	if s.progressEvery != 100 {
		t.Errorf("progressEvery = %d, want 100", s.progressEvery)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	for _, cfg := range []Config{
		{MaxIter: -1},
		{Workers: -2},
		{ProgressEvery: -5},
	} {
		if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("New(%+v) error = %v, want ErrInvalidConfig", cfg, err)
		}
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	s := newSampler(t, Config{MaxIter: 2})
	learners := simulatedLearners(t, 10, 1)

	bad := testTheta
	bad.G = 1.5
	if _, err := s.Run(context.Background(), bad, learners); !errors.Is(err, mastery.ErrInvalidParameters) {
		t.Errorf("bad theta: error = %v", err)
	}
	if _, err := s.Run(context.Background(), testTheta, nil); !errors.Is(err, mastery.ErrEmptyData) {
		t.Errorf("no learners: error = %v", err)
	}
}

func TestRunProducesChain(t *testing.T) {
	learners := simulatedLearners(t, 200, 2)
	s := newSampler(t, Config{MaxIter: 30, Seed: 5})

	res, err := s.Run(context.Background(), testTheta, learners)
	if err != nil {
		t.Fatal(err)
	}
	if res.Chain.Len() != 30 {
		t.Fatalf("chain length = %d, want 30", res.Chain.Len())
	}
	if res.RunID == "" {
		t.Error("empty RunID")
	}
	if res.Learners != len(learners) {
		t.Errorf("Learners = %d, want %d", res.Learners, len(learners))
	}
	if res.Patterns != mastery.Compress(learners).Len() {
		t.Errorf("Patterns = %d", res.Patterns)
	}
	for i := 0; i < res.Chain.Len(); i++ {
		if err := res.Chain.At(i).Validate(); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
}

func TestRunIsReproducible(t *testing.T) {
	learners := simulatedLearners(t, 150, 3)
	for _, strategy := range []Strategy{ForwardBackward{}, ExactEnumeration{}} {
		serial := newSampler(t, Config{MaxIter: 20, Seed: 9, Strategy: strategy, Workers: 1})
		parallel := newSampler(t, Config{MaxIter: 20, Seed: 9, Strategy: strategy, Workers: 8})

		a, err := serial.Run(context.Background(), testTheta, learners)
		if err != nil {
			t.Fatal(err)
		}
		b, err := parallel.Run(context.Background(), testTheta, learners)
		if err != nil {
			t.Fatal(err)
		}
		ra, rb := a.Chain.Rows(), b.Chain.Rows()
		for i := range ra {
			if ra[i] != rb[i] {
				t.Fatalf("%s: sample %d differs: %v vs %v", strategy.Name(), i, ra[i], rb[i])
			}
		}
	}
}

func TestRunSeedsDiffer(t *testing.T) {
	learners := simulatedLearners(t, 100, 4)
	a, err := newSampler(t, Config{MaxIter: 5, Seed: 1}).Run(context.Background(), testTheta, learners)
	if err != nil {
		t.Fatal(err)
	}
	b, err := newSampler(t, Config{MaxIter: 5, Seed: 2}).Run(context.Background(), testTheta, learners)
	if err != nil {
		t.Fatal(err)
	}
	if a.Chain.Rows()[4] == b.Chain.Rows()[4] {
		t.Error("different seeds produced the same sample")
	}
}

func TestRunCancellationKeepsPrefix(t *testing.T) {
	learners := simulatedLearners(t, 100, 6)

	full, err := newSampler(t, Config{MaxIter: 20, Seed: 8}).Run(context.Background(), testTheta, learners)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newSampler(t, Config{
		MaxIter:       20,
		Seed:          8,
		ProgressEvery: 5,
		Progress: func(p Progress) {
			if p.Iteration == 10 {
				cancel()
			}
		},
	})
	res, err := s.Run(ctx, testTheta, learners)
	if !errors.Is(err, context.Canceled) || !IsCancelled(err) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if res == nil || res.Chain.Len() != 10 {
		t.Fatalf("partial chain missing or wrong length")
	}
	want := full.Chain.Rows()
	for i, row := range res.Chain.Rows() {
		if row != want[i] {
			t.Fatalf("sample %d differs from uncancelled run", i)
		}
	}
}

func TestCancelledChainStillEstimates(t *testing.T) {
	learners := simulatedLearners(t, 100, 6)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newSampler(t, Config{
		MaxIter:       200,
		Seed:          8,
		ProgressEvery: 50,
		Progress: func(p Progress) {
			if p.Iteration == 100 {
				cancel()
			}
		},
	})
	res, err := s.Run(ctx, testTheta, learners)
	if !IsCancelled(err) {
		t.Fatalf("error = %v, want cancellation", err)
	}
	if res.Chain.Len() != 100 {
		t.Fatalf("chain length = %d, want 100", res.Chain.Len())
	}
	est, err := res.Chain.PointEstimate()
	if err != nil {
		t.Fatalf("PointEstimate on truncated chain: %v", err)
	}
	if err := est.Validate(); err != nil {
		t.Errorf("estimate %+v: %v", est, err)
	}
}

// failingStrategy fails every estimate and counts how many were attempted.
type failingStrategy struct {
	ForwardBackward
	calls *atomic.Int32
}

func (f failingStrategy) Estimate(mastery.Pattern, mastery.Matrices) (*Posterior, error) {
	f.calls.Add(1)
	return nil, mastery.ErrDegenerateLikelihood
}

func TestRunFailedPatternStopsSiblings(t *testing.T) {
	learners := simulatedLearners(t, 200, 11)
	if n := mastery.Compress(learners).Len(); n < 10 {
		t.Fatalf("only %d patterns", n)
	}
	var calls atomic.Int32
	s := newSampler(t, Config{MaxIter: 3, Workers: 2, Strategy: failingStrategy{calls: &calls}})

	_, err := s.Run(context.Background(), testTheta, learners)
	if !errors.Is(err, mastery.ErrDegenerateLikelihood) {
		t.Fatalf("error = %v, want ErrDegenerateLikelihood", err)
	}
	if IsCancelled(err) {
		t.Errorf("failure reported as cancellation: %v", err)
	}
	// At most the two estimates started before the first failure run.
	if got := calls.Load(); got < 1 || got > 2 {
		t.Errorf("estimates attempted = %d, want 1 or 2", got)
	}
}

func TestRunReportsProgress(t *testing.T) {
	learners := simulatedLearners(t, 50, 7)
	var seen []int
	s := newSampler(t, Config{
		MaxIter:       25,
		ProgressEvery: 10,
		Progress:      func(p Progress) { seen = append(seen, p.Iteration) },
	})
	if _, err := s.Run(context.Background(), testTheta, learners); err != nil {
		t.Fatal(err)
	}
	want := []int{10, 20, 25}
	if len(seen) != len(want) {
		t.Fatalf("progress at %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("progress at %v, want %v", seen, want)
		}
	}
}

func TestRunDegenerateAborts(t *testing.T) {
	// A single learner whose responses are impossible once g = s = 0.
	learners := []mastery.Learner{{ID: 1, Responses: []uint8{1, 0}}}
	theta := mastery.Theta{G: 0, S: 0, Pi: 0.5, L: 0.3, H0: 0.1, H1: 0.1}

	before := testutil.ToFloat64(runsTotal.WithLabelValues(outcomeFailed))
	res, err := newSampler(t, Config{MaxIter: 5}).Run(context.Background(), theta, learners)
	if !errors.Is(err, mastery.ErrDegenerateLikelihood) {
		t.Fatalf("error = %v, want ErrDegenerateLikelihood", err)
	}
	if res == nil || res.Chain.Len() != 0 {
		t.Errorf("partial chain = %v", res)
	}
	if got := testutil.ToFloat64(runsTotal.WithLabelValues(outcomeFailed)); got != before+1 {
		t.Errorf("failed runs = %v, want %v", got, before+1)
	}
}

func TestRunMetrics(t *testing.T) {
	learners := simulatedLearners(t, 40, 10)
	iters := testutil.ToFloat64(iterationsTotal.WithLabelValues("enum"))
	runs := testutil.ToFloat64(runsTotal.WithLabelValues(outcomeCompleted))

	s := newSampler(t, Config{MaxIter: 7, Strategy: ExactEnumeration{}})
	res, err := s.Run(context.Background(), testTheta, learners)
	if err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(iterationsTotal.WithLabelValues("enum")); got != iters+7 {
		t.Errorf("iterations = %v, want %v", got, iters+7)
	}
	if got := testutil.ToFloat64(runsTotal.WithLabelValues(outcomeCompleted)); got != runs+1 {
		t.Errorf("completed runs = %v, want %v", got, runs+1)
	}
	if got := testutil.ToFloat64(patternsGauge); got != float64(res.Patterns) {
		t.Errorf("patterns gauge = %v, want %d", got, res.Patterns)
	}
}

func TestEstimate(t *testing.T) {
	events := mastery.Simulate(testTheta, mastery.SimulationConfig{Learners: 300}, NewSource(12))
	s := newSampler(t, Config{MaxIter: 200})

	res, est, err := s.Estimate(context.Background(), testTheta, events)
	if err != nil {
		t.Fatal(err)
	}
	if res.Chain.Len() != 200 {
		t.Errorf("chain length = %d", res.Chain.Len())
	}
	if err := est.Validate(); err != nil {
		t.Errorf("estimate %+v: %v", est, err)
	}
}

func TestEstimateBadEvents(t *testing.T) {
	s := newSampler(t, Config{MaxIter: 2})
	events := []mastery.Event{{LearnerID: 1, Time: 1, Active: true}}
	if _, _, err := s.Estimate(context.Background(), testTheta, events); !errors.Is(err, mastery.ErrTimeGap) {
		t.Errorf("error = %v, want ErrTimeGap", err)
	}
}

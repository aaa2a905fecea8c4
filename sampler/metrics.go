package sampler

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("mastery.sampler")

// Run outcomes recorded in runsTotal.
const (
	outcomeCompleted = "completed"
	outcomeCancelled = "cancelled"
	outcomeFailed    = "failed"
)

var (
	iterationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mastery_sampler_iterations_total",
		Help: "Gibbs iterations completed, by strategy",
	}, []string{"strategy"})

	iterationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mastery_sampler_iteration_duration_seconds",
		Help:    "Duration of one Gibbs iteration",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
	}, []string{"strategy"})

	patternsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mastery_sampler_patterns",
		Help: "Distinct observation patterns in the most recent run",
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mastery_sampler_runs_total",
		Help: "Sampler runs by outcome",
	}, []string{"outcome"})
)

// startRunSpan creates the span covering one sampler run.
func startRunSpan(ctx context.Context, runID, strategy string, learners, patterns, maxIter int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Sampler.Run",
		trace.WithAttributes(
			attribute.String("sampler.run_id", runID),
			attribute.String("sampler.strategy", strategy),
			attribute.Int("sampler.learners", learners),
			attribute.Int("sampler.patterns", patterns),
			attribute.Int("sampler.max_iter", maxIter),
		),
	)
}

// startIterationSpan creates the span covering one Gibbs iteration.
func startIterationSpan(ctx context.Context, iter int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Sampler.iteration", trace.WithAttributes(attribute.Int("sampler.iteration", iter)))
}

// endRunSpan records the outcome of a run on its span and in runsTotal.
func endRunSpan(span trace.Span, outcome string, iterations int, err error) {
	span.SetAttributes(
		attribute.String("sampler.outcome", outcome),
		attribute.Int("sampler.iterations", iterations),
	)
	if err != nil && outcome == outcomeFailed {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	runsTotal.WithLabelValues(outcome).Inc()
	span.End()
}

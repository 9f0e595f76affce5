package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("run-metrics")

// RunMetrics provides metrics collection for council run execution
type RunMetrics struct {
	runsStartedCounter    metric.Int64Counter
	runsCompletedCounter  metric.Int64Counter
	runsFailedCounter     metric.Int64Counter
	runDurationHistogram  metric.Float64Histogram
	stepDurationHistogram metric.Float64Histogram
	reworkCounter         metric.Int64Counter
	runsActiveGauge       metric.Int64UpDownCounter
}

// NewRunMetrics creates a new run metrics collector
func NewRunMetrics() (*RunMetrics, error) {
	runsStartedCounter, err := meter.Int64Counter(
		"councilos.runs.started",
		metric.WithDescription("Total number of council runs started"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	runsCompletedCounter, err := meter.Int64Counter(
		"councilos.runs.completed",
		metric.WithDescription("Total number of council runs completed successfully"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	runsFailedCounter, err := meter.Int64Counter(
		"councilos.runs.failed",
		metric.WithDescription("Total number of council runs that failed"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	runDurationHistogram, err := meter.Float64Histogram(
		"councilos.run.duration",
		metric.WithDescription("Duration of council run execution in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stepDurationHistogram, err := meter.Float64Histogram(
		"councilos.step.duration",
		metric.WithDescription("Duration of a single node step in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	reworkCounter, err := meter.Int64Counter(
		"councilos.evaluations.rework",
		metric.WithDescription("Number of evaluator verdicts that sent a draft back for rework"),
		metric.WithUnit("{verdict}"),
	)
	if err != nil {
		return nil, err
	}

	runsActiveGauge, err := meter.Int64UpDownCounter(
		"councilos.runs.active",
		metric.WithDescription("Number of currently active council runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		runsStartedCounter:    runsStartedCounter,
		runsCompletedCounter:  runsCompletedCounter,
		runsFailedCounter:     runsFailedCounter,
		runDurationHistogram:  runDurationHistogram,
		stepDurationHistogram: stepDurationHistogram,
		reworkCounter:         reworkCounter,
		runsActiveGauge:       runsActiveGauge,
	}, nil
}

// RecordRunStarted records a new council run start
func (rm *RunMetrics) RecordRunStarted(ctx context.Context, blueprintName, mode string) {
	rm.runsStartedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("blueprint.name", blueprintName),
			attribute.String("run.mode", mode),
		),
	)
	rm.runsActiveGauge.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("blueprint.name", blueprintName),
		),
	)
}

// RecordRunCompleted records a successful council run completion
func (rm *RunMetrics) RecordRunCompleted(ctx context.Context, blueprintName, mode string, duration time.Duration) {
	rm.runsCompletedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("blueprint.name", blueprintName),
			attribute.String("run.mode", mode),
			attribute.String("status", "completed"),
		),
	)
	rm.runDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("blueprint.name", blueprintName),
			attribute.String("status", "completed"),
		),
	)
	rm.runsActiveGauge.Add(ctx, -1,
		metric.WithAttributes(
			attribute.String("blueprint.name", blueprintName),
		),
	)
}

// RecordRunFailed records a failed council run
func (rm *RunMetrics) RecordRunFailed(ctx context.Context, blueprintName, mode, errorType string, duration time.Duration) {
	rm.runsFailedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("blueprint.name", blueprintName),
			attribute.String("run.mode", mode),
			attribute.String("status", "failed"),
			attribute.String("error.type", errorType),
		),
	)
	rm.runDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("blueprint.name", blueprintName),
			attribute.String("status", "failed"),
		),
	)
	rm.runsActiveGauge.Add(ctx, -1,
		metric.WithAttributes(
			attribute.String("blueprint.name", blueprintName),
		),
	)
}

// RecordStepDuration records how long a single node step took
func (rm *RunMetrics) RecordStepDuration(ctx context.Context, nodeID string, duration time.Duration) {
	rm.stepDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("node.id", nodeID),
		),
	)
}

// RecordRework records an evaluator verdict that sent the draft back
func (rm *RunMetrics) RecordRework(ctx context.Context, nodeID string) {
	rm.reworkCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("node.id", nodeID),
		),
	)
}

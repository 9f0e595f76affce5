package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMetrics_Creation(t *testing.T) {
	t.Run("successfully create run metrics", func(t *testing.T) {
		metrics, err := NewRunMetrics()
		require.NoError(t, err)
		assert.NotNil(t, metrics)
		assert.NotNil(t, metrics.runsStartedCounter)
		assert.NotNil(t, metrics.runsCompletedCounter)
		assert.NotNil(t, metrics.runsFailedCounter)
		assert.NotNil(t, metrics.runDurationHistogram)
		assert.NotNil(t, metrics.stepDurationHistogram)
		assert.NotNil(t, metrics.reworkCounter)
		assert.NotNil(t, metrics.runsActiveGauge)
	})
}

func TestRunMetrics_RecordRunStarted(t *testing.T) {
	metrics, err := NewRunMetrics()
	require.NoError(t, err)

	t.Run("record run start", func(t *testing.T) {
		ctx := context.Background()

		assert.NotPanics(t, func() {
			metrics.RecordRunStarted(ctx, "writing-council", "auto-pilot")
		})
	})

	t.Run("record multiple run starts", func(t *testing.T) {
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			metrics.RecordRunStarted(ctx, "writing-council", "supervised")
		}
	})
}

func TestRunMetrics_RecordRunCompleted(t *testing.T) {
	metrics, err := NewRunMetrics()
	require.NoError(t, err)

	t.Run("record run completion with duration", func(t *testing.T) {
		ctx := context.Background()

		assert.NotPanics(t, func() {
			metrics.RecordRunCompleted(ctx, "writing-council", "auto-pilot", 5*time.Second)
		})
	})
}

func TestRunMetrics_RecordRunFailed(t *testing.T) {
	metrics, err := NewRunMetrics()
	require.NoError(t, err)

	t.Run("record run failure with error type", func(t *testing.T) {
		ctx := context.Background()

		assert.NotPanics(t, func() {
			metrics.RecordRunFailed(ctx, "writing-council", "auto-pilot", "model_error", 2*time.Second)
		})
	})
}

func TestRunMetrics_StepAndRework(t *testing.T) {
	metrics, err := NewRunMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("record step duration", func(t *testing.T) {
		assert.NotPanics(t, func() {
			metrics.RecordStepDuration(ctx, "writer", 800*time.Millisecond)
		})
	})

	t.Run("record rework verdict", func(t *testing.T) {
		assert.NotPanics(t, func() {
			metrics.RecordRework(ctx, "critic")
		})
	})
}

package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(model Model, maxBytes int64) *Pipeline {
	return NewPipeline(NewValidator(maxBytes), NewInvokerWithModel(model, 0))
}

func TestPipelineRun(t *testing.T) {
	pipeline := newTestPipeline(&stubModel{scores: []float32{0.05, 0.85, 0.1}}, 0)

	prediction, upload, err := pipeline.Run(context.Background(), pngBytes(t, 300, 450), "image/png")
	require.NoError(t, err)

	assert.Equal(t, Normal, prediction.PredictedClass)
	assert.Equal(t, TierHigh, prediction.Tier)
	assert.Equal(t, 300, upload.Width)
	assert.Equal(t, 450, upload.Height)
}

func TestPipelineIdempotent(t *testing.T) {
	pipeline := newTestPipeline(&stubModel{scores: []float32{0.6, 0.3, 0.1}}, 0)
	data := pngBytes(t, 120, 90)

	first, _, err := pipeline.Run(context.Background(), data, "image/png")
	require.NoError(t, err)
	second, _, err := pipeline.Run(context.Background(), data, "image/png")
	require.NoError(t, err)

	assert.Equal(t, first.PredictedClass, second.PredictedClass)
	assert.Equal(t, first.Probabilities, second.Probabilities)
}

func TestPipelineRejectsBeforeInference(t *testing.T) {
	model := &stubModel{scores: []float32{1, 0, 0}}
	pipeline := newTestPipeline(model, 0)

	_, _, err := pipeline.Run(context.Background(), make([]byte, 15<<20), "image/png")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = pipeline.Run(context.Background(), pngBytes(t, 10, 10), "text/plain")
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Neither rejection may reach the model.
	assert.Equal(t, 0, model.calls)
}

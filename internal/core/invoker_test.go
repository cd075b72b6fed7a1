package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	scores []float32
	err    error
	delay  time.Duration
	calls  int
}

func (m *stubModel) Classify(input []float32) ([]float32, error) {
	m.calls++
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.scores, nil
}

func (m *stubModel) Info() ModelInfo {
	return ModelInfo{
		InputShape:  []int64{1, ImageSize, ImageSize, Channels},
		OutputShape: []int64{1, 3},
		Classes:     []string{"Adenocarcinoma", "Normal", "Squamous Cell Carcinoma"},
		ImageSize:   ImageSize,
	}
}

func (m *stubModel) Release() {}

func TestInvokerReturnsScoresAndElapsedTime(t *testing.T) {
	inv := NewInvokerWithModel(&stubModel{scores: []float32{0.2, 0.5, 0.3}}, 0)
	require.True(t, inv.Loaded())

	scores, elapsed, err := inv.Invoke(context.Background(), make([]float32, TensorLen))
	require.NoError(t, err)
	assert.Equal(t, []float32{0.2, 0.5, 0.3}, scores)
	assert.GreaterOrEqual(t, elapsed, 0.0)
}

func TestInvokerLoadFailure(t *testing.T) {
	loader := func(string) (Model, error) { return nil, errors.New("no such model") }
	inv := NewInvoker(loader, "/nonexistent", 0)

	assert.False(t, inv.Loaded())

	_, _, err := inv.Invoke(context.Background(), make([]float32, TensorLen))
	assert.ErrorIs(t, err, ErrModelUnavailable)

	_, err = inv.Info()
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestInvokerInferenceFailureKeepsHandle(t *testing.T) {
	model := &stubModel{err: errors.New("runtime crashed")}
	inv := NewInvokerWithModel(model, 0)

	_, _, err := inv.Invoke(context.Background(), make([]float32, TensorLen))
	assert.ErrorIs(t, err, ErrModelUnavailable)

	// A failed request must not unload the model handle.
	assert.True(t, inv.Loaded())

	model.err = nil
	model.scores = []float32{1, 0, 0}
	scores, _, err := inv.Invoke(context.Background(), make([]float32, TensorLen))
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, scores)
}

func TestInvokerTimeout(t *testing.T) {
	inv := NewInvokerWithModel(&stubModel{scores: []float32{1, 0, 0}, delay: 500 * time.Millisecond}, 20*time.Millisecond)

	_, _, err := inv.Invoke(context.Background(), make([]float32, TensorLen))
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestInvokerRespectsCallerContext(t *testing.T) {
	inv := NewInvokerWithModel(&stubModel{scores: []float32{1, 0, 0}, delay: 500 * time.Millisecond}, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := inv.Invoke(ctx, make([]float32, TensorLen))
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const DefaultInferenceTimeout = 30 * time.Second

// Invoker owns the process-wide model handle. The model is loaded exactly
// once at construction and never reloaded; a load failure is recorded so the
// health endpoint can distinguish "never loaded" from a transient inference
// failure.
type Invoker struct {
	model   Model
	loadErr error
	timeout time.Duration
}

func NewInvoker(loader ModelLoader, modelDir string, timeout time.Duration) *Invoker {
	if timeout <= 0 {
		timeout = DefaultInferenceTimeout
	}

	model, err := loader(modelDir)
	if err != nil {
		slog.Error("failed to load model", "model_dir", modelDir, "error", err)
		return &Invoker{loadErr: err, timeout: timeout}
	}

	slog.Info("model loaded", "model_dir", modelDir, "classes", model.Info().Classes)
	return &Invoker{model: model, timeout: timeout}
}

// NewInvokerWithModel wraps an already-constructed model. Used by tests and
// by callers that manage model construction themselves.
func NewInvokerWithModel(model Model, timeout time.Duration) *Invoker {
	if timeout <= 0 {
		timeout = DefaultInferenceTimeout
	}
	return &Invoker{model: model, timeout: timeout}
}

// Loaded reports whether the model handle is usable. It never runs inference.
func (inv *Invoker) Loaded() bool {
	return inv.model != nil
}

func (inv *Invoker) Info() (ModelInfo, error) {
	if inv.model == nil {
		return ModelInfo{}, fmt.Errorf("%w: %v", ErrModelUnavailable, inv.loadErr)
	}
	return inv.model.Info(), nil
}

type classifyResult struct {
	scores []float32
	err    error
}

// Invoke runs the model on a prepared tensor, returning the raw score vector
// and the wall-clock inference time in seconds. The elapsed time is purely
// observational. A call that fails or exceeds the timeout returns
// ErrModelUnavailable; the model handle itself is left intact for subsequent
// requests.
func (inv *Invoker) Invoke(ctx context.Context, input []float32) ([]float32, float64, error) {
	if inv.model == nil {
		return nil, 0, fmt.Errorf("%w: model not loaded: %v", ErrModelUnavailable, inv.loadErr)
	}

	ctx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan classifyResult, 1)
	go func() {
		scores, err := inv.model.Classify(input)
		done <- classifyResult{scores: scores, err: err}
	}()

	select {
	case res := <-done:
		elapsed := time.Since(start).Seconds()
		if res.err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrModelUnavailable, res.err)
		}
		return res.scores, elapsed, nil
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%w: inference did not complete within %s", ErrModelUnavailable, inv.timeout)
	}
}

func (inv *Invoker) Release() {
	if inv.model != nil {
		inv.model.Release()
	}
}

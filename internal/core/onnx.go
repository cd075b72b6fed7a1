package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	initOnce sync.Once
	initErr  error
)

// onnxSession is one execution slot: an ONNX session with its pre-allocated
// input/output tensors. The tensors are reused across calls, so a slot must
// never be used by two requests at once.
type onnxSession struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

func (s *onnxSession) destroy() {
	if s.input != nil {
		s.input.Destroy()
	}
	if s.output != nil {
		s.output.Destroy()
	}
	if s.session != nil {
		s.session.Destroy()
	}
}

type OnnxModel struct {
	pool     chan *onnxSession
	sessions []*onnxSession
	meta     ModelInfo
}

// LoadOnnxModel opens modelDir/model.onnx with the shapes and class list
// described by modelDir/model_metadata.json. poolSize controls how many
// inference calls may run concurrently; with the default of 1 all calls are
// serialized through a single execution slot.
func LoadOnnxModel(modelDir string, poolSize int) (Model, error) {
	initOnce.Do(func() {
		initErr = ort.InitializeEnvironment()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", initErr)
	}

	metaBytes, err := os.ReadFile(filepath.Join(modelDir, "model_metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read model metadata: %w", err)
	}

	var meta ModelInfo
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse model metadata: %w", err)
	}
	if len(meta.InputShape) == 0 || len(meta.OutputShape) == 0 {
		return nil, fmt.Errorf("model metadata is missing input or output shape")
	}
	if n := meta.OutputShape[len(meta.OutputShape)-1]; int(n) != len(meta.Classes) {
		return nil, fmt.Errorf("model metadata declares %d classes but output shape ends in %d", len(meta.Classes), n)
	}

	if poolSize < 1 {
		poolSize = 1
	}

	modelPath := filepath.Join(modelDir, "model.onnx")
	m := &OnnxModel{
		pool: make(chan *onnxSession, poolSize),
		meta: meta,
	}

	for i := 0; i < poolSize; i++ {
		s, err := newOnnxSession(modelPath, meta)
		if err != nil {
			m.Release()
			return nil, err
		}
		m.sessions = append(m.sessions, s)
		m.pool <- s
	}

	return m, nil
}

func newOnnxSession(modelPath string, meta ModelInfo) (*onnxSession, error) {
	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &onnxSession{session: session, input: inputTensor, output: outputTensor}, nil
}

func (m *OnnxModel) Classify(input []float32) ([]float32, error) {
	s := <-m.pool
	defer func() { m.pool <- s }()

	buf := s.input.GetData()
	if len(input) != len(buf) {
		return nil, fmt.Errorf("input has %d values, model expects %d", len(input), len(buf))
	}
	copy(buf, input)

	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("session run error: %w", err)
	}

	out := s.output.GetData()
	scores := make([]float32, len(out))
	copy(scores, out)
	return scores, nil
}

func (m *OnnxModel) Info() ModelInfo {
	return m.meta
}

func (m *OnnxModel) Release() {
	for _, s := range m.sessions {
		s.destroy()
	}
	m.sessions = nil
}

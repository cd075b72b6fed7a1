package core

// ModelType represents the kind of inference engine backing the classifier.
type ModelType string

const (
	OnnxCnn ModelType = "onnx_cnn"
)

// Model is an opaque inference engine: a fixed-shape float32 tensor in, one
// raw score per class (in training order) out. Implementations must be safe
// for concurrent Classify calls, serializing internally if the underlying
// runtime requires it.
type Model interface {
	Classify(input []float32) ([]float32, error)

	Info() ModelInfo

	Release()
}

// ModelInfo describes the loaded model for the model-info endpoint.
type ModelInfo struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
}

type ModelLoader func(modelDir string) (Model, error)

func NewModelLoaders(poolSize int) map[ModelType]ModelLoader {
	return map[ModelType]ModelLoader{
		OnnxCnn: func(modelDir string) (Model, error) {
			return LoadOnnxModel(modelDir, poolSize)
		},
	}
}

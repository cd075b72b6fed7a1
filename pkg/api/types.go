// Package api holds the wire types shared between the service and its
// clients.
package api

type ClassInfo struct {
	Emoji       string `json:"emoji"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Action      string `json:"action"`
	Severity    string `json:"severity"`
}

type ImageInfo struct {
	OriginalWidth  int    `json:"original_width"`
	OriginalHeight int    `json:"original_height"`
	Format         string `json:"format"`
}

type ReportPayload struct {
	Id       string `json:"id"`
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

type PredictResponse struct {
	Success        bool               `json:"success"`
	PredictedClass string             `json:"predicted_class"`
	Confidence     float64            `json:"confidence"`
	ConfidenceTier string             `json:"confidence_tier"`
	Probabilities  map[string]float64 `json:"probabilities"`
	ClassInfo      ClassInfo          `json:"class_info"`
	ProcessingTime float64            `json:"processing_time"`
	ImageInfo      ImageInfo          `json:"image_info"`
	Timestamp      string             `json:"timestamp"`
	Report         *ReportPayload     `json:"report,omitempty"`
}

// ErrorResponse is the stable failure envelope: every error, whatever its
// status code, carries this shape.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Version     string `json:"version"`
}

type ModelInfo struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
}

type ModelInfoResponse struct {
	Success   bool      `json:"success"`
	ModelInfo ModelInfo `json:"model_info"`
}

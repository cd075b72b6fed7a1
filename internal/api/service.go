package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"lungscan-backend/internal/core"
	"lungscan-backend/pkg/api"

	"github.com/go-chi/chi/v5"
)

const Version = "1.0.0"

// DiagnosisService exposes the prediction pipeline over HTTP.
type DiagnosisService struct {
	pipeline *core.Pipeline
	reports  *core.ReportAssembler
	maxBytes int64
}

func NewDiagnosisService(pipeline *core.Pipeline, maxBytes int64) *DiagnosisService {
	if maxBytes <= 0 {
		maxBytes = core.DefaultMaxUploadBytes
	}
	return &DiagnosisService{
		pipeline: pipeline,
		reports:  core.NewReportAssembler(),
		maxBytes: maxBytes,
	}
}

func (s *DiagnosisService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(s.Health))
	r.Get("/model-info", RestHandler(s.ModelInfo))
	r.Post("/predict", RestHandler(s.Predict))
	r.Post("/report", s.Report)
}

// Health reports whether the model handle is loaded. It never runs
// inference.
func (s *DiagnosisService) Health(r *http.Request) (any, error) {
	loaded := s.pipeline.Invoker().Loaded()
	status := "healthy"
	if !loaded {
		status = "degraded"
	}
	return api.HealthResponse{Status: status, ModelLoaded: loaded, Version: Version}, nil
}

func (s *DiagnosisService) ModelInfo(r *http.Request) (any, error) {
	info, err := s.pipeline.Invoker().Info()
	if err != nil {
		return nil, err
	}
	return api.ModelInfoResponse{
		Success: true,
		ModelInfo: api.ModelInfo{
			InputShape:  info.InputShape,
			OutputShape: info.OutputShape,
			Classes:     info.Classes,
			ImageSize:   info.ImageSize,
		},
	}, nil
}

type predictOptions struct {
	IncludeReport bool `schema:"include_report"`
}

func (s *DiagnosisService) Predict(r *http.Request) (any, error) {
	opts, err := ParseRequestQueryParams[predictOptions](r)
	if err != nil {
		return nil, err
	}

	data, contentType, err := s.readUpload(r)
	if err != nil {
		return nil, err
	}

	prediction, upload, err := s.pipeline.Run(r.Context(), data, contentType)
	if err != nil {
		return nil, err
	}

	slog.Info("prediction complete",
		"class", prediction.PredictedClass,
		"confidence", prediction.Confidence,
		"elapsed_seconds", prediction.ElapsedSeconds)

	resp := buildPredictResponse(prediction, upload)
	if opts.IncludeReport {
		report := s.reports.Assemble(prediction, upload)
		resp.Report = &api.ReportPayload{Id: report.Id, Filename: report.Filename, Text: report.Text}
	}
	return resp, nil
}

// Report runs the same pipeline as Predict but responds with the plain-text
// diagnostic report as a download.
func (s *DiagnosisService) Report(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.readUpload(r)
	if err != nil {
		WriteJsonError(w, statusCode(err), err.Error())
		return
	}

	prediction, upload, err := s.pipeline.Run(r.Context(), data, contentType)
	if err != nil {
		WriteJsonError(w, statusCode(err), err.Error())
		return
	}

	report := s.reports.Assemble(prediction, upload)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, report.Text); err != nil {
		slog.Error("error writing report response", "error", err)
	}
}

// readUpload extracts the image file field from a multipart request. The
// size check on the part header happens before the payload is read, so
// oversized uploads fail fast.
func (s *DiagnosisService) readUpload(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(s.maxBytes); err != nil {
		return nil, "", CodedErrorf(http.StatusBadRequest, "unable to parse multipart form: %v", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", CodedErrorf(http.StatusBadRequest, "no file uploaded, use 'file' as the form field name")
	}
	defer file.Close()

	if header.Size > s.maxBytes {
		return nil, "", fmt.Errorf("%w: file size %d bytes exceeds maximum of %d bytes", core.ErrInvalidInput, header.Size, s.maxBytes)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", CodedErrorf(http.StatusBadRequest, "unable to read uploaded file: %v", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func buildPredictResponse(prediction *core.Prediction, upload *core.UploadedImage) *api.PredictResponse {
	probabilities := make(map[string]float64, len(prediction.Probabilities))
	for label, p := range prediction.Probabilities {
		probabilities[string(label)] = p
	}

	info := core.Metadata(prediction.PredictedClass)

	return &api.PredictResponse{
		Success:        true,
		PredictedClass: string(prediction.PredictedClass),
		Confidence:     prediction.Confidence,
		ConfidenceTier: prediction.Tier,
		Probabilities:  probabilities,
		ClassInfo: api.ClassInfo{
			Emoji:       info.Emoji,
			Color:       info.Color,
			Description: info.Description,
			Action:      info.Action,
			Severity:    info.Severity,
		},
		ProcessingTime: prediction.ElapsedSeconds,
		ImageInfo: api.ImageInfo{
			OriginalWidth:  upload.Width,
			OriginalHeight: upload.Height,
			Format:         upload.Format,
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

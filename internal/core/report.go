package core

import (
	"fmt"
	"strings"
	"time"
)

const reportDisclaimer = `This AI analysis is for assistance only. Final diagnosis
must be made by qualified medical professionals.`

// DiagnosticReport is the downloadable text rendering of one prediction.
type DiagnosticReport struct {
	Id       string
	Filename string
	Text     string
}

// ReportAssembler renders predictions into plain-text diagnostic reports.
// Purely additive: it never mutates the prediction it formats.
type ReportAssembler struct {
	now func() time.Time
}

func NewReportAssembler() *ReportAssembler {
	return &ReportAssembler{now: time.Now}
}

// Assemble builds the report for a prediction. The report identifier is
// derived from the generation timestamp; uniqueness is best-effort and the
// identifier is never used as a storage key.
func (a *ReportAssembler) Assemble(prediction *Prediction, upload *UploadedImage) *DiagnosticReport {
	now := a.now()
	id := fmt.Sprintf("lung_cancer_report_%s", now.Format("20060102_150405"))
	info := Metadata(prediction.PredictedClass)

	var b strings.Builder
	b.WriteString("LUNG CANCER AI DIAGNOSIS REPORT\n")
	b.WriteString("================================\n\n")
	fmt.Fprintf(&b, "Report ID: %s\n", id)
	fmt.Fprintf(&b, "Analysis Date: %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "Analysis Time: %s\n\n", now.Format("15:04:05"))

	fmt.Fprintf(&b, "DIAGNOSIS: %s\n", prediction.PredictedClass)
	fmt.Fprintf(&b, "Confidence: %.1f%% (%s)\n\n", prediction.Confidence, prediction.Tier)

	b.WriteString("PROBABILITY DISTRIBUTION:\n")
	for _, label := range classLabels {
		fmt.Fprintf(&b, "- %s: %.2f%%\n", label, prediction.Probabilities[label])
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "IMAGE: %dx%d %s, inference time %.3fs\n\n",
		upload.Width, upload.Height, upload.Format, prediction.ElapsedSeconds)

	b.WriteString("RECOMMENDED ACTION:\n")
	b.WriteString(info.Action)
	b.WriteString("\n\n")

	b.WriteString("DISCLAIMER:\n")
	b.WriteString(reportDisclaimer)
	b.WriteString("\n")

	return &DiagnosticReport{
		Id:       id,
		Filename: id + ".txt",
		Text:     b.String(),
	}
}

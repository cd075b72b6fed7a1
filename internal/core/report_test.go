package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedAssembler(ts time.Time) *ReportAssembler {
	return &ReportAssembler{now: func() time.Time { return ts }}
}

func samplePrediction() *Prediction {
	return &Prediction{
		PredictedClass: Adenocarcinoma,
		Confidence:     92.3,
		Tier:           TierVeryHigh,
		Probabilities: map[ClassLabel]float64{
			Adenocarcinoma:        92.31,
			Normal:                4.52,
			SquamousCellCarcinoma: 3.17,
		},
		ElapsedSeconds: 0.084,
	}
}

func TestReportContents(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	upload := &UploadedImage{Width: 768, Height: 512, Format: "PNG"}
	prediction := samplePrediction()

	report := fixedAssembler(ts).Assemble(prediction, upload)

	assert.Equal(t, "lung_cancer_report_20240115_103000", report.Id)
	assert.Equal(t, "lung_cancer_report_20240115_103000.txt", report.Filename)

	assert.Contains(t, report.Text, "LUNG CANCER AI DIAGNOSIS REPORT")
	assert.Contains(t, report.Text, "DIAGNOSIS: Adenocarcinoma")
	assert.Contains(t, report.Text, "Confidence: 92.3% (Very High)")
	assert.Contains(t, report.Text, "Analysis Date: 2024-01-15")
	assert.Contains(t, report.Text, "768x512 PNG")
	assert.Contains(t, report.Text, "Immediate consultation with oncologist recommended.")
	assert.Contains(t, report.Text, "DISCLAIMER:")

	// One probability line per class, in declared order.
	adIdx := strings.Index(report.Text, "- Adenocarcinoma: 92.31%")
	normalIdx := strings.Index(report.Text, "- Normal: 4.52%")
	sccIdx := strings.Index(report.Text, "- Squamous Cell Carcinoma: 3.17%")
	require.True(t, adIdx >= 0 && normalIdx >= 0 && sccIdx >= 0)
	assert.Less(t, adIdx, normalIdx)
	assert.Less(t, normalIdx, sccIdx)
}

func TestReportDoesNotMutatePrediction(t *testing.T) {
	ts := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	prediction := samplePrediction()
	before := *prediction

	fixedAssembler(ts).Assemble(prediction, &UploadedImage{Width: 10, Height: 10, Format: "JPEG"})

	assert.Equal(t, before.PredictedClass, prediction.PredictedClass)
	assert.Equal(t, before.Confidence, prediction.Confidence)
	assert.Equal(t, before.Probabilities, prediction.Probabilities)
}

func TestReportIdsFollowTimestamps(t *testing.T) {
	upload := &UploadedImage{Width: 1, Height: 1, Format: "PNG"}
	prediction := samplePrediction()

	first := fixedAssembler(time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC)).Assemble(prediction, upload)
	second := fixedAssembler(time.Date(2024, 1, 1, 0, 0, 2, 0, time.UTC)).Assemble(prediction, upload)

	assert.NotEqual(t, first.Id, second.Id)
}

package core

// ClassLabel identifies one of the tissue classes the model was trained on.
type ClassLabel string

const (
	Adenocarcinoma        ClassLabel = "Adenocarcinoma"
	Normal                ClassLabel = "Normal"
	SquamousCellCarcinoma ClassLabel = "Squamous Cell Carcinoma"
)

// classLabels is the training-time class order. Model output scores are
// aligned with this order, and argmax ties are broken by it.
var classLabels = []ClassLabel{
	Adenocarcinoma,
	Normal,
	SquamousCellCarcinoma,
}

func Labels() []ClassLabel {
	labels := make([]ClassLabel, len(classLabels))
	copy(labels, classLabels)
	return labels
}

// ClassMetadata holds the static presentation and guidance text for a class.
type ClassMetadata struct {
	Emoji       string `json:"emoji"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Action      string `json:"action"`
	Severity    string `json:"severity"`
}

var classInfo = map[ClassLabel]ClassMetadata{
	Adenocarcinoma: {
		Emoji:       "🔴",
		Color:       "#FF6B6B",
		Description: "A type of non-small cell lung cancer that begins in mucus-secreting cells.",
		Action:      "Immediate consultation with oncologist recommended.",
		Severity:    "high",
	},
	SquamousCellCarcinoma: {
		Emoji:       "🟠",
		Color:       "#FF8C42",
		Description: "A type of non-small cell lung cancer that begins in flat cells lining the airways.",
		Action:      "Immediate consultation with oncologist recommended.",
		Severity:    "high",
	},
	Normal: {
		Emoji:       "🟢",
		Color:       "#51CF66",
		Description: "Healthy lung tissue with no signs of malignancy.",
		Action:      "No immediate action required. Continue regular monitoring.",
		Severity:    "low",
	},
}

// Metadata returns the static info for a label. The table covers every label
// in classLabels, so the lookup never misses for labels produced by the
// interpreter.
func Metadata(label ClassLabel) ClassMetadata {
	return classInfo[label]
}

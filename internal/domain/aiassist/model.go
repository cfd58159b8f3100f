package aiassist

import "github.com/carepoint/hms/internal/platform/llm"

// DiagnosisRequest carries the clinical context a doctor submits for a
// diagnosis suggestion.
type DiagnosisRequest struct {
	PatientID       string `json:"patientId"`
	CurrentSymptoms string `json:"currentSymptoms"`
	HistoricalData  string `json:"historicalData"`
	LabReports      string `json:"labReports"`
	DoctorNotes     string `json:"doctorNotes"`
}

type DiagnosisResult struct {
	DiagnosisSuggestion string  `json:"diagnosisSuggestion"`
	ConfidenceLevel     float64 `json:"confidenceLevel"`
	FactorsForConcern   *string `json:"factorsForConcern,omitempty"`
	SuggestedTreatment  *string `json:"suggestedTreatment,omitempty"`
}

type LabReportRequest struct {
	TestName string `json:"testName"`
}

// Analyte is one measured value in a lab report.
type Analyte struct {
	Analyte        string `json:"analyte"`
	Result         string `json:"result"`
	ReferenceRange string `json:"referenceRange"`
}

type LabReportResult struct {
	Results        []Analyte `json:"results"`
	Interpretation string    `json:"interpretation"`
}

var diagnosisSchema = llm.MustSchema(
	"diagnosis_result",
	"Record a diagnosis suggestion for the patient described in the prompt.",
	map[string]any{
		"diagnosisSuggestion": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "The AI-generated diagnosis suggestion.",
		},
		"confidenceLevel": map[string]any{
			"type":        "number",
			"minimum":     0,
			"maximum":     1,
			"description": "A number between 0 and 1 indicating the confidence level of the diagnosis suggestion.",
		},
		"factorsForConcern": map[string]any{
			"type":        "string",
			"description": "Factors that should cause more concern, based on probabilities.",
		},
		"suggestedTreatment": map[string]any{
			"type":        "string",
			"description": "The suggested treatment for the patient.",
		},
	},
	"diagnosisSuggestion", "confidenceLevel",
)

var labReportSchema = llm.MustSchema(
	"lab_report_result",
	"Record the generated results and interpretation for the requested lab test.",
	map[string]any{
		"results": map[string]any{
			"type":        "array",
			"minItems":    1,
			"description": "The analytes measured by the test, in report order.",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"analyte":        map[string]any{"type": "string", "pattern": `\S`, "description": "Name of the measured analyte."},
					"result":         map[string]any{"type": "string", "pattern": `\S`, "description": "Measured value with unit."},
					"referenceRange": map[string]any{"type": "string", "minLength": 1, "description": "Normal reference range with unit."},
				},
				"required": []string{"analyte", "result", "referenceRange"},
			},
		},
		"interpretation": map[string]any{
			"type":        "string",
			"pattern":     `\S`,
			"description": "A short clinical interpretation of the results.",
		},
	},
	"results", "interpretation",
)

// DiagnosisSchema returns the schema diagnosis results are validated against.
func DiagnosisSchema() *llm.Schema { return diagnosisSchema }

// LabReportSchema returns the schema lab report results are validated against.
func LabReportSchema() *llm.Schema { return labReportSchema }

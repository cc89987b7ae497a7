package evaluation

import (
	"time"

	"github.com/medtriage/backend/internal/domain/entities"
)

// GoldenCase is one labeled triage scenario with its expected care level
// and, optionally, a subset of conditions the matcher must surface.
type GoldenCase struct {
	ID                 string                            `json:"id"`
	Symptoms           []string                          `json:"symptoms"`
	PatientInfo        entities.PatientInfo              `json:"patient_info"`
	SymptomDetails     map[string]entities.SymptomDetail `json:"symptom_details,omitempty"`
	ExpectedLevel      entities.CareLevel                `json:"expected_care_level"`
	ExpectedConditions []string                          `json:"expected_conditions,omitempty"`
	Difficulty         string                            `json:"difficulty"` // easy, medium, hard
}

// CaseResult holds the evaluation outcome for a single case.
type CaseResult struct {
	CaseID          string
	ExpectedLevel   entities.CareLevel
	PredictedLevel  entities.CareLevel
	RiskScore       int
	Correct         bool
	OverTriaged     bool
	UnderTriaged    bool
	ConditionRecall float64
	Latency         time.Duration
}

// Summary holds aggregate metrics across all golden cases.
//
// Under-triage is the metric that matters clinically: a missed
// emergency is worse than an unnecessary escalation.
type Summary struct {
	TotalCases         int
	Correct            int
	Accuracy           float64
	OverTriageRate     float64
	UnderTriageRate    float64
	AvgConditionRecall float64
	AvgLatency         time.Duration
	ByLevel            map[entities.CareLevel]*LevelSummary
	Failures           []CaseResult
}

// LevelSummary holds metrics grouped by expected care level.
type LevelSummary struct {
	Count    int
	Correct  int
	Accuracy float64
}

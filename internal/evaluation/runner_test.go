package evaluation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtriage/backend/internal/application/services"
	"github.com/medtriage/backend/internal/domain/entities"
	"github.com/medtriage/backend/internal/evaluation"
	"github.com/medtriage/backend/internal/knowledge"
)

func TestRunner_Run(t *testing.T) {
	base := knowledge.Default()
	runner := evaluation.NewRunner(services.NewRiskService(base))
	runner.SetConditionMatcher(services.NewConditionService(base))
	ctx := context.Background()

	cases := []evaluation.GoldenCase{
		{
			ID:                 "routine-cold",
			Symptoms:           []string{"runny_nose", "sore_throat"},
			PatientInfo:        entities.PatientInfo{Age: 30},
			ExpectedLevel:      entities.CareLevelRoutine,
			ExpectedConditions: []string{"common_cold", "flu"},
			Difficulty:         "easy",
		},
		{
			ID:            "emergency-chest",
			Symptoms:      []string{"severe_chest_pain", "difficulty_breathing"},
			PatientInfo:   entities.PatientInfo{Age: 45},
			ExpectedLevel: entities.CareLevelEmergency,
			Difficulty:    "easy",
		},
		{
			ID:       "moderate-headache",
			Symptoms: []string{"headache"},
			SymptomDetails: map[string]entities.SymptomDetail{
				"headache": {Severity: 8},
			},
			PatientInfo:   entities.PatientInfo{Age: 25},
			ExpectedLevel: entities.CareLevelModerate,
			// migraine is in the table, appendicitis is not: recall 0.5.
			ExpectedConditions: []string{"migraine", "appendicitis"},
			Difficulty:         "easy",
		},
		{
			// Scores urgent, labeled emergency: an under-triage.
			ID:       "mislabeled-case",
			Symptoms: []string{"headache", "nausea"},
			PatientInfo: entities.PatientInfo{
				Age:            30,
				MedicalHistory: []string{"heart_disease", "diabetes", "hypertension"},
			},
			SymptomDetails: map[string]entities.SymptomDetail{
				"headache": {Severity: 9},
				"nausea":   {Severity: 8},
			},
			ExpectedLevel: entities.CareLevelEmergency,
			Difficulty:    "hard",
		},
	}

	summary, err := runner.Run(ctx, cases)

	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalCases)
	assert.Equal(t, 3, summary.Correct)
	assert.InDelta(t, 0.75, summary.Accuracy, 0.001)
	assert.InDelta(t, 0.25, summary.UnderTriageRate, 0.001)
	assert.Equal(t, 0.0, summary.OverTriageRate)
	assert.InDelta(t, 0.75, summary.AvgConditionRecall, 0.001)

	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "mislabeled-case", summary.Failures[0].CaseID)
	assert.Equal(t, entities.CareLevelUrgent, summary.Failures[0].PredictedLevel)
	assert.True(t, summary.Failures[0].UnderTriaged)

	require.Contains(t, summary.ByLevel, entities.CareLevelEmergency)
	assert.Equal(t, 2, summary.ByLevel[entities.CareLevelEmergency].Count)
	assert.Equal(t, 1, summary.ByLevel[entities.CareLevelEmergency].Correct)
	assert.InDelta(t, 0.5, summary.ByLevel[entities.CareLevelEmergency].Accuracy, 0.001)
}

func TestRunner_Run_Empty(t *testing.T) {
	runner := evaluation.NewRunner(services.NewRiskService(knowledge.Default()))

	summary, err := runner.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalCases)
	assert.Equal(t, 0.0, summary.Accuracy)
}

package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtriage/backend/internal/api/handlers"
	"github.com/medtriage/backend/internal/application/services"
	"github.com/medtriage/backend/internal/domain/entities"
	"github.com/medtriage/backend/internal/knowledge"
)

func newTriageHandler() *handlers.TriageHandler {
	base := knowledge.Default()
	conditions := services.NewConditionService(base)
	patterns := services.NewPatternService()
	risk := services.NewRiskService(base)
	recommendations := services.NewRecommendationService(base)
	intake := services.NewIntakeService(conditions, patterns, risk, recommendations, nil)
	return handlers.NewTriageHandler(conditions, patterns, risk, recommendations, intake)
}

func TestTriageHandler_MatchConditions(t *testing.T) {
	handler := newTriageHandler()

	t.Run("returns matches for known symptoms", func(t *testing.T) {
		body := `{"symptoms":["fever","cough"]}`
		req := httptest.NewRequest("POST", "/api/triage/conditions", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.MatchConditions(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response entities.ConditionMatch
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Contains(t, response.PossibleConditions, "flu")
		assert.False(t, response.RequiresImmediateAttention)
	})

	t.Run("red flag symptoms set the immediate flag", func(t *testing.T) {
		body := `{"symptoms":["severe_chest_pain"]}`
		req := httptest.NewRequest("POST", "/api/triage/conditions", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.MatchConditions(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response entities.ConditionMatch
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.True(t, response.RequiresImmediateAttention)
	})

	t.Run("empty symptoms are a bad request", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/triage/conditions", strings.NewReader(`{"symptoms":[]}`))
		w := httptest.NewRecorder()

		handler.MatchConditions(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/triage/conditions", strings.NewReader(`{`))
		w := httptest.NewRecorder()

		handler.MatchConditions(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTriageHandler_ClarificationQuestions(t *testing.T) {
	handler := newTriageHandler()

	t.Run("returns the question set", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/triage/questions?symptom=chest_pain", nil)
		w := httptest.NewRecorder()

		handler.ClarificationQuestions(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Symptom   string   `json:"symptom"`
			Questions []string `json:"questions"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "chest_pain", response.Symptom)
		assert.Len(t, response.Questions, 4)
	})

	t.Run("missing symptom is a bad request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/triage/questions", nil)
		w := httptest.NewRecorder()

		handler.ClarificationQuestions(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTriageHandler_AnalyzePattern(t *testing.T) {
	handler := newTriageHandler()

	body := `{"symptom_details":{"chest_pain":{"severity":3},"shortness_of_breath":{"severity":2}}}`
	req := httptest.NewRequest("POST", "/api/triage/pattern", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.AnalyzePattern(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entities.PatternAnalysis
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, entities.CareLevelEmergency, response.UrgencyLevel)
	assert.Contains(t, response.ConcerningCombinations, "chest_pain_with_breathing_difficulty")
}

func TestTriageHandler_AssessRisk(t *testing.T) {
	handler := newTriageHandler()

	body := `{"symptoms":["severe_chest_pain"],"patient_info":{"age":45}}`
	req := httptest.NewRequest("POST", "/api/triage/risk", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.AssessRisk(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entities.RiskAssessment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, entities.CareLevelEmergency, response.CareLevel)
	assert.Equal(t, 1, response.RedFlagCount)
	assert.True(t, response.ImmediateAttentionRequired)
}

func TestTriageHandler_GenerateRecommendations(t *testing.T) {
	handler := newTriageHandler()

	body := `{"care_level":"urgent","possible_conditions":["pneumonia"]}`
	req := httptest.NewRequest("POST", "/api/triage/recommendations", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.GenerateRecommendations(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entities.RecommendationSet
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, entities.CareLevelUrgent, response.CareLevel)
	assert.Equal(t, "Seek medical attention within 24 hours", response.PrimaryRecommendations[0])
	assert.Contains(t, response.AdditionalRecommendations, "For pneumonia: See a doctor promptly")
	assert.Equal(t, "Within 24 hours", response.FollowUpTimeline)
}

func TestTriageHandler_Intake(t *testing.T) {
	handler := newTriageHandler()

	body := `{
		"symptoms": ["fever", "cough"],
		"patient_info": {"age": 70, "medical_history": ["diabetes"]},
		"symptom_details": {"fever": {"severity": 6, "duration": "2 days"}}
	}`
	req := httptest.NewRequest("POST", "/api/triage/intake", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Intake(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Conditions      *entities.ConditionMatch    `json:"condition_match"`
		Pattern         *entities.PatternAnalysis   `json:"pattern_analysis"`
		Risk            *entities.RiskAssessment    `json:"risk_assessment"`
		Recommendations *entities.RecommendationSet `json:"recommendations"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.NotNil(t, response.Risk)
	assert.Equal(t, entities.CareLevelModerate, response.Risk.CareLevel)
	require.NotNil(t, response.Pattern)
	require.NotNil(t, response.Recommendations)
	assert.Contains(t, response.Conditions.PossibleConditions, "flu")
}

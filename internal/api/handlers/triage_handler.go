package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/medtriage/backend/internal/application/services"
	"github.com/medtriage/backend/internal/domain/entities"
)

// TriageHandler serves the triage analysis endpoints.
type TriageHandler struct {
	conditions      *services.ConditionService
	patterns        *services.PatternService
	risk            *services.RiskService
	recommendations *services.RecommendationService
	intake          *services.IntakeService
}

// NewTriageHandler creates a new triage handler.
func NewTriageHandler(
	conditions *services.ConditionService,
	patterns *services.PatternService,
	risk *services.RiskService,
	recommendations *services.RecommendationService,
	intake *services.IntakeService,
) *TriageHandler {
	return &TriageHandler{
		conditions:      conditions,
		patterns:        patterns,
		risk:            risk,
		recommendations: recommendations,
		intake:          intake,
	}
}

type conditionsRequest struct {
	Symptoms []string `json:"symptoms"`
}

// MatchConditions handles POST /api/triage/conditions
func (h *TriageHandler) MatchConditions(w http.ResponseWriter, r *http.Request) {
	var payload conditionsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.conditions.MatchConditions(r.Context(), payload.Symptoms)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ClarificationQuestions handles GET /api/triage/questions?symptom=
func (h *TriageHandler) ClarificationQuestions(w http.ResponseWriter, r *http.Request) {
	symptom := strings.TrimSpace(r.URL.Query().Get("symptom"))
	if symptom == "" {
		respondWithError(w, http.StatusBadRequest, "symptom query parameter is required")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"symptom":   symptom,
		"questions": h.conditions.ClarificationQuestions(symptom),
	})
}

type patternRequest struct {
	SymptomDetails map[string]entities.SymptomDetail `json:"symptom_details"`
}

// AnalyzePattern handles POST /api/triage/pattern
func (h *TriageHandler) AnalyzePattern(w http.ResponseWriter, r *http.Request) {
	var payload patternRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.patterns.AnalyzePattern(r.Context(), payload.SymptomDetails)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

type riskRequest struct {
	Symptoms       []string                          `json:"symptoms"`
	PatientInfo    entities.PatientInfo              `json:"patient_info"`
	SymptomDetails map[string]entities.SymptomDetail `json:"symptom_details,omitempty"`
}

// AssessRisk handles POST /api/triage/risk
func (h *TriageHandler) AssessRisk(w http.ResponseWriter, r *http.Request) {
	var payload riskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.risk.AssessRisk(r.Context(), payload.Symptoms, payload.PatientInfo, payload.SymptomDetails)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

type recommendationsRequest struct {
	CareLevel                  entities.CareLevel `json:"care_level"`
	ImmediateAttentionRequired bool               `json:"immediate_attention_required"`
	PossibleConditions         []string           `json:"possible_conditions,omitempty"`
}

// GenerateRecommendations handles POST /api/triage/recommendations
func (h *TriageHandler) GenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	var payload recommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	risk := &entities.RiskAssessment{
		CareLevel:                  payload.CareLevel,
		ImmediateAttentionRequired: payload.ImmediateAttentionRequired,
	}

	result, err := h.recommendations.GenerateRecommendations(r.Context(), risk, payload.PossibleConditions)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Intake handles POST /api/triage/intake
func (h *TriageHandler) Intake(w http.ResponseWriter, r *http.Request) {
	var payload services.IntakeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.intake.Run(r.Context(), payload)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

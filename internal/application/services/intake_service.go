package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/medtriage/backend/internal/domain/entities"
	apperrors "github.com/medtriage/backend/pkg/errors"
)

// IntakeRequest is the full intake payload: reported symptoms plus
// optional demographics, per-symptom detail and a patient name to file
// the visit under.
type IntakeRequest struct {
	Symptoms       []string                          `json:"symptoms"`
	PatientInfo    entities.PatientInfo              `json:"patient_info"`
	SymptomDetails map[string]entities.SymptomDetail `json:"symptom_details,omitempty"`
	PatientName    string                            `json:"patient_name,omitempty"`
}

// IntakeResult bundles the outputs of the full triage pipeline.
type IntakeResult struct {
	Conditions      *entities.ConditionMatch    `json:"condition_match"`
	Pattern         *entities.PatternAnalysis   `json:"pattern_analysis,omitempty"`
	Risk            *entities.RiskAssessment    `json:"risk_assessment"`
	Recommendations *entities.RecommendationSet `json:"recommendations"`
	Visit           *entities.VisitNote         `json:"visit,omitempty"`
}

// IntakeService runs the full triage pipeline in one call: condition
// matching, pattern analysis, risk scoring and recommendations, with an
// optional visit note appended to the named patient's record.
type IntakeService struct {
	conditions      *ConditionService
	patterns        *PatternService
	risk            *RiskService
	recommendations *RecommendationService
	patients        *PatientService
}

// NewIntakeService creates a new intake service. The patient service may
// be nil, in which case visit saving is skipped.
func NewIntakeService(
	conditions *ConditionService,
	patterns *PatternService,
	risk *RiskService,
	recommendations *RecommendationService,
	patients *PatientService,
) *IntakeService {
	return &IntakeService{
		conditions:      conditions,
		patterns:        patterns,
		risk:            risk,
		recommendations: recommendations,
		patients:        patients,
	}
}

// Run executes the pipeline. Pattern analysis only runs when symptom
// details are supplied. A failed visit save does not fail the intake;
// the triage result is still returned.
func (s *IntakeService) Run(ctx context.Context, req IntakeRequest) (*IntakeResult, error) {
	if len(req.Symptoms) == 0 {
		return nil, apperrors.NewValidationError("No symptoms provided for intake")
	}

	match, err := s.conditions.MatchConditions(ctx, req.Symptoms)
	if err != nil {
		return nil, err
	}

	var pattern *entities.PatternAnalysis
	if len(req.SymptomDetails) > 0 {
		pattern, err = s.patterns.AnalyzePattern(ctx, req.SymptomDetails)
		if err != nil {
			return nil, err
		}
	}

	risk, err := s.risk.AssessRisk(ctx, req.Symptoms, req.PatientInfo, req.SymptomDetails)
	if err != nil {
		return nil, err
	}

	recs, err := s.recommendations.GenerateRecommendations(ctx, risk, match.PossibleConditions)
	if err != nil {
		return nil, err
	}

	result := &IntakeResult{
		Conditions:      match,
		Pattern:         pattern,
		Risk:            risk,
		Recommendations: recs,
	}

	if s.patients != nil && strings.TrimSpace(req.PatientName) != "" {
		assessment := string(risk.CareLevel)
		summary := strings.Join(recs.PrimaryRecommendations, "; ")
		visit, err := s.patients.SaveVisit(ctx, req.PatientName, match.SymptomsAnalyzed, assessment, summary)
		if err != nil {
			log.Warn().Err(err).Str("patient", req.PatientName).Msg("intake visit save failed")
		} else {
			result.Visit = visit
		}
	}

	return result, nil
}

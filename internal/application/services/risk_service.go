package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/medtriage/backend/internal/domain/entities"
	"github.com/medtriage/backend/internal/knowledge"
	apperrors "github.com/medtriage/backend/pkg/errors"
)

// Scoring weights and care-level thresholds. The score is accumulated
// before the age multiplier is applied; thresholds apply to the
// multiplied, truncated score.
const (
	redFlagScore          = 10
	historyScore          = 3
	highSeverityScore     = 5
	moderateSeverityScore = 2

	highSeverityFloor     = 8
	moderateSeverityFloor = 6

	emergencyScoreThreshold = 20
	urgentScoreThreshold    = 10
	moderateScoreThreshold  = 5
)

// RiskService computes a deterministic risk assessment from symptoms,
// demographics and optional per-symptom severity detail.
type RiskService struct {
	base *knowledge.Base
}

// NewRiskService creates a new risk service.
func NewRiskService(base *knowledge.Base) *RiskService {
	return &RiskService{base: base}
}

// AssessRisk scores the patient's risk and classifies the care level.
// Risk-factor notes are assembled in a fixed category order: age, red
// flags (input order), medical history (input order), severity (sorted
// symptom order).
func (s *RiskService) AssessRisk(ctx context.Context, symptoms []string, info entities.PatientInfo, details map[string]entities.SymptomDetail) (*entities.RiskAssessment, error) {
	if len(symptoms) == 0 {
		return nil, apperrors.NewValidationError("No symptoms provided for risk assessment")
	}

	score := 0
	riskFactors := []string{}

	ageMultiplier := 1.0
	if band, ok := s.base.AgeBandFor(info.Age); ok {
		ageMultiplier = band.RiskMultiplier
		if ageMultiplier > 1.0 {
			riskFactors = append(riskFactors, fmt.Sprintf("Age group (%s) increases risk", band.Name))
		}
	}

	redFlagCount := 0
	for _, symptom := range symptoms {
		if s.base.IsRedFlag(symptom) {
			redFlagCount++
			score += redFlagScore
			riskFactors = append(riskFactors, fmt.Sprintf("Red flag symptom: %s", symptom))
		}
	}

	for _, condition := range info.MedicalHistory {
		if s.base.IsHighRiskHistory(condition) {
			score += historyScore
			riskFactors = append(riskFactors, fmt.Sprintf("Medical history: %s", condition))
		}
	}

	for _, symptom := range sortedKeys(details) {
		detail := details[symptom]
		severity, ok := detail.ParsedSeverity()
		if !ok {
			continue
		}
		switch {
		case severity >= highSeverityFloor:
			score += highSeverityScore
			riskFactors = append(riskFactors, fmt.Sprintf("High severity %s (severity: %d)", symptom, severity))
		case severity >= moderateSeverityFloor:
			score += moderateSeverityScore
			riskFactors = append(riskFactors, fmt.Sprintf("Moderate severity %s (severity: %d)", symptom, severity))
		}
	}

	// Integer truncation, not rounding.
	finalScore := int(float64(score) * ageMultiplier)

	careLevel := entities.CareLevelRoutine
	switch {
	case redFlagCount > 0 || finalScore >= emergencyScoreThreshold:
		careLevel = entities.CareLevelEmergency
	case finalScore >= urgentScoreThreshold:
		careLevel = entities.CareLevelUrgent
	case finalScore >= moderateScoreThreshold:
		careLevel = entities.CareLevelModerate
	}

	assessment := &entities.RiskAssessment{
		RiskScore:                  finalScore,
		CareLevel:                  careLevel,
		RiskFactors:                riskFactors,
		RedFlagCount:               redFlagCount,
		AgeRiskMultiplier:          ageMultiplier,
		ImmediateAttentionRequired: careLevel == entities.CareLevelEmergency,
	}

	log.Debug().
		Int("risk_score", finalScore).
		Int("red_flags", redFlagCount).
		Str("care_level", string(careLevel)).
		Msg("risk assessment computed")

	recordAssessmentMetrics(ctx, assessment)

	return assessment, nil
}

func sortedKeys(details map[string]entities.SymptomDetail) []string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

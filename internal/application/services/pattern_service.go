package services

import (
	"context"
	"sort"

	"github.com/medtriage/backend/internal/domain/entities"
	apperrors "github.com/medtriage/backend/pkg/errors"
)

// Urgency baseline thresholds on the average severity.
const (
	urgentSeverityMean   = 8.0
	moderateSeverityMean = 6.0
)

// PatternService analyzes per-symptom severity and duration detail for
// concerning co-occurrence patterns.
type PatternService struct{}

// NewPatternService creates a new pattern service.
func NewPatternService() *PatternService {
	return &PatternService{}
}

// AnalyzePattern computes the average severity, an urgency level and any
// concerning symptom combinations.
//
// The combination rules run after the severity baseline and only ever
// escalate: chest pain with breathing difficulty forces emergency
// unconditionally; headache with fever raises to urgent unless the level
// is already emergency.
func (s *PatternService) AnalyzePattern(ctx context.Context, details map[string]entities.SymptomDetail) (*entities.PatternAnalysis, error) {
	if len(details) == 0 {
		return nil, apperrors.NewValidationError("No symptom details provided")
	}

	symptoms := make([]string, 0, len(details))
	for symptom := range details {
		symptoms = append(symptoms, symptom)
	}
	sort.Strings(symptoms)

	severitySum := 0
	severityCount := 0
	for _, symptom := range symptoms {
		if severity, ok := details[symptom].ParsedSeverity(); ok {
			severitySum += severity
			severityCount++
		}
	}

	avgSeverity := 0.0
	if severityCount > 0 {
		avgSeverity = float64(severitySum) / float64(severityCount)
	}

	urgency := entities.CareLevelRoutine
	switch {
	case avgSeverity >= urgentSeverityMean:
		urgency = entities.CareLevelUrgent
	case avgSeverity >= moderateSeverityMean:
		urgency = entities.CareLevelModerate
	}

	combinations := []string{}
	if s.hasBoth(details, "chest_pain", "shortness_of_breath") {
		combinations = append(combinations, "chest_pain_with_breathing_difficulty")
		urgency = entities.CareLevelEmergency
	}
	if s.hasBoth(details, "severe_headache", "fever") {
		combinations = append(combinations, "headache_with_fever")
		if urgency != entities.CareLevelEmergency {
			urgency = entities.CareLevelUrgent
		}
	}

	return &entities.PatternAnalysis{
		AnalyzedSymptoms:       symptoms,
		AverageSeverity:        avgSeverity,
		UrgencyLevel:           urgency,
		ConcerningCombinations: combinations,
		PatternSummary:         entities.PatternSummaryLine(len(symptoms), avgSeverity),
	}, nil
}

func (s *PatternService) hasBoth(details map[string]entities.SymptomDetail, a, b string) bool {
	_, hasA := details[a]
	_, hasB := details[b]
	return hasA && hasB
}

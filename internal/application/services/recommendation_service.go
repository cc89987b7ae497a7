package services

import (
	"context"
	"fmt"

	"github.com/medtriage/backend/internal/domain/entities"
	"github.com/medtriage/backend/internal/knowledge"
)

// primaryRecommendationCount is how many leading entries form the
// primary tier. The care-level blocks guarantee at least that many.
const primaryRecommendationCount = 3

var careLevelRecommendations = map[entities.CareLevel][]string{
	entities.CareLevelEmergency: {
		"Seek immediate emergency medical attention",
		"Call 911 or go to the nearest emergency room",
		"Do not delay seeking care",
	},
	entities.CareLevelUrgent: {
		"Seek medical attention within 24 hours",
		"Contact your primary care doctor or urgent care center",
		"Monitor symptoms closely",
	},
	entities.CareLevelModerate: {
		"Schedule appointment with primary care doctor within 2-3 days",
		"Monitor symptoms and seek care if they worsen",
		"Consider over-the-counter treatments for symptom relief",
	},
	entities.CareLevelRoutine: {
		"Consider scheduling routine appointment with primary care doctor",
		"Try conservative home treatments",
		"Monitor symptoms and seek care if they persist or worsen",
	},
}

var careLevelNextSteps = map[entities.CareLevel]string{
	entities.CareLevelEmergency: "Emergency care required immediately",
	entities.CareLevelUrgent:    "Schedule urgent medical appointment",
	entities.CareLevelModerate:  "Schedule medical appointment within few days",
	entities.CareLevelRoutine:   "Consider routine medical follow-up",
}

var followUpTimelines = map[entities.CareLevel]string{
	entities.CareLevelEmergency: "Immediate",
	entities.CareLevelUrgent:    "Within 24 hours",
	entities.CareLevelModerate:  "Within 2-3 days",
	entities.CareLevelRoutine:   "Within 1-2 weeks if symptoms persist",
}

var generalRecommendations = []string{
	"Stay hydrated",
	"Get adequate rest",
	"Monitor symptoms for changes",
	"Keep a symptom diary",
	"Follow up if symptoms worsen or new symptoms develop",
}

// RecommendationService turns a risk assessment and candidate conditions
// into tiered care recommendations.
type RecommendationService struct {
	base *knowledge.Base
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(base *knowledge.Base) *RecommendationService {
	return &RecommendationService{base: base}
}

// GenerateRecommendations builds the recommendation set for the given
// assessment. The emergency block wins whenever immediate attention is
// flagged, even if the care level disagrees.
func (s *RecommendationService) GenerateRecommendations(ctx context.Context, risk *entities.RiskAssessment, possibleConditions []string) (*entities.RecommendationSet, error) {
	careLevel := risk.CareLevel

	// Unknown levels fall through to the routine block, but the reported
	// care level and follow-up timeline keep the caller's value.
	blockLevel := careLevel
	if !blockLevel.IsValid() {
		blockLevel = entities.CareLevelRoutine
	}
	if risk.ImmediateAttentionRequired {
		blockLevel = entities.CareLevelEmergency
	}

	recommendations := append([]string{}, careLevelRecommendations[blockLevel]...)
	nextSteps := []string{careLevelNextSteps[blockLevel]}

	// Condition-specific recommendations; conditions without a detail
	// entry contribute nothing.
	for _, condition := range possibleConditions {
		detail, ok := s.base.Condition(condition)
		if !ok {
			continue
		}
		for _, rec := range detail.Recommendations {
			recommendations = append(recommendations, fmt.Sprintf("For %s: %s", condition, rec))
		}
	}

	primary := recommendations[:primaryRecommendationCount]
	additional := append(append([]string{}, recommendations[primaryRecommendationCount:]...), generalRecommendations...)

	timeline, ok := followUpTimelines[careLevel]
	if !ok {
		timeline = "As needed"
	}

	return &entities.RecommendationSet{
		CareLevel:                  careLevel,
		ImmediateAttentionRequired: risk.ImmediateAttentionRequired,
		PrimaryRecommendations:     primary,
		AdditionalRecommendations:  additional,
		NextSteps:                  nextSteps,
		FollowUpTimeline:           timeline,
	}, nil
}

// FollowUpTimeline returns the fixed follow-up window for a care level,
// or "As needed" for anything unrecognized.
func FollowUpTimeline(careLevel entities.CareLevel) string {
	if timeline, ok := followUpTimelines[careLevel]; ok {
		return timeline
	}
	return "As needed"
}

package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/medtriage/backend/internal/domain/entities"
	"github.com/medtriage/backend/internal/domain/providers"
	"github.com/medtriage/backend/internal/knowledge"
	apperrors "github.com/medtriage/backend/pkg/errors"
)

const conditionMatchCacheTTL = 3600 // 1 hour; the knowledge base is static

// ConditionService matches reported symptoms against the knowledge base
// and serves clarification-question lookups.
type ConditionService struct {
	base  *knowledge.Base
	cache providers.CacheProvider
}

// NewConditionService creates a new condition service.
func NewConditionService(base *knowledge.Base) *ConditionService {
	return &ConditionService{base: base}
}

// SetCache sets the cache provider for match results.
func (s *ConditionService) SetCache(cache providers.CacheProvider) {
	s.cache = cache
}

// MatchConditions returns the candidate conditions for the reported
// symptoms, with red-flag detection. Matching is deterministic and
// stateless: the same symptom list always yields the same result.
func (s *ConditionService) MatchConditions(ctx context.Context, symptoms []string) (*entities.ConditionMatch, error) {
	if len(symptoms) == 0 {
		return nil, apperrors.NewValidationError("No symptoms provided for lookup")
	}

	normalized := make([]string, len(symptoms))
	for i, symptom := range symptoms {
		normalized[i] = knowledge.NormalizeSymptom(symptom)
	}

	cacheKey := "condition_match:" + strings.Join(normalized, ",")
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached entities.ConditionMatch
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	possible := s.base.ConditionsForAll(normalized)

	// Red flags keep duplicates: a repeated symptom is counted again.
	redFlags := []string{}
	unknown := []string{}
	for _, symptom := range normalized {
		if s.base.IsRedFlag(symptom) {
			redFlags = append(redFlags, symptom)
		}
		if s.base.ConditionsFor(symptom) == nil {
			unknown = append(unknown, symptom)
		}
	}

	details := make(map[string]entities.Condition)
	for _, id := range possible {
		if cond, ok := s.base.Condition(id); ok {
			details[id] = cond
		}
	}

	result := &entities.ConditionMatch{
		SymptomsAnalyzed:           normalized,
		PossibleConditions:         possible,
		ConditionDetails:           details,
		RedFlagSymptoms:            redFlags,
		RequiresImmediateAttention: len(redFlags) > 0,
	}

	recordUnknownSymptoms(ctx, unknown)

	if s.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, conditionMatchCacheTTL)
		}
	}

	return result, nil
}

// ClarificationQuestions returns the question set for a symptom, falling
// back to the generic onset/severity/triggers set for symptoms without a
// table entry. The fallback is deliberate, not an error.
func (s *ConditionService) ClarificationQuestions(symptom string) []string {
	if questions, ok := s.base.Questions(symptom); ok {
		return questions
	}
	return knowledge.DefaultClarificationQuestions()
}

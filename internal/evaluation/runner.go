package evaluation

import (
	"context"
	"time"

	"github.com/medtriage/backend/internal/domain/entities"
)

// RiskAssessor is the triage operation under evaluation.
type RiskAssessor interface {
	AssessRisk(ctx context.Context, symptoms []string, info entities.PatientInfo, details map[string]entities.SymptomDetail) (*entities.RiskAssessment, error)
}

// ConditionMatcher evaluates expected-condition coverage for cases that
// carry condition labels.
type ConditionMatcher interface {
	MatchConditions(ctx context.Context, symptoms []string) (*entities.ConditionMatch, error)
}

// Runner runs evaluation across a set of golden cases.
type Runner struct {
	assessor RiskAssessor
	matcher  ConditionMatcher
}

// NewRunner creates a new evaluation runner.
func NewRunner(assessor RiskAssessor) *Runner {
	return &Runner{assessor: assessor}
}

// SetConditionMatcher enables condition-recall scoring for cases with
// expected conditions.
func (r *Runner) SetConditionMatcher(matcher ConditionMatcher) {
	r.matcher = matcher
}

// Run assesses every golden case and aggregates the outcomes. A case
// that errors counts as neither correct nor mis-triaged but stays in
// the total.
func (r *Runner) Run(ctx context.Context, cases []GoldenCase) (*Summary, error) {
	summary := &Summary{
		TotalCases: len(cases),
		ByLevel:    make(map[entities.CareLevel]*LevelSummary),
	}

	overTriaged := 0
	underTriaged := 0
	recallSum := 0.0
	recallCases := 0

	for _, gc := range cases {
		start := time.Now()
		assessment, err := r.assessor.AssessRisk(ctx, gc.Symptoms, gc.PatientInfo, gc.SymptomDetails)
		latency := time.Since(start)

		if err != nil {
			summary.Failures = append(summary.Failures, CaseResult{
				CaseID:        gc.ID,
				ExpectedLevel: gc.ExpectedLevel,
				Latency:       latency,
			})
			continue
		}

		correct, over, under := Classify(gc.ExpectedLevel, assessment.CareLevel)
		result := CaseResult{
			CaseID:         gc.ID,
			ExpectedLevel:  gc.ExpectedLevel,
			PredictedLevel: assessment.CareLevel,
			RiskScore:      assessment.RiskScore,
			Correct:        correct,
			OverTriaged:    over,
			UnderTriaged:   under,
			Latency:        latency,
		}

		if r.matcher != nil && len(gc.ExpectedConditions) > 0 {
			recall := r.conditionRecall(ctx, gc)
			result.ConditionRecall = recall
			recallSum += recall
			recallCases++
		}

		if correct {
			summary.Correct++
		} else {
			summary.Failures = append(summary.Failures, result)
		}
		if over {
			overTriaged++
		}
		if under {
			underTriaged++
		}
		summary.AvgLatency += latency

		level := summary.ByLevel[gc.ExpectedLevel]
		if level == nil {
			level = &LevelSummary{}
			summary.ByLevel[gc.ExpectedLevel] = level
		}
		level.Count++
		if correct {
			level.Correct++
		}
	}

	summary.Accuracy = Accuracy(summary.Correct, summary.TotalCases)
	summary.OverTriageRate = Accuracy(overTriaged, summary.TotalCases)
	summary.UnderTriageRate = Accuracy(underTriaged, summary.TotalCases)
	if recallCases > 0 {
		summary.AvgConditionRecall = recallSum / float64(recallCases)
	}
	if summary.TotalCases > 0 {
		summary.AvgLatency /= time.Duration(summary.TotalCases)
	}
	for _, level := range summary.ByLevel {
		level.Accuracy = Accuracy(level.Correct, level.Count)
	}

	return summary, nil
}

// conditionRecall is the fraction of expected conditions the matcher
// surfaced for the case's symptoms. A matcher error scores zero.
func (r *Runner) conditionRecall(ctx context.Context, gc GoldenCase) float64 {
	match, err := r.matcher.MatchConditions(ctx, gc.Symptoms)
	if err != nil {
		return 0.0
	}

	matched := make(map[string]struct{}, len(match.PossibleConditions))
	for _, c := range match.PossibleConditions {
		matched[c] = struct{}{}
	}

	found := 0
	for _, expected := range gc.ExpectedConditions {
		if _, ok := matched[expected]; ok {
			found++
		}
	}
	return float64(found) / float64(len(gc.ExpectedConditions))
}

package services

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/medtriage/backend/internal/domain/entities"
)

var (
	triageMetricsOnce     sync.Once
	assessmentCounter     metric.Int64Counter
	redFlagCounter        metric.Int64Counter
	unknownSymptomCounter metric.Int64Counter
)

func initTriageMetrics() {
	meter := otel.Meter("github.com/medtriage/backend/triage")

	if counter, err := meter.Int64Counter(
		"triage.assessment.count",
		metric.WithDescription("Count of completed risk assessments by care level"),
	); err == nil {
		assessmentCounter = counter
	}

	if counter, err := meter.Int64Counter(
		"triage.red_flag.count",
		metric.WithDescription("Count of red flag symptoms seen in assessments"),
	); err == nil {
		redFlagCounter = counter
	}

	if counter, err := meter.Int64Counter(
		"triage.symptom_not_found.count",
		metric.WithDescription("Count of reported symptoms with no knowledge base entry"),
	); err == nil {
		unknownSymptomCounter = counter
	}
}

func recordAssessmentMetrics(ctx context.Context, assessment *entities.RiskAssessment) {
	triageMetricsOnce.Do(initTriageMetrics)
	if assessmentCounter != nil {
		assessmentCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("triage.care_level", string(assessment.CareLevel)),
		))
	}
	if redFlagCounter != nil && assessment.RedFlagCount > 0 {
		redFlagCounter.Add(ctx, int64(assessment.RedFlagCount))
	}
}

func recordUnknownSymptoms(ctx context.Context, symptoms []string) {
	if len(symptoms) == 0 {
		return
	}
	triageMetricsOnce.Do(initTriageMetrics)
	if unknownSymptomCounter == nil {
		return
	}
	for _, symptom := range symptoms {
		unknownSymptomCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("triage.symptom", symptom),
		))
	}
}

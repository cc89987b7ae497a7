package evaluation

import (
	"fmt"

	"github.com/medtriage/backend/internal/domain/entities"
)

type GuardrailConfig struct {
	MinAccuracy        float64
	MaxUnderTriageRate float64
	MaxEmergencyMissed int
	MaxSymptomsPerCase int
}

type Guardrails struct {
	config GuardrailConfig
}

func NewGuardrails(config GuardrailConfig) *Guardrails {
	if config.MaxSymptomsPerCase <= 0 {
		config.MaxSymptomsPerCase = 20
	}
	return &Guardrails{config: config}
}

// Check returns a violation message for every guardrail the summary
// breaks. An empty slice means the run passed.
func (g *Guardrails) Check(summary *Summary) []string {
	var violations []string

	if summary.Accuracy < g.config.MinAccuracy {
		violations = append(violations, fmt.Sprintf(
			"accuracy %.3f below minimum %.3f", summary.Accuracy, g.config.MinAccuracy))
	}
	if summary.UnderTriageRate > g.config.MaxUnderTriageRate {
		violations = append(violations, fmt.Sprintf(
			"under-triage rate %.3f above maximum %.3f", summary.UnderTriageRate, g.config.MaxUnderTriageRate))
	}

	emergencyMissed := 0
	for _, failure := range summary.Failures {
		if failure.ExpectedLevel == entities.CareLevelEmergency && failure.UnderTriaged {
			emergencyMissed++
		}
	}
	if emergencyMissed > g.config.MaxEmergencyMissed {
		violations = append(violations, fmt.Sprintf(
			"%d emergency cases under-triaged, at most %d allowed", emergencyMissed, g.config.MaxEmergencyMissed))
	}

	return violations
}

func (g *Guardrails) LimitSymptoms(symptoms []string) []string {
	if len(symptoms) > g.config.MaxSymptomsPerCase {
		return symptoms[:g.config.MaxSymptomsPerCase]
	}
	return symptoms
}

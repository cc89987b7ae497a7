package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// SymptomDetail carries optional per-symptom detail supplied by the caller.
// Severity is loosely typed on the wire (number or string), so it is kept
// raw and parsed best-effort.
type SymptomDetail struct {
	Severity any    `json:"severity,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// ParsedSeverity tries to interpret the severity value as an integer.
// Unparsable or absent values report ok=false and are excluded from
// aggregates rather than failing the call.
func (d SymptomDetail) ParsedSeverity() (int, bool) {
	switch v := d.Severity.(type) {
	case nil:
		return 0, false
	case int:
		return v, true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// SeverityString renders the severity for risk-factor notes, matching the
// caller-supplied representation.
func (d SymptomDetail) SeverityString() string {
	n, ok := d.ParsedSeverity()
	if !ok {
		return ""
	}
	return strconv.Itoa(n)
}

// PatientInfo is the demographic payload consumed by risk scoring.
type PatientInfo struct {
	Age            int      `json:"age"`
	MedicalHistory []string `json:"medical_history,omitempty"`
}

// ConditionMatch is the result of matching symptoms against the
// symptom-condition table.
type ConditionMatch struct {
	SymptomsAnalyzed           []string             `json:"symptoms_analyzed"`
	PossibleConditions         []string             `json:"possible_conditions"`
	ConditionDetails           map[string]Condition `json:"condition_details"`
	RedFlagSymptoms            []string             `json:"red_flag_symptoms"`
	RequiresImmediateAttention bool                 `json:"requires_immediate_attention"`
}

// PatternAnalysis is the result of analyzing per-symptom severity and
// duration detail.
type PatternAnalysis struct {
	AnalyzedSymptoms       []string  `json:"analyzed_symptoms"`
	AverageSeverity        float64   `json:"average_severity"`
	UrgencyLevel           CareLevel `json:"urgency_level"`
	ConcerningCombinations []string  `json:"concerning_combinations"`
	PatternSummary         string    `json:"pattern_summary"`
}

// Summary renders the one-line pattern summary with the severity rounded
// to one decimal for display only.
func PatternSummaryLine(symptomCount int, avgSeverity float64) string {
	return fmt.Sprintf("Patient reports %d symptoms with average severity %.1f", symptomCount, avgSeverity)
}

// RiskAssessment is an ephemeral computed value with no identity or
// persistence; it is recomputed per call.
type RiskAssessment struct {
	RiskScore                  int       `json:"risk_score"`
	CareLevel                  CareLevel `json:"care_level"`
	RiskFactors                []string  `json:"risk_factors"`
	RedFlagCount               int       `json:"red_flag_count"`
	AgeRiskMultiplier          float64   `json:"age_risk_multiplier"`
	ImmediateAttentionRequired bool      `json:"immediate_attention_required"`
}

// RecommendationSet is the tiered recommendation output.
type RecommendationSet struct {
	CareLevel                  CareLevel `json:"care_level"`
	ImmediateAttentionRequired bool      `json:"immediate_attention_required"`
	PrimaryRecommendations     []string  `json:"primary_recommendations"`
	AdditionalRecommendations  []string  `json:"additional_recommendations"`
	NextSteps                  []string  `json:"next_steps"`
	FollowUpTimeline           string    `json:"follow_up_timeline"`
}

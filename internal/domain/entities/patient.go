package entities

import (
	"strings"
	"time"
)

// Patient is a stored patient record. Records are keyed by normalized
// first name; the display name keeps the original casing.
type Patient struct {
	Name           string            `json:"name"`
	Age            int               `json:"age"`
	Occupation     string            `json:"occupation"`
	Lifestyle      map[string]string `json:"lifestyle"`
	MedicalHistory []string          `json:"medical_history"`
	RiskFactors    []string          `json:"risk_factors"`
	PreviousVisits []VisitNote       `json:"previous_visits"`
	Notes          string            `json:"notes"`
}

// Key returns the normalized lookup key for the patient.
func (p *Patient) Key() string {
	return NormalizeName(p.Name)
}

// NormalizeName lowercases and trims a patient name for keying.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// VisitNote is one append-only entry in a patient's visit history.
type VisitNote struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	Symptoms        []string  `json:"symptoms"`
	Assessment      string    `json:"assessment"`
	Recommendations string    `json:"recommendations"`
	VisitType       string    `json:"visit_type"`
}

// PatientSummary is the read-model returned by history lookups.
type PatientSummary struct {
	Name             string            `json:"patient_name"`
	Age              int               `json:"age"`
	Occupation       string            `json:"occupation"`
	MedicalHistory   []string          `json:"medical_history"`
	RiskFactors      []string          `json:"risk_factors"`
	LifestyleFactors map[string]string `json:"lifestyle_factors"`
	ClinicalNotes    string            `json:"clinical_notes"`
	PreviousVisits   int               `json:"previous_visits"`
}

// RiskFactorReport splits a patient's recorded risk factors by weight and
// derives additional lifestyle risks.
type RiskFactorReport struct {
	Name                string   `json:"patient_name"`
	Age                 int      `json:"age"`
	HighRiskFactors     []string `json:"high_risk_factors"`
	ModerateRiskFactors []string `json:"moderate_risk_factors"`
	LifestyleRisks      []string `json:"lifestyle_risks"`
	TotalRiskFactors    int      `json:"total_risk_factors"`
	Recommendations     []string `json:"recommendations"`
}

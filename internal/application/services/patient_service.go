package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medtriage/backend/internal/domain/entities"
	"github.com/medtriage/backend/internal/domain/repositories"
	apperrors "github.com/medtriage/backend/pkg/errors"
)

const (
	minPatientAge = 0
	maxPatientAge = 120
)

// Risk factors treated as high-weight in the risk factor report.
var highWeightRiskFactors = map[string]struct{}{
	"smoking_history":           {},
	"elderly":                   {},
	"chronic_sleep_deprivation": {},
}

var riskFactorAdvice = map[string]string{
	"smoking_history":           "Continue smoking cessation support and monitoring",
	"elderly":                   "Regular health screenings and fall prevention measures",
	"chronic_sleep_deprivation": "Sleep hygiene counseling and stress management",
	"sedentary_work":            "Ergonomic assessment and regular movement breaks",
	"high_caffeine_intake":      "Gradual caffeine reduction and hydration counseling",
}

// LookupResult pairs a found patient with a summary message; on a miss
// the service returns a not-found error carrying the available names.
type LookupResult struct {
	Patient *entities.Patient `json:"record"`
	Message string            `json:"message"`
}

// NotFoundSuggestion is returned alongside not-found lookups so the
// caller can prompt the user again.
type NotFoundSuggestion struct {
	Message           string   `json:"message"`
	AvailablePatients []string `json:"available_patients"`
	Suggestion        string   `json:"suggestion"`
}

// PatientService owns patient record workflows on top of the repository.
type PatientService struct {
	repo repositories.PatientRepository
}

// NewPatientService creates a new patient service.
func NewPatientService(repo repositories.PatientRepository) *PatientService {
	return &PatientService{repo: repo}
}

// Lookup finds a patient by first name.
func (s *PatientService) Lookup(ctx context.Context, name string) (*LookupResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("No patient name provided for lookup. Please provide your first name.")
	}

	patient, err := s.repo.Find(ctx, name)
	if err != nil {
		return nil, err
	}

	return &LookupResult{
		Patient: patient,
		Message: fmt.Sprintf("Found record for %s", patient.Name),
	}, nil
}

// SuggestAlternatives builds the recovery payload for a failed lookup.
func (s *PatientService) SuggestAlternatives(ctx context.Context, name string) *NotFoundSuggestion {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		names = nil
	}
	return &NotFoundSuggestion{
		Message:           fmt.Sprintf("No record found for '%s'.", name),
		AvailablePatients: names,
		Suggestion:        "Please provide your first name. We only use first names in our system.",
	}
}

// ListNames returns all patient display names.
func (s *PatientService) ListNames(ctx context.Context) ([]string, error) {
	return s.repo.ListNames(ctx)
}

// Onboard validates and creates a new patient record.
func (s *PatientService) Onboard(ctx context.Context, name string, age int, occupation string, lifestyle map[string]string) (*entities.Patient, error) {
	name = strings.TrimSpace(name)
	occupation = strings.TrimSpace(occupation)

	if name == "" {
		return nil, apperrors.NewValidationError("Patient name is required for onboarding")
	}
	if age < minPatientAge || age > maxPatientAge {
		return nil, apperrors.NewValidationError("Age must be between 0 and 120")
	}
	if occupation == "" {
		return nil, apperrors.NewValidationError("Occupation is required for onboarding")
	}

	if lifestyle == nil {
		lifestyle = map[string]string{}
	}

	patient := &entities.Patient{
		Name:           name,
		Age:            age,
		Occupation:     occupation,
		Lifestyle:      lifestyle,
		MedicalHistory: []string{},
		RiskFactors:    []string{},
		PreviousVisits: []entities.VisitNote{},
		Notes:          fmt.Sprintf("New patient - %s, %d, %s", name, age, occupation),
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}

	log.Info().Str("patient", patient.Key()).Msg("patient onboarded")
	return patient, nil
}

// History returns the medical history summary for a patient.
func (s *PatientService) History(ctx context.Context, name string) (*entities.PatientSummary, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("No patient name provided")
	}

	patient, err := s.repo.Find(ctx, name)
	if err != nil {
		return nil, err
	}

	return &entities.PatientSummary{
		Name:             patient.Name,
		Age:              patient.Age,
		Occupation:       patient.Occupation,
		MedicalHistory:   patient.MedicalHistory,
		RiskFactors:      patient.RiskFactors,
		LifestyleFactors: patient.Lifestyle,
		ClinicalNotes:    patient.Notes,
		PreviousVisits:   len(patient.PreviousVisits),
	}, nil
}

// RiskFactorReport splits a patient's recorded risk factors by weight and
// derives lifestyle-based risks from the lifestyle map.
func (s *PatientService) RiskFactorReport(ctx context.Context, name string) (*entities.RiskFactorReport, error) {
	patient, err := s.repo.Find(ctx, name)
	if err != nil {
		return nil, err
	}

	high := []string{}
	moderate := []string{}
	for _, factor := range patient.RiskFactors {
		if _, ok := highWeightRiskFactors[factor]; ok {
			high = append(high, factor)
		} else {
			moderate = append(moderate, factor)
		}
	}

	lifestyleRisks := []string{}
	if pattern, ok := patient.Lifestyle["sleep_pattern"]; ok && strings.Contains(pattern, "5-6 hours") {
		lifestyleRisks = append(lifestyleRisks, "chronic_sleep_deprivation")
	}
	if _, ok := patient.Lifestyle["smoking_history"]; ok {
		lifestyleRisks = append(lifestyleRisks, "former_smoker_status")
	}

	recommendations := []string{}
	for _, factor := range append(append([]string{}, high...), moderate...) {
		if advice, ok := riskFactorAdvice[factor]; ok {
			recommendations = append(recommendations, advice)
		}
	}

	return &entities.RiskFactorReport{
		Name:                patient.Name,
		Age:                 patient.Age,
		HighRiskFactors:     high,
		ModerateRiskFactors: moderate,
		LifestyleRisks:      lifestyleRisks,
		TotalRiskFactors:    len(patient.RiskFactors),
		Recommendations:     recommendations,
	}, nil
}

// SaveVisit appends a visit summary to the patient's record.
func (s *PatientService) SaveVisit(ctx context.Context, name string, symptoms []string, assessment, recommendations string) (*entities.VisitNote, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("No patient name provided")
	}

	note := entities.VisitNote{
		ID:              uuid.New().String(),
		Date:            time.Now().UTC(),
		Symptoms:        symptoms,
		Assessment:      assessment,
		Recommendations: recommendations,
		VisitType:       "diagnostic_consultation",
	}

	if err := s.repo.AppendVisit(ctx, name, note); err != nil {
		return nil, err
	}

	return &note, nil
}

// UpdateLifestyle replaces a patient's lifestyle map.
func (s *PatientService) UpdateLifestyle(ctx context.Context, name string, lifestyle map[string]string) (*entities.Patient, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("Patient name is required")
	}

	return s.repo.Update(ctx, name, repositories.PatientUpdate{Lifestyle: lifestyle})
}

// Update applies a partial update to a patient record.
func (s *PatientService) Update(ctx context.Context, name string, update repositories.PatientUpdate) (*entities.Patient, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("Patient name is required")
	}
	if update.Age != nil && (*update.Age < minPatientAge || *update.Age > maxPatientAge) {
		return nil, apperrors.NewValidationError("Age must be between 0 and 120")
	}

	return s.repo.Update(ctx, name, update)
}

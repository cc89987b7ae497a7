package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/medtriage/backend/internal/application/services"
	"github.com/medtriage/backend/internal/domain/repositories"
	apperrors "github.com/medtriage/backend/pkg/errors"
)

// PatientHandler serves the patient record endpoints.
type PatientHandler struct {
	service *services.PatientService
}

// NewPatientHandler creates a new patient handler.
func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

// ListPatients handles GET /api/patients
func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.ListNames(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"patients": names,
		"count":    len(names),
	})
}

// GetPatient handles GET /api/patients/{name}
func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	result, err := h.service.Lookup(r.Context(), name)
	if err != nil {
		// A miss carries the available names so the caller can retry.
		if apperrors.IsNotFound(err) {
			respondWithJSON(w, http.StatusNotFound, h.service.SuggestAlternatives(r.Context(), name))
			return
		}
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetHistory handles GET /api/patients/{name}/history
func (h *PatientHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.History(r.Context(), r.PathValue("name"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// GetRiskFactors handles GET /api/patients/{name}/risk-factors
func (h *PatientHandler) GetRiskFactors(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.RiskFactorReport(r.Context(), r.PathValue("name"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

type createPatientRequest struct {
	Name       string            `json:"name"`
	Age        int               `json:"age"`
	Occupation string            `json:"occupation"`
	Lifestyle  map[string]string `json:"lifestyle,omitempty"`
}

// CreatePatient handles POST /api/patients
func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var payload createPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	patient, err := h.service.Onboard(r.Context(), payload.Name, payload.Age, payload.Occupation, payload.Lifestyle)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, patient)
}

type updatePatientRequest struct {
	Age            *int              `json:"age,omitempty"`
	Occupation     *string           `json:"occupation,omitempty"`
	Lifestyle      map[string]string `json:"lifestyle,omitempty"`
	MedicalHistory []string          `json:"medical_history,omitempty"`
	RiskFactors    []string          `json:"risk_factors,omitempty"`
	Notes          *string           `json:"notes,omitempty"`
}

// UpdatePatient handles PATCH /api/patients/{name}
func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	var payload updatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	patient, err := h.service.Update(r.Context(), r.PathValue("name"), repositories.PatientUpdate{
		Age:            payload.Age,
		Occupation:     payload.Occupation,
		Lifestyle:      payload.Lifestyle,
		MedicalHistory: payload.MedicalHistory,
		RiskFactors:    payload.RiskFactors,
		Notes:          payload.Notes,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, patient)
}

type addVisitRequest struct {
	Symptoms        []string `json:"symptoms"`
	Assessment      string   `json:"assessment"`
	Recommendations string   `json:"recommendations"`
}

// AddVisit handles POST /api/patients/{name}/visits
func (h *PatientHandler) AddVisit(w http.ResponseWriter, r *http.Request) {
	var payload addVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	note, err := h.service.SaveVisit(r.Context(), r.PathValue("name"), payload.Symptoms, payload.Assessment, payload.Recommendations)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, note)
}

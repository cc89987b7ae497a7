package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtriage/backend/internal/adapters/storage"
	"github.com/medtriage/backend/internal/api/handlers"
	"github.com/medtriage/backend/internal/application/services"
	"github.com/medtriage/backend/internal/domain/entities"
)

func newPatientHandler(t *testing.T) *handlers.PatientHandler {
	t.Helper()
	repo, err := storage.NewFilePatientAdapter(filepath.Join(t.TempDir(), "patients.json"))
	require.NoError(t, err)
	return handlers.NewPatientHandler(services.NewPatientService(repo))
}

func createPatient(t *testing.T, handler *handlers.PatientHandler, body string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/patients", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.CreatePatient(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestPatientHandler_CreatePatient(t *testing.T) {
	handler := newPatientHandler(t)

	t.Run("creates a record", func(t *testing.T) {
		body := `{"name":"Maya","age":34,"occupation":"teacher"}`
		req := httptest.NewRequest("POST", "/api/patients", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreatePatient(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var patient entities.Patient
		require.NoError(t, json.NewDecoder(w.Body).Decode(&patient))
		assert.Equal(t, "Maya", patient.Name)
		assert.Equal(t, "New patient - Maya, 34, teacher", patient.Notes)
	})

	t.Run("invalid age is a bad request", func(t *testing.T) {
		body := `{"name":"Maya","age":130,"occupation":"teacher"}`
		req := httptest.NewRequest("POST", "/api/patients", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreatePatient(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicates conflict", func(t *testing.T) {
		body := `{"name":"maya","age":34,"occupation":"teacher"}`
		req := httptest.NewRequest("POST", "/api/patients", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreatePatient(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestPatientHandler_GetPatient(t *testing.T) {
	handler := newPatientHandler(t)
	createPatient(t, handler, `{"name":"Marcus","age":42,"occupation":"software developer"}`)

	t.Run("returns the record", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/patients/marcus", nil)
		req.SetPathValue("name", "marcus")
		w := httptest.NewRecorder()

		handler.GetPatient(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Patient *entities.Patient `json:"record"`
			Message string            `json:"message"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "Marcus", response.Patient.Name)
		assert.Equal(t, "Found record for Marcus", response.Message)
	})

	t.Run("misses list the available patients", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/patients/nobody", nil)
		req.SetPathValue("name", "nobody")
		w := httptest.NewRecorder()

		handler.GetPatient(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response struct {
			Message           string   `json:"message"`
			AvailablePatients []string `json:"available_patients"`
			Suggestion        string   `json:"suggestion"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "No record found for 'nobody'.", response.Message)
		assert.Equal(t, []string{"Marcus"}, response.AvailablePatients)
		assert.NotEmpty(t, response.Suggestion)
	})
}

func TestPatientHandler_ListPatients(t *testing.T) {
	handler := newPatientHandler(t)
	createPatient(t, handler, `{"name":"Sofia","age":29,"occupation":"nurse"}`)
	createPatient(t, handler, `{"name":"Marcus","age":42,"occupation":"software developer"}`)

	req := httptest.NewRequest("GET", "/api/patients", nil)
	w := httptest.NewRecorder()

	handler.ListPatients(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Patients []string `json:"patients"`
		Count    int      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, []string{"Marcus", "Sofia"}, response.Patients)
	assert.Equal(t, 2, response.Count)
}

func TestPatientHandler_VisitsAndHistory(t *testing.T) {
	handler := newPatientHandler(t)
	createPatient(t, handler, `{"name":"Marcus","age":42,"occupation":"software developer"}`)

	visitBody := `{"symptoms":["headache"],"assessment":"routine","recommendations":"Rest and hydration"}`
	req := httptest.NewRequest("POST", "/api/patients/marcus/visits", strings.NewReader(visitBody))
	req.SetPathValue("name", "marcus")
	w := httptest.NewRecorder()

	handler.AddVisit(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var note entities.VisitNote
	require.NoError(t, json.NewDecoder(w.Body).Decode(&note))
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "diagnostic_consultation", note.VisitType)

	req = httptest.NewRequest("GET", "/api/patients/marcus/history", nil)
	req.SetPathValue("name", "marcus")
	w = httptest.NewRecorder()

	handler.GetHistory(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var summary entities.PatientSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, 1, summary.PreviousVisits)
}

func TestPatientHandler_UpdateAndRiskFactors(t *testing.T) {
	handler := newPatientHandler(t)
	createPatient(t, handler, `{"name":"Marcus","age":42,"occupation":"software developer"}`)

	updateBody := `{
		"risk_factors": ["smoking_history", "sedentary_work"],
		"lifestyle": {"sleep_pattern": "5-6 hours nightly"}
	}`
	req := httptest.NewRequest("PATCH", "/api/patients/marcus", strings.NewReader(updateBody))
	req.SetPathValue("name", "marcus")
	w := httptest.NewRecorder()

	handler.UpdatePatient(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/api/patients/marcus/risk-factors", nil)
	req.SetPathValue("name", "marcus")
	w = httptest.NewRecorder()

	handler.GetRiskFactors(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var report entities.RiskFactorReport
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
	assert.Equal(t, []string{"smoking_history"}, report.HighRiskFactors)
	assert.Equal(t, []string{"sedentary_work"}, report.ModerateRiskFactors)
	assert.Contains(t, report.LifestyleRisks, "chronic_sleep_deprivation")
	assert.Equal(t, 2, report.TotalRiskFactors)
}

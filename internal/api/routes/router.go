package routes

import (
	"net/http"

	"github.com/medtriage/backend/internal/api/handlers"
	"github.com/medtriage/backend/internal/api/middleware"
	"github.com/medtriage/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	triageHandler  *handlers.TriageHandler
	patientHandler *handlers.PatientHandler
	symptomHandler *handlers.SymptomHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	triageHandler *handlers.TriageHandler,
	patientHandler *handlers.PatientHandler,
	symptomHandler *handlers.SymptomHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		triageHandler:   triageHandler,
		patientHandler:  patientHandler,
		symptomHandler:  symptomHandler,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Triage endpoints
	r.mux.HandleFunc("POST /api/triage/conditions", r.triageHandler.MatchConditions)
	r.mux.HandleFunc("GET /api/triage/questions", r.triageHandler.ClarificationQuestions)
	r.mux.HandleFunc("POST /api/triage/pattern", r.triageHandler.AnalyzePattern)
	r.mux.HandleFunc("POST /api/triage/risk", r.triageHandler.AssessRisk)
	r.mux.HandleFunc("POST /api/triage/recommendations", r.triageHandler.GenerateRecommendations)
	r.mux.HandleFunc("POST /api/triage/intake", r.triageHandler.Intake)

	// Patient record endpoints
	r.mux.HandleFunc("GET /api/patients", r.patientHandler.ListPatients)
	r.mux.HandleFunc("POST /api/patients", r.patientHandler.CreatePatient)
	r.mux.HandleFunc("GET /api/patients/{name}", r.patientHandler.GetPatient)
	r.mux.HandleFunc("PATCH /api/patients/{name}", r.patientHandler.UpdatePatient)
	r.mux.HandleFunc("GET /api/patients/{name}/history", r.patientHandler.GetHistory)
	r.mux.HandleFunc("GET /api/patients/{name}/risk-factors", r.patientHandler.GetRiskFactors)
	r.mux.HandleFunc("POST /api/patients/{name}/visits", r.patientHandler.AddVisit)

	// Symptom vocabulary endpoints
	if r.symptomHandler != nil {
		r.mux.HandleFunc("GET /api/symptoms/suggest", r.symptomHandler.Suggest)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}

	handler = middleware.CORSMiddleware(handler)

	return handler
}

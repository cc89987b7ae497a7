package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medtriage/backend/internal/application/services"
	"github.com/medtriage/backend/internal/domain/entities"
	"github.com/medtriage/backend/internal/domain/repositories"
	apperrors "github.com/medtriage/backend/pkg/errors"
)

type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Find(ctx context.Context, name string) (*entities.Patient, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockPatientRepository) ListNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPatientRepository) Create(ctx context.Context, patient *entities.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) AppendVisit(ctx context.Context, name string, note entities.VisitNote) error {
	args := m.Called(ctx, name, note)
	return args.Error(0)
}

func (m *MockPatientRepository) Update(ctx context.Context, name string, update repositories.PatientUpdate) (*entities.Patient, error) {
	args := m.Called(ctx, name, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func samplePatient() *entities.Patient {
	return &entities.Patient{
		Name:       "Marcus",
		Age:        42,
		Occupation: "software developer",
		Lifestyle: map[string]string{
			"sleep_pattern":   "5-6 hours nightly",
			"smoking_history": "quit 5 years ago",
		},
		MedicalHistory: []string{"hypertension"},
		RiskFactors:    []string{"smoking_history", "sedentary_work", "elderly"},
		PreviousVisits: []entities.VisitNote{{ID: "v1"}, {ID: "v2"}},
		Notes:          "Long-time patient",
	}
}

func TestPatientService_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty name", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := services.NewPatientService(repo)

		result, err := service.Lookup(ctx, "   ")

		assert.Nil(t, result)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})

	t.Run("returns the record with a message", func(t *testing.T) {
		repo := new(MockPatientRepository)
		repo.On("Find", ctx, "marcus").Return(samplePatient(), nil)
		service := services.NewPatientService(repo)

		result, err := service.Lookup(ctx, "marcus")

		require.NoError(t, err)
		assert.Equal(t, "Marcus", result.Patient.Name)
		assert.Equal(t, "Found record for Marcus", result.Message)
	})

	t.Run("passes repository not found through", func(t *testing.T) {
		repo := new(MockPatientRepository)
		repo.On("Find", ctx, "nobody").Return(nil, apperrors.NewNotFoundError("no record"))
		service := services.NewPatientService(repo)

		result, err := service.Lookup(ctx, "nobody")

		assert.Nil(t, result)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestPatientService_SuggestAlternatives(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPatientRepository)
	repo.On("ListNames", ctx).Return([]string{"Marcus", "Sofia"}, nil)
	service := services.NewPatientService(repo)

	suggestion := service.SuggestAlternatives(ctx, "Bob")

	assert.Equal(t, "No record found for 'Bob'.", suggestion.Message)
	assert.Equal(t, []string{"Marcus", "Sofia"}, suggestion.AvailablePatients)
	assert.Equal(t, "Please provide your first name. We only use first names in our system.", suggestion.Suggestion)
}

func TestPatientService_Onboard(t *testing.T) {
	ctx := context.Background()

	t.Run("validates inputs", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := services.NewPatientService(repo)

		cases := []struct {
			name       string
			age        int
			occupation string
		}{
			{"", 30, "teacher"},
			{"Maya", -1, "teacher"},
			{"Maya", 130, "teacher"},
			{"Maya", 30, "  "},
		}
		for _, tc := range cases {
			result, err := service.Onboard(ctx, tc.name, tc.age, tc.occupation, nil)
			assert.Nil(t, result)
			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
		}
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("creates a seeded record", func(t *testing.T) {
		repo := new(MockPatientRepository)
		repo.On("Create", ctx, mock.AnythingOfType("*entities.Patient")).Return(nil)
		service := services.NewPatientService(repo)

		patient, err := service.Onboard(ctx, " Maya ", 34, "teacher", nil)

		require.NoError(t, err)
		assert.Equal(t, "Maya", patient.Name)
		assert.Equal(t, "New patient - Maya, 34, teacher", patient.Notes)
		assert.NotNil(t, patient.Lifestyle)
		assert.Empty(t, patient.MedicalHistory)
		assert.Empty(t, patient.RiskFactors)
		assert.Empty(t, patient.PreviousVisits)
		repo.AssertExpectations(t)
	})

	t.Run("passes duplicate conflicts through", func(t *testing.T) {
		repo := new(MockPatientRepository)
		repo.On("Create", ctx, mock.Anything).Return(apperrors.NewConflictError("record exists"))
		service := services.NewPatientService(repo)

		patient, err := service.Onboard(ctx, "Maya", 34, "teacher", nil)

		assert.Nil(t, patient)
		assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(err))
	})
}

func TestPatientService_History(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPatientRepository)
	repo.On("Find", ctx, "marcus").Return(samplePatient(), nil)
	service := services.NewPatientService(repo)

	summary, err := service.History(ctx, "marcus")

	require.NoError(t, err)
	assert.Equal(t, "Marcus", summary.Name)
	assert.Equal(t, 42, summary.Age)
	assert.Equal(t, []string{"hypertension"}, summary.MedicalHistory)
	assert.Equal(t, 2, summary.PreviousVisits)
	assert.Equal(t, "Long-time patient", summary.ClinicalNotes)
}

func TestPatientService_RiskFactorReport(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPatientRepository)
	repo.On("Find", ctx, "marcus").Return(samplePatient(), nil)
	service := services.NewPatientService(repo)

	report, err := service.RiskFactorReport(ctx, "marcus")

	require.NoError(t, err)
	assert.Equal(t, []string{"smoking_history", "elderly"}, report.HighRiskFactors)
	assert.Equal(t, []string{"sedentary_work"}, report.ModerateRiskFactors)
	assert.Equal(t, []string{"chronic_sleep_deprivation", "former_smoker_status"}, report.LifestyleRisks)
	assert.Equal(t, 3, report.TotalRiskFactors)
	assert.Equal(t, []string{
		"Continue smoking cessation support and monitoring",
		"Regular health screenings and fall prevention measures",
		"Ergonomic assessment and regular movement breaks",
	}, report.Recommendations)
}

func TestPatientService_SaveVisit(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPatientRepository)
	repo.On("AppendVisit", ctx, "marcus", mock.AnythingOfType("entities.VisitNote")).Return(nil)
	service := services.NewPatientService(repo)

	note, err := service.SaveVisit(ctx, "marcus", []string{"headache"}, "routine", "Rest and hydration")

	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "diagnostic_consultation", note.VisitType)
	assert.Equal(t, []string{"headache"}, note.Symptoms)
	assert.False(t, note.Date.IsZero())
	repo.AssertExpectations(t)
}

func TestPatientService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects out of range ages", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := services.NewPatientService(repo)

		age := 150
		result, err := service.Update(ctx, "marcus", repositories.PatientUpdate{Age: &age})

		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("updates lifestyle through the repository", func(t *testing.T) {
		repo := new(MockPatientRepository)
		updated := samplePatient()
		updated.Lifestyle = map[string]string{"sleep_pattern": "7-8 hours nightly"}
		repo.On("Update", ctx, "marcus", mock.AnythingOfType("repositories.PatientUpdate")).Return(updated, nil)
		service := services.NewPatientService(repo)

		result, err := service.UpdateLifestyle(ctx, "marcus", map[string]string{"sleep_pattern": "7-8 hours nightly"})

		require.NoError(t, err)
		assert.Equal(t, "7-8 hours nightly", result.Lifestyle["sleep_pattern"])
		repo.AssertExpectations(t)
	})
}

package repositories

import (
	"context"

	"github.com/medtriage/backend/internal/domain/entities"
)

// PatientUpdate names the mutable fields of a patient record. Nil fields
// are left untouched.
type PatientUpdate struct {
	Age            *int
	Occupation     *string
	Lifestyle      map[string]string
	MedicalHistory []string
	RiskFactors    []string
	Notes          *string
}

// PatientRepository is the persistence contract for patient records.
// Implementations return pkg/errors typed errors: not-found for missing
// patients, conflict for duplicate creation, external for storage failures.
type PatientRepository interface {
	// Find looks a patient up by name: exact normalized key first, then
	// partial match against keys and display names.
	Find(ctx context.Context, name string) (*entities.Patient, error)

	// ListNames returns the display names of all patients in stable order.
	ListNames(ctx context.Context) ([]string, error)

	// Create stores a new patient record.
	Create(ctx context.Context, patient *entities.Patient) error

	// AppendVisit appends a visit note to an existing record.
	AppendVisit(ctx context.Context, name string, note entities.VisitNote) error

	// Update applies the non-nil fields of update to an existing record
	// and returns the updated record.
	Update(ctx context.Context, name string, update PatientUpdate) (*entities.Patient, error)
}

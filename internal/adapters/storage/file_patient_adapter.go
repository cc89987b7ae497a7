package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/medtriage/backend/internal/domain/entities"
	"github.com/medtriage/backend/internal/domain/repositories"
	apperrors "github.com/medtriage/backend/pkg/errors"
)

// FilePatientAdapter implements PatientRepository on a single JSON file.
// Records are held in memory and the whole file is rewritten on every
// mutation; the store is meant for small clinics and development setups.
type FilePatientAdapter struct {
	path string

	mu       sync.RWMutex
	patients map[string]*entities.Patient
}

var _ repositories.PatientRepository = (*FilePatientAdapter)(nil)

// NewFilePatientAdapter loads the store from path. A missing file is not
// an error; the store starts empty and the file is created on first write.
func NewFilePatientAdapter(path string) (*FilePatientAdapter, error) {
	a := &FilePatientAdapter{
		path:     path,
		patients: make(map[string]*entities.Patient),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return a, nil
	}
	if err != nil {
		return nil, apperrors.NewExternalError("failed to read patient store", err)
	}

	if err := json.Unmarshal(data, &a.patients); err != nil {
		return nil, apperrors.NewExternalError("failed to parse patient store", err)
	}

	return a, nil
}

// Find looks a patient up by name: exact normalized key first, then
// partial match against keys and display names.
func (a *FilePatientAdapter) Find(ctx context.Context, name string) (*entities.Patient, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	patient := a.locate(name)
	if patient == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no patient record for '%s'", name))
	}
	return clonePatient(patient), nil
}

// ListNames returns display names sorted by their normalized key.
func (a *FilePatientAdapter) ListNames(ctx context.Context) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	keys := make([]string, 0, len(a.patients))
	for key := range a.patients {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, a.patients[key].Name)
	}
	return names, nil
}

// Create stores a new patient record.
func (a *FilePatientAdapter) Create(ctx context.Context, patient *entities.Patient) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := patient.Key()
	if _, exists := a.patients[key]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("patient record for '%s' already exists", patient.Name))
	}

	a.patients[key] = clonePatient(patient)
	return a.persist()
}

// AppendVisit appends a visit note to an existing record.
func (a *FilePatientAdapter) AppendVisit(ctx context.Context, name string, note entities.VisitNote) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	patient := a.locate(name)
	if patient == nil {
		return apperrors.NewNotFoundError(fmt.Sprintf("no patient record for '%s'", name))
	}

	patient.PreviousVisits = append(patient.PreviousVisits, note)
	return a.persist()
}

// Update applies the non-nil fields of update to an existing record.
func (a *FilePatientAdapter) Update(ctx context.Context, name string, update repositories.PatientUpdate) (*entities.Patient, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	patient := a.locate(name)
	if patient == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no patient record for '%s'", name))
	}

	if update.Age != nil {
		patient.Age = *update.Age
	}
	if update.Occupation != nil {
		patient.Occupation = *update.Occupation
	}
	if update.Lifestyle != nil {
		patient.Lifestyle = update.Lifestyle
	}
	if update.MedicalHistory != nil {
		patient.MedicalHistory = update.MedicalHistory
	}
	if update.RiskFactors != nil {
		patient.RiskFactors = update.RiskFactors
	}
	if update.Notes != nil {
		patient.Notes = *update.Notes
	}

	if err := a.persist(); err != nil {
		return nil, err
	}
	return clonePatient(patient), nil
}

// locate resolves a name to a stored record. Callers hold the lock.
func (a *FilePatientAdapter) locate(name string) *entities.Patient {
	key := entities.NormalizeName(name)
	if key == "" {
		return nil
	}

	if patient, ok := a.patients[key]; ok {
		return patient
	}

	// Partial match in stable key order.
	keys := make([]string, 0, len(a.patients))
	for k := range a.patients {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		patient := a.patients[k]
		if strings.Contains(k, key) || strings.Contains(entities.NormalizeName(patient.Name), key) {
			return patient
		}
	}
	return nil
}

// persist rewrites the whole store file. Callers hold the write lock.
func (a *FilePatientAdapter) persist() error {
	if dir := filepath.Dir(a.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.NewExternalError("failed to create patient store directory", err)
		}
	}

	data, err := json.MarshalIndent(a.patients, "", "  ")
	if err != nil {
		return apperrors.NewInternalError("failed to encode patient store", err)
	}

	if err := os.WriteFile(a.path, data, 0o644); err != nil {
		return apperrors.NewExternalError("failed to write patient store", err)
	}
	return nil
}

func clonePatient(p *entities.Patient) *entities.Patient {
	clone := *p

	clone.Lifestyle = make(map[string]string, len(p.Lifestyle))
	for k, v := range p.Lifestyle {
		clone.Lifestyle[k] = v
	}
	clone.MedicalHistory = append([]string{}, p.MedicalHistory...)
	clone.RiskFactors = append([]string{}, p.RiskFactors...)
	clone.PreviousVisits = append([]entities.VisitNote{}, p.PreviousVisits...)

	return &clone
}

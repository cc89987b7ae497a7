package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/medtriage/backend/internal/domain/entities"
	"github.com/medtriage/backend/internal/domain/repositories"
	"github.com/medtriage/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medtriage/backend/pkg/errors"
)

const patientsTable = "patients"

// PatientAdapter implements PatientRepository in Postgres. Structured
// sub-documents (lifestyle, history, visits) are stored as JSONB.
type PatientAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.PatientRepository = (*PatientAdapter)(nil)

// NewPatientAdapter creates a new patient adapter.
func NewPatientAdapter(client *postgres.Client) *PatientAdapter {
	return &PatientAdapter{
		client: client,
		db:     goqu.Dialect("postgres").DB(client.DB()),
	}
}

var patientColumns = []interface{}{
	"name", "age", "occupation", "lifestyle",
	"medical_history", "risk_factors", "previous_visits", "notes",
}

// Find looks a patient up by normalized key, then by partial match
// against keys and display names.
func (a *PatientAdapter) Find(ctx context.Context, name string) (*entities.Patient, error) {
	key := entities.NormalizeName(name)
	if key == "" {
		return nil, apperrors.NewNotFoundError("no patient record for ''")
	}

	patient, err := a.findWhere(ctx, goqu.Ex{"name_key": key})
	if err == nil {
		return patient, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	pattern := "%" + key + "%"
	patient, err = a.findWhere(ctx, goqu.Or(
		goqu.C("name_key").Like(pattern),
		goqu.L("LOWER(name)").Like(pattern),
	))
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no patient record for '%s'", name))
	}
	return patient, err
}

func (a *PatientAdapter) findWhere(ctx context.Context, where goqu.Expression) (*entities.Patient, error) {
	query, args, err := a.db.From(patientsTable).
		Select(patientColumns...).
		Where(where).
		Order(goqu.C("name_key").Asc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build patient select query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)

	patient := &entities.Patient{}
	var lifestyle, history, riskFactors, visits []byte
	err = row.Scan(
		&patient.Name,
		&patient.Age,
		&patient.Occupation,
		&lifestyle,
		&history,
		&riskFactors,
		&visits,
		&patient.Notes,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("patient not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get patient", err)
	}

	if err := unmarshalJSONB(lifestyle, &patient.Lifestyle); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(history, &patient.MedicalHistory); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(riskFactors, &patient.RiskFactors); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(visits, &patient.PreviousVisits); err != nil {
		return nil, err
	}

	return patient, nil
}

// ListNames returns display names ordered by key.
func (a *PatientAdapter) ListNames(ctx context.Context) ([]string, error) {
	query, args, err := a.db.From(patientsTable).
		Select("name").
		Order(goqu.C("name_key").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build patient list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list patients", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.NewInternalError("failed to scan patient name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate patients", err)
	}

	return names, nil
}

// Create stores a new patient record.
func (a *PatientAdapter) Create(ctx context.Context, patient *entities.Patient) error {
	record, err := patientRecord(patient)
	if err != nil {
		return err
	}

	if _, findErr := a.findWhere(ctx, goqu.Ex{"name_key": patient.Key()}); findErr == nil {
		return apperrors.NewConflictError(fmt.Sprintf("patient record for '%s' already exists", patient.Name))
	} else if !apperrors.IsNotFound(findErr) {
		return findErr
	}

	query, args, err := a.db.Insert(patientsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build patient insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create patient", err)
	}
	return nil
}

// AppendVisit appends a visit note to an existing record.
func (a *PatientAdapter) AppendVisit(ctx context.Context, name string, note entities.VisitNote) error {
	patient, err := a.Find(ctx, name)
	if err != nil {
		return err
	}

	patient.PreviousVisits = append(patient.PreviousVisits, note)
	visits, err := json.Marshal(patient.PreviousVisits)
	if err != nil {
		return apperrors.NewInternalError("failed to encode visits", err)
	}

	query, args, err := a.db.Update(patientsTable).
		Set(goqu.Record{"previous_visits": visits}).
		Where(goqu.Ex{"name_key": patient.Key()}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build visit update query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to append visit", err)
	}
	return nil
}

// Update applies the non-nil fields of update to an existing record.
func (a *PatientAdapter) Update(ctx context.Context, name string, update repositories.PatientUpdate) (*entities.Patient, error) {
	patient, err := a.Find(ctx, name)
	if err != nil {
		return nil, err
	}

	record := goqu.Record{}
	if update.Age != nil {
		patient.Age = *update.Age
		record["age"] = *update.Age
	}
	if update.Occupation != nil {
		patient.Occupation = *update.Occupation
		record["occupation"] = *update.Occupation
	}
	if update.Lifestyle != nil {
		patient.Lifestyle = update.Lifestyle
		data, err := json.Marshal(update.Lifestyle)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to encode lifestyle", err)
		}
		record["lifestyle"] = data
	}
	if update.MedicalHistory != nil {
		patient.MedicalHistory = update.MedicalHistory
		data, err := json.Marshal(update.MedicalHistory)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to encode medical history", err)
		}
		record["medical_history"] = data
	}
	if update.RiskFactors != nil {
		patient.RiskFactors = update.RiskFactors
		data, err := json.Marshal(update.RiskFactors)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to encode risk factors", err)
		}
		record["risk_factors"] = data
	}
	if update.Notes != nil {
		patient.Notes = *update.Notes
		record["notes"] = *update.Notes
	}

	if len(record) == 0 {
		return patient, nil
	}

	query, args, err := a.db.Update(patientsTable).
		Set(record).
		Where(goqu.Ex{"name_key": patient.Key()}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build patient update query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to update patient", err)
	}

	return patient, nil
}

func patientRecord(patient *entities.Patient) (goqu.Record, error) {
	lifestyle, err := json.Marshal(patient.Lifestyle)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode lifestyle", err)
	}
	history, err := json.Marshal(patient.MedicalHistory)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode medical history", err)
	}
	riskFactors, err := json.Marshal(patient.RiskFactors)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode risk factors", err)
	}
	visits, err := json.Marshal(patient.PreviousVisits)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode visits", err)
	}

	return goqu.Record{
		"name_key":        patient.Key(),
		"name":            patient.Name,
		"age":             patient.Age,
		"occupation":      patient.Occupation,
		"lifestyle":       lifestyle,
		"medical_history": history,
		"risk_factors":    riskFactors,
		"previous_visits": visits,
		"notes":           patient.Notes,
	}, nil
}

func unmarshalJSONB(data []byte, dest interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return apperrors.NewInternalError("failed to decode patient field", err)
	}
	return nil
}

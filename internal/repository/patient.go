package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/neurotriage/stroke-triage-server/internal/domain"
)

// PatientRepository handles patient record persistence
type PatientRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *pgxpool.Pool, logger *logrus.Logger) *PatientRepository {
	return &PatientRepository{
		db:  db,
		log: logger,
	}
}

// CreatePatient inserts a new patient record
func (r *PatientRepository) CreatePatient(ctx context.Context, patient *domain.Patient) error {
	query := `
		INSERT INTO patients (
			id, name, sex, age, weight_kg, systolic_bp, diastolic_bp, blood_glucose,
			anticoagulant_status, anticoagulant_medication, last_anticoagulant_dose,
			arrival_time, last_known_well_time
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)`

	_, err := r.db.Exec(ctx, query,
		patient.ID,
		patient.Name,
		patient.Sex,
		patient.Age,
		patient.WeightKg,
		patient.SystolicBP,
		patient.DiastolicBP,
		patient.BloodGlucose,
		patient.AnticoagStatus,
		patient.AnticoagMedication,
		patient.LastAnticoagDose,
		patient.ArrivalTime,
		patient.LastKnownWell,
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"patient_id": patient.ID,
			"error":      err,
		}).Error("Failed to create patient")
		return fmt.Errorf("creating patient: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"patient_id": patient.ID,
		"age":        patient.Age,
	}).Info("Patient created successfully")

	return nil
}

// GetPatient retrieves a patient by ID
func (r *PatientRepository) GetPatient(ctx context.Context, id uuid.UUID) (*domain.Patient, error) {
	query := `
		SELECT id, name, sex, age, weight_kg, systolic_bp, diastolic_bp, blood_glucose,
			   anticoagulant_status, anticoagulant_medication, last_anticoagulant_dose,
			   arrival_time, last_known_well_time, created_at, updated_at
		FROM patients
		WHERE id = $1`

	var patient domain.Patient
	err := r.db.QueryRow(ctx, query, id).Scan(
		&patient.ID,
		&patient.Name,
		&patient.Sex,
		&patient.Age,
		&patient.WeightKg,
		&patient.SystolicBP,
		&patient.DiastolicBP,
		&patient.BloodGlucose,
		&patient.AnticoagStatus,
		&patient.AnticoagMedication,
		&patient.LastAnticoagDose,
		&patient.ArrivalTime,
		&patient.LastKnownWell,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("patient not found: %w", domain.ErrNotFound)
		}
		r.log.WithFields(logrus.Fields{
			"patient_id": id,
			"error":      err,
		}).Error("Failed to get patient")
		return nil, fmt.Errorf("getting patient: %w", err)
	}

	return &patient, nil
}

// ListPatients retrieves patients ordered by most recent arrival, paginated
func (r *PatientRepository) ListPatients(ctx context.Context, limit, offset int) ([]*domain.Patient, error) {
	query := `
		SELECT id, name, sex, age, weight_kg, systolic_bp, diastolic_bp, blood_glucose,
			   anticoagulant_status, anticoagulant_medication, last_anticoagulant_dose,
			   arrival_time, last_known_well_time, created_at, updated_at
		FROM patients
		ORDER BY arrival_time DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.WithError(err).Error("Failed to list patients")
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	defer rows.Close()

	var patients []*domain.Patient
	for rows.Next() {
		var patient domain.Patient
		err := rows.Scan(
			&patient.ID,
			&patient.Name,
			&patient.Sex,
			&patient.Age,
			&patient.WeightKg,
			&patient.SystolicBP,
			&patient.DiastolicBP,
			&patient.BloodGlucose,
			&patient.AnticoagStatus,
			&patient.AnticoagMedication,
			&patient.LastAnticoagDose,
			&patient.ArrivalTime,
			&patient.LastKnownWell,
			&patient.CreatedAt,
			&patient.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning patient row: %w", err)
		}
		patients = append(patients, &patient)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating patient rows: %w", err)
	}

	return patients, nil
}

// UpdatePatient applies an administrative correction to a patient record
func (r *PatientRepository) UpdatePatient(ctx context.Context, patient *domain.Patient) error {
	query := `
		UPDATE patients
		SET name = $2, sex = $3, age = $4, weight_kg = $5, systolic_bp = $6,
			diastolic_bp = $7, blood_glucose = $8, anticoagulant_status = $9,
			anticoagulant_medication = $10, last_anticoagulant_dose = $11,
			arrival_time = $12, last_known_well_time = $13,
			updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		patient.ID,
		patient.Name,
		patient.Sex,
		patient.Age,
		patient.WeightKg,
		patient.SystolicBP,
		patient.DiastolicBP,
		patient.BloodGlucose,
		patient.AnticoagStatus,
		patient.AnticoagMedication,
		patient.LastAnticoagDose,
		patient.ArrivalTime,
		patient.LastKnownWell,
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"patient_id": patient.ID,
			"error":      err,
		}).Error("Failed to update patient")
		return fmt.Errorf("updating patient: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("patient not found: %w", domain.ErrNotFound)
	}

	r.log.WithField("patient_id", patient.ID).Info("Patient updated successfully")
	return nil
}

// DeletePatient removes a patient and, via cascade, all their assessments
func (r *PatientRepository) DeletePatient(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"patient_id": id,
			"error":      err,
		}).Error("Failed to delete patient")
		return fmt.Errorf("deleting patient: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("patient not found: %w", domain.ErrNotFound)
	}

	r.log.WithField("patient_id", id).Info("Patient deleted successfully")
	return nil
}

// Package records provides an embedded SQLite record store for single-node
// deployments where running Postgres is overkill. It implements the same
// RecordStore contract as the Postgres repositories: raw component
// observations in, raw component observations out, nothing derived.
package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/neurotriage/stroke-triage-server/internal/domain"
)

// SQLiteStore implements the RecordStore interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	log    *logrus.Logger
}

// NewSQLiteStore creates a new SQLite record store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string, logger *logrus.Logger) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create schema
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.WithField("path", dbPath).Info("SQLite record store opened")

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
		log:    logger,
	}, nil
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS patients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		sex TEXT NOT NULL DEFAULT '',
		age INTEGER NOT NULL,
		weight_kg REAL NOT NULL,
		systolic_bp INTEGER NOT NULL,
		diastolic_bp INTEGER NOT NULL,
		blood_glucose REAL NOT NULL,
		anticoagulant_status TEXT NOT NULL DEFAULT 'UNKNOWN',
		anticoagulant_medication TEXT NOT NULL DEFAULT '',
		last_anticoagulant_dose DATETIME,
		arrival_time DATETIME NOT NULL,
		last_known_well_time DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		patient_id TEXT NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
		assessment_time DATETIME NOT NULL,
		be_fast TEXT NOT NULL DEFAULT '{}',
		nihss TEXT NOT NULL DEFAULT '{}',
		ct_scan_time DATETIME,
		hemorrhage_present INTEGER NOT NULL DEFAULT 0,
		aspects_regions TEXT,
		lvo_status TEXT NOT NULL DEFAULT 'NOT_ASSESSED',
		lvo_location TEXT NOT NULL DEFAULT '',
		recent_surgery INTEGER NOT NULL DEFAULT 0,
		prior_stroke_head_trauma INTEGER NOT NULL DEFAULT 0,
		gi_urinary_hemorrhage INTEGER NOT NULL DEFAULT 0,
		low_platelets INTEGER NOT NULL DEFAULT 0,
		elevated_inr INTEGER NOT NULL DEFAULT 0,
		current_anticoagulant_use INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assessments_patient_id ON assessments(patient_id);
	CREATE INDEX IF NOT EXISTS idx_patients_arrival_time ON patients(arrival_time);
	`

	_, err := db.Exec(schema)
	return err
}

// CreatePatient stores a new patient record.
func (s *SQLiteStore) CreatePatient(ctx context.Context, patient *domain.Patient) error {
	now := time.Now().UTC()
	patient.CreatedAt = now
	patient.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO patients (
			id, name, sex, age, weight_kg, systolic_bp, diastolic_bp, blood_glucose,
			anticoagulant_status, anticoagulant_medication, last_anticoagulant_dose,
			arrival_time, last_known_well_time, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		patient.ID.String(),
		patient.Name,
		patient.Sex,
		patient.Age,
		patient.WeightKg,
		patient.SystolicBP,
		patient.DiastolicBP,
		patient.BloodGlucose,
		string(patient.AnticoagStatus),
		patient.AnticoagMedication,
		nullableTime(patient.LastAnticoagDose),
		patient.ArrivalTime,
		nullableTime(patient.LastKnownWell),
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating patient: %w", err)
	}

	s.log.WithField("patient_id", patient.ID).Info("Patient created")
	return nil
}

// GetPatient retrieves a patient by ID.
func (s *SQLiteStore) GetPatient(ctx context.Context, id uuid.UUID) (*domain.Patient, error) {
	row := s.db.QueryRowContext(ctx, selectPatient+` WHERE id = ?`, id.String())
	patient, err := scanPatient(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("patient not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting patient: %w", err)
	}
	return patient, nil
}

// ListPatients retrieves patients ordered by most recent arrival.
func (s *SQLiteStore) ListPatients(ctx context.Context, limit, offset int) ([]*domain.Patient, error) {
	rows, err := s.db.QueryContext(ctx,
		selectPatient+` ORDER BY arrival_time DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	defer rows.Close()

	var patients []*domain.Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning patient row: %w", err)
		}
		patients = append(patients, patient)
	}
	return patients, rows.Err()
}

// UpdatePatient applies an administrative correction.
func (s *SQLiteStore) UpdatePatient(ctx context.Context, patient *domain.Patient) error {
	patient.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE patients
		SET name = ?, sex = ?, age = ?, weight_kg = ?, systolic_bp = ?,
			diastolic_bp = ?, blood_glucose = ?, anticoagulant_status = ?,
			anticoagulant_medication = ?, last_anticoagulant_dose = ?,
			arrival_time = ?, last_known_well_time = ?, updated_at = ?
		WHERE id = ?`,
		patient.Name,
		patient.Sex,
		patient.Age,
		patient.WeightKg,
		patient.SystolicBP,
		patient.DiastolicBP,
		patient.BloodGlucose,
		string(patient.AnticoagStatus),
		patient.AnticoagMedication,
		nullableTime(patient.LastAnticoagDose),
		patient.ArrivalTime,
		nullableTime(patient.LastKnownWell),
		patient.UpdatedAt,
		patient.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("updating patient: %w", err)
	}
	return requireRow(result, "patient")
}

// DeletePatient removes a patient and cascades to their assessments.
func (s *SQLiteStore) DeletePatient(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM patients WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting patient: %w", err)
	}
	return requireRow(result, "patient")
}

// CreateAssessment stores a new assessment record.
func (s *SQLiteStore) CreateAssessment(ctx context.Context, assessment *domain.Assessment) error {
	now := time.Now().UTC()
	assessment.CreatedAt = now
	assessment.UpdatedAt = now

	beFast, nihss, regions, err := encodeComponents(assessment)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO assessments (
			id, patient_id, assessment_time, be_fast, nihss, ct_scan_time,
			hemorrhage_present, aspects_regions, lvo_status, lvo_location,
			recent_surgery, prior_stroke_head_trauma, gi_urinary_hemorrhage,
			low_platelets, elevated_inr, current_anticoagulant_use,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		assessment.ID.String(),
		assessment.PatientID.String(),
		assessment.AssessmentTime,
		beFast,
		nihss,
		nullableTime(assessment.CTScanTime),
		assessment.HemorrhagePresent,
		regions,
		string(assessment.LVOStatus),
		assessment.LVOLocation,
		assessment.RecentSurgery,
		assessment.PriorStrokeHeadTrauma,
		assessment.GIUrinaryHemorrhage,
		assessment.LowPlatelets,
		assessment.ElevatedINR,
		assessment.CurrentAnticoagUse,
		assessment.CreatedAt,
		assessment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating assessment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"assessment_id": assessment.ID,
		"patient_id":    assessment.PatientID,
	}).Info("Assessment created")
	return nil
}

// GetAssessment retrieves an assessment by ID.
func (s *SQLiteStore) GetAssessment(ctx context.Context, id uuid.UUID) (*domain.Assessment, error) {
	row := s.db.QueryRowContext(ctx, selectAssessment+` WHERE id = ?`, id.String())
	assessment, err := scanAssessment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("assessment not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting assessment: %w", err)
	}
	return assessment, nil
}

// ListAssessments retrieves a patient's assessments, most recent first.
func (s *SQLiteStore) ListAssessments(ctx context.Context, patientID uuid.UUID) ([]*domain.Assessment, error) {
	rows, err := s.db.QueryContext(ctx,
		selectAssessment+` WHERE patient_id = ? ORDER BY assessment_time DESC`, patientID.String())
	if err != nil {
		return nil, fmt.Errorf("listing assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*domain.Assessment
	for rows.Next() {
		assessment, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assessment row: %w", err)
		}
		assessments = append(assessments, assessment)
	}
	return assessments, rows.Err()
}

// UpdateAssessment replaces the component observations of an assessment.
func (s *SQLiteStore) UpdateAssessment(ctx context.Context, assessment *domain.Assessment) error {
	assessment.UpdatedAt = time.Now().UTC()

	beFast, nihss, regions, err := encodeComponents(assessment)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE assessments
		SET assessment_time = ?, be_fast = ?, nihss = ?, ct_scan_time = ?,
			hemorrhage_present = ?, aspects_regions = ?, lvo_status = ?,
			lvo_location = ?, recent_surgery = ?, prior_stroke_head_trauma = ?,
			gi_urinary_hemorrhage = ?, low_platelets = ?, elevated_inr = ?,
			current_anticoagulant_use = ?, updated_at = ?
		WHERE id = ?`,
		assessment.AssessmentTime,
		beFast,
		nihss,
		nullableTime(assessment.CTScanTime),
		assessment.HemorrhagePresent,
		regions,
		string(assessment.LVOStatus),
		assessment.LVOLocation,
		assessment.RecentSurgery,
		assessment.PriorStrokeHeadTrauma,
		assessment.GIUrinaryHemorrhage,
		assessment.LowPlatelets,
		assessment.ElevatedINR,
		assessment.CurrentAnticoagUse,
		assessment.UpdatedAt,
		assessment.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("updating assessment: %w", err)
	}
	return requireRow(result, "assessment")
}

// DeleteAssessment removes an assessment record.
func (s *SQLiteStore) DeleteAssessment(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM assessments WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting assessment: %w", err)
	}
	return requireRow(result, "assessment")
}

// Ping checks store health.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ domain.RecordStore = (*SQLiteStore)(nil)

const selectPatient = `
	SELECT id, name, sex, age, weight_kg, systolic_bp, diastolic_bp, blood_glucose,
		   anticoagulant_status, anticoagulant_medication, last_anticoagulant_dose,
		   arrival_time, last_known_well_time, created_at, updated_at
	FROM patients`

const selectAssessment = `
	SELECT id, patient_id, assessment_time, be_fast, nihss, ct_scan_time,
		   hemorrhage_present, aspects_regions, lvo_status, lvo_location,
		   recent_surgery, prior_stroke_head_trauma, gi_urinary_hemorrhage,
		   low_platelets, elevated_inr, current_anticoagulant_use,
		   created_at, updated_at
	FROM assessments`

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanPatient scans a row into a Patient struct.
func scanPatient(s scanner) (*domain.Patient, error) {
	p := &domain.Patient{}
	var id, anticoagStatus string
	var lastDose, lkw sql.NullTime

	err := s.Scan(
		&id, &p.Name, &p.Sex, &p.Age, &p.WeightKg, &p.SystolicBP, &p.DiastolicBP, &p.BloodGlucose,
		&anticoagStatus, &p.AnticoagMedication, &lastDose,
		&p.ArrivalTime, &lkw, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing patient id: %w", err)
	}
	p.ID = parsed
	p.AnticoagStatus = domain.AnticoagulantStatus(anticoagStatus)
	if lastDose.Valid {
		p.LastAnticoagDose = &lastDose.Time
	}
	if lkw.Valid {
		p.LastKnownWell = &lkw.Time
	}
	return p, nil
}

// scanAssessment scans a row into an Assessment struct, decoding the JSON
// component columns.
func scanAssessment(s scanner) (*domain.Assessment, error) {
	a := &domain.Assessment{}
	var id, patientID, lvoStatus string
	var ctTime sql.NullTime
	var beFast, nihss string
	var regions sql.NullString

	err := s.Scan(
		&id, &patientID, &a.AssessmentTime, &beFast, &nihss, &ctTime,
		&a.HemorrhagePresent, &regions, &lvoStatus, &a.LVOLocation,
		&a.RecentSurgery, &a.PriorStrokeHeadTrauma, &a.GIUrinaryHemorrhage,
		&a.LowPlatelets, &a.ElevatedINR, &a.CurrentAnticoagUse,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if a.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parsing assessment id: %w", err)
	}
	if a.PatientID, err = uuid.Parse(patientID); err != nil {
		return nil, fmt.Errorf("parsing patient id: %w", err)
	}
	a.LVOStatus = domain.LVOStatus(lvoStatus)
	if ctTime.Valid {
		a.CTScanTime = &ctTime.Time
	}
	if err := json.Unmarshal([]byte(beFast), &a.BEFAST); err != nil {
		return nil, fmt.Errorf("decoding be_fast components: %w", err)
	}
	if err := json.Unmarshal([]byte(nihss), &a.NIHSS); err != nil {
		return nil, fmt.Errorf("decoding nihss components: %w", err)
	}
	if regions.Valid {
		if err := json.Unmarshal([]byte(regions.String), &a.ASPECTSRegions); err != nil {
			return nil, fmt.Errorf("decoding aspects_regions components: %w", err)
		}
	}
	return a, nil
}

// encodeComponents encodes component maps as JSON text. A nil ASPECTS region
// map stays NULL to preserve "not yet scored".
func encodeComponents(a *domain.Assessment) (beFast, nihss string, regions interface{}, err error) {
	b, err := json.Marshal(a.BEFAST)
	if err != nil {
		return "", "", nil, fmt.Errorf("encoding be_fast components: %w", err)
	}
	n, err := json.Marshal(a.NIHSS)
	if err != nil {
		return "", "", nil, fmt.Errorf("encoding nihss components: %w", err)
	}
	if a.ASPECTSRegions == nil {
		return string(b), string(n), nil, nil
	}
	r, err := json.Marshal(a.ASPECTSRegions)
	if err != nil {
		return "", "", nil, fmt.Errorf("encoding aspects_regions components: %w", err)
	}
	return string(b), string(n), string(r), nil
}

// requireRow converts a zero-rows-affected result into ErrNotFound.
func requireRow(result sql.Result, entity string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %w", entity, domain.ErrNotFound)
	}
	return nil
}

// nullableTime converts an optional time into a driver-friendly value,
// storing NULL for nil and the UTC time otherwise.
func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

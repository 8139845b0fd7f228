package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/neurotriage/stroke-triage-server/internal/domain"
)

// AssessmentRepository handles assessment record persistence. Component
// observation maps are stored as JSONB; derived scores and recommendations
// are never written.
type AssessmentRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *pgxpool.Pool, logger *logrus.Logger) *AssessmentRepository {
	return &AssessmentRepository{
		db:  db,
		log: logger,
	}
}

// CreateAssessment inserts a new assessment record
func (r *AssessmentRepository) CreateAssessment(ctx context.Context, assessment *domain.Assessment) error {
	beFast, nihss, regions, err := marshalComponents(assessment)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO assessments (
			id, patient_id, assessment_time, be_fast, nihss, ct_scan_time,
			hemorrhage_present, aspects_regions, lvo_status, lvo_location,
			recent_surgery, prior_stroke_head_trauma, gi_urinary_hemorrhage,
			low_platelets, elevated_inr, current_anticoagulant_use
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)`

	_, err = r.db.Exec(ctx, query,
		assessment.ID,
		assessment.PatientID,
		assessment.AssessmentTime,
		beFast,
		nihss,
		assessment.CTScanTime,
		assessment.HemorrhagePresent,
		regions,
		assessment.LVOStatus,
		assessment.LVOLocation,
		assessment.RecentSurgery,
		assessment.PriorStrokeHeadTrauma,
		assessment.GIUrinaryHemorrhage,
		assessment.LowPlatelets,
		assessment.ElevatedINR,
		assessment.CurrentAnticoagUse,
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"assessment_id": assessment.ID,
			"patient_id":    assessment.PatientID,
			"error":         err,
		}).Error("Failed to create assessment")
		return fmt.Errorf("creating assessment: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"assessment_id": assessment.ID,
		"patient_id":    assessment.PatientID,
	}).Info("Assessment created successfully")

	return nil
}

// GetAssessment retrieves an assessment by ID
func (r *AssessmentRepository) GetAssessment(ctx context.Context, id uuid.UUID) (*domain.Assessment, error) {
	query := selectAssessment + ` WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	assessment, err := scanAssessment(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("assessment not found: %w", domain.ErrNotFound)
		}
		r.log.WithFields(logrus.Fields{
			"assessment_id": id,
			"error":         err,
		}).Error("Failed to get assessment")
		return nil, fmt.Errorf("getting assessment: %w", err)
	}

	return assessment, nil
}

// ListAssessments retrieves all assessments for a patient, most recent first
func (r *AssessmentRepository) ListAssessments(ctx context.Context, patientID uuid.UUID) ([]*domain.Assessment, error) {
	query := selectAssessment + ` WHERE patient_id = $1 ORDER BY assessment_time DESC`

	rows, err := r.db.Query(ctx, query, patientID)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"patient_id": patientID,
			"error":      err,
		}).Error("Failed to list assessments")
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

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assessment rows: %w", err)
	}

	return assessments, nil
}

// UpdateAssessment replaces the component observations of an assessment.
// This is the single edit step of the assessment lifecycle.
func (r *AssessmentRepository) UpdateAssessment(ctx context.Context, assessment *domain.Assessment) error {
	beFast, nihss, regions, err := marshalComponents(assessment)
	if err != nil {
		return err
	}

	query := `
		UPDATE assessments
		SET assessment_time = $2, be_fast = $3, nihss = $4, ct_scan_time = $5,
			hemorrhage_present = $6, aspects_regions = $7, lvo_status = $8,
			lvo_location = $9, recent_surgery = $10, prior_stroke_head_trauma = $11,
			gi_urinary_hemorrhage = $12, low_platelets = $13, elevated_inr = $14,
			current_anticoagulant_use = $15, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		assessment.ID,
		assessment.AssessmentTime,
		beFast,
		nihss,
		assessment.CTScanTime,
		assessment.HemorrhagePresent,
		regions,
		assessment.LVOStatus,
		assessment.LVOLocation,
		assessment.RecentSurgery,
		assessment.PriorStrokeHeadTrauma,
		assessment.GIUrinaryHemorrhage,
		assessment.LowPlatelets,
		assessment.ElevatedINR,
		assessment.CurrentAnticoagUse,
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"assessment_id": assessment.ID,
			"error":         err,
		}).Error("Failed to update assessment")
		return fmt.Errorf("updating assessment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("assessment not found: %w", domain.ErrNotFound)
	}

	r.log.WithField("assessment_id", assessment.ID).Info("Assessment updated successfully")
	return nil
}

// DeleteAssessment removes an assessment record
func (r *AssessmentRepository) DeleteAssessment(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM assessments WHERE id = $1`, id)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"assessment_id": id,
			"error":         err,
		}).Error("Failed to delete assessment")
		return fmt.Errorf("deleting assessment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("assessment not found: %w", domain.ErrNotFound)
	}

	r.log.WithField("assessment_id", id).Info("Assessment deleted successfully")
	return nil
}

const selectAssessment = `
	SELECT id, patient_id, assessment_time, be_fast, nihss, ct_scan_time,
		   hemorrhage_present, aspects_regions, lvo_status, lvo_location,
		   recent_surgery, prior_stroke_head_trauma, gi_urinary_hemorrhage,
		   low_platelets, elevated_inr, current_anticoagulant_use,
		   created_at, updated_at
	FROM assessments`

// scanAssessment scans one row into an Assessment, decoding the JSONB
// component columns.
func scanAssessment(row pgx.Row) (*domain.Assessment, error) {
	var assessment domain.Assessment
	var beFast, nihss []byte
	var regions []byte

	err := row.Scan(
		&assessment.ID,
		&assessment.PatientID,
		&assessment.AssessmentTime,
		&beFast,
		&nihss,
		&assessment.CTScanTime,
		&assessment.HemorrhagePresent,
		&regions,
		&assessment.LVOStatus,
		&assessment.LVOLocation,
		&assessment.RecentSurgery,
		&assessment.PriorStrokeHeadTrauma,
		&assessment.GIUrinaryHemorrhage,
		&assessment.LowPlatelets,
		&assessment.ElevatedINR,
		&assessment.CurrentAnticoagUse,
		&assessment.CreatedAt,
		&assessment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(beFast, &assessment.BEFAST); err != nil {
		return nil, fmt.Errorf("decoding be_fast components: %w", err)
	}
	if err := json.Unmarshal(nihss, &assessment.NIHSS); err != nil {
		return nil, fmt.Errorf("decoding nihss components: %w", err)
	}
	if regions != nil {
		if err := json.Unmarshal(regions, &assessment.ASPECTSRegions); err != nil {
			return nil, fmt.Errorf("decoding aspects_regions components: %w", err)
		}
	}

	return &assessment, nil
}

// marshalComponents encodes the component observation maps for JSONB storage.
// A nil ASPECTS region map stays NULL to preserve "not yet scored".
func marshalComponents(assessment *domain.Assessment) (beFast, nihss, regions []byte, err error) {
	if beFast, err = json.Marshal(assessment.BEFAST); err != nil {
		return nil, nil, nil, fmt.Errorf("encoding be_fast components: %w", err)
	}
	if nihss, err = json.Marshal(assessment.NIHSS); err != nil {
		return nil, nil, nil, fmt.Errorf("encoding nihss components: %w", err)
	}
	if assessment.ASPECTSRegions != nil {
		if regions, err = json.Marshal(assessment.ASPECTSRegions); err != nil {
			return nil, nil, nil, fmt.Errorf("encoding aspects_regions components: %w", err)
		}
	}
	return beFast, nihss, regions, nil
}

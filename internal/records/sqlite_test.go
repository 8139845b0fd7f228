package records

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurotriage/stroke-triage-server/internal/domain"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func testPatient() *domain.Patient {
	lkw := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Patient{
		ID:             uuid.New(),
		Name:           "Jane Doe",
		Sex:            "F",
		Age:            67,
		WeightKg:       70,
		SystolicBP:     150,
		DiastolicBP:    90,
		BloodGlucose:   6.1,
		AnticoagStatus: domain.ANTICOAG_NONE,
		ArrivalTime:    lkw.Add(2 * time.Hour),
		LastKnownWell:  &lkw,
	}
}

func testAssessmentFor(patientID uuid.UUID) *domain.Assessment {
	return &domain.Assessment{
		ID:             uuid.New(),
		PatientID:      patientID,
		AssessmentTime: time.Date(2024, 3, 1, 11, 15, 0, 0, time.UTC),
		BEFAST: map[string]bool{
			domain.ComponentBEFASTFaceDrooping: true,
			domain.ComponentBEFASTArmWeakness:  true,
		},
		NIHSS: map[string]int{
			domain.ComponentNIHSS4FacialPalsy:    2,
			domain.ComponentNIHSS5bMotorRightArm: 3,
		},
		LVOStatus: domain.LVO_NOT_ASSESSED,
	}
}

func TestNewSQLiteStore(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "records.db")

	store, err := NewSQLiteStore(dbPath, logger)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist")
	assert.NoError(t, store.Ping(context.Background()))
}

func TestSQLiteStore_PatientRoundTrip(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	patient := testPatient()
	require.NoError(t, store.CreatePatient(ctx, patient))
	assert.False(t, patient.CreatedAt.IsZero(), "CreatedAt should be set")

	retrieved, err := store.GetPatient(ctx, patient.ID)
	require.NoError(t, err)

	assert.Equal(t, patient.ID, retrieved.ID)
	assert.Equal(t, patient.Name, retrieved.Name)
	assert.Equal(t, patient.Sex, retrieved.Sex)
	assert.Equal(t, patient.Age, retrieved.Age)
	assert.Equal(t, patient.WeightKg, retrieved.WeightKg)
	assert.Equal(t, domain.ANTICOAG_NONE, retrieved.AnticoagStatus)
	require.NotNil(t, retrieved.LastKnownWell)
	assert.True(t, retrieved.LastKnownWell.Equal(*patient.LastKnownWell))
	assert.Nil(t, retrieved.LastAnticoagDose)
}

func TestSQLiteStore_GetPatient_NotFound(t *testing.T) {
	store := createTestStore(t)

	_, err := store.GetPatient(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSQLiteStore_ListPatients(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	first := testPatient()
	second := testPatient()
	second.ArrivalTime = first.ArrivalTime.Add(time.Hour)

	require.NoError(t, store.CreatePatient(ctx, first))
	require.NoError(t, store.CreatePatient(ctx, second))

	patients, err := store.ListPatients(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, second.ID, patients[0].ID, "most recent arrival first")

	// Pagination
	patients, err = store.ListPatients(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, first.ID, patients[0].ID)
}

func TestSQLiteStore_UpdatePatient(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	patient := testPatient()
	require.NoError(t, store.CreatePatient(ctx, patient))

	patient.SystolicBP = 188
	patient.AnticoagStatus = domain.ANTICOAG_CURRENT
	require.NoError(t, store.UpdatePatient(ctx, patient))

	retrieved, err := store.GetPatient(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, 188, retrieved.SystolicBP)
	assert.Equal(t, domain.ANTICOAG_CURRENT, retrieved.AnticoagStatus)

	// Updating a missing record reports not found.
	missing := testPatient()
	assert.True(t, errors.Is(store.UpdatePatient(ctx, missing), domain.ErrNotFound))
}

func TestSQLiteStore_AssessmentRoundTrip(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	patient := testPatient()
	require.NoError(t, store.CreatePatient(ctx, patient))

	assessment := testAssessmentFor(patient.ID)
	ct := assessment.AssessmentTime.Add(20 * time.Minute)
	assessment.CTScanTime = &ct
	assessment.ASPECTSRegions = map[string]bool{"m1": true, "caudate": false}
	assessment.LVOStatus = domain.LVO_PRESENT
	assessment.LVOLocation = "left M1"
	assessment.ElevatedINR = true

	require.NoError(t, store.CreateAssessment(ctx, assessment))

	retrieved, err := store.GetAssessment(ctx, assessment.ID)
	require.NoError(t, err)

	assert.Equal(t, assessment.PatientID, retrieved.PatientID)
	assert.Equal(t, assessment.BEFAST, retrieved.BEFAST)
	assert.Equal(t, assessment.NIHSS, retrieved.NIHSS)
	assert.Equal(t, assessment.ASPECTSRegions, retrieved.ASPECTSRegions)
	assert.Equal(t, domain.LVO_PRESENT, retrieved.LVOStatus)
	assert.Equal(t, "left M1", retrieved.LVOLocation)
	assert.True(t, retrieved.ElevatedINR)
	assert.False(t, retrieved.LowPlatelets)
	require.NotNil(t, retrieved.CTScanTime)
	assert.True(t, retrieved.CTScanTime.Equal(ct))
}

func TestSQLiteStore_AssessmentUnscoredImagingStaysNil(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	patient := testPatient()
	require.NoError(t, store.CreatePatient(ctx, patient))

	assessment := testAssessmentFor(patient.ID)
	require.NoError(t, store.CreateAssessment(ctx, assessment))

	retrieved, err := store.GetAssessment(ctx, assessment.ID)
	require.NoError(t, err)
	assert.Nil(t, retrieved.ASPECTSRegions, "unscored imaging must round-trip as nil, not empty")
	assert.Nil(t, retrieved.CTScanTime)
}

func TestSQLiteStore_UpdateAssessment(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	patient := testPatient()
	require.NoError(t, store.CreatePatient(ctx, patient))

	assessment := testAssessmentFor(patient.ID)
	require.NoError(t, store.CreateAssessment(ctx, assessment))

	assessment.NIHSS[domain.ComponentNIHSS2BestGaze] = 1
	assessment.ASPECTSRegions = map[string]bool{"insular_ribbon": true}
	require.NoError(t, store.UpdateAssessment(ctx, assessment))

	retrieved, err := store.GetAssessment(ctx, assessment.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, retrieved.NIHSS[domain.ComponentNIHSS2BestGaze])
	assert.Equal(t, map[string]bool{"insular_ribbon": true}, retrieved.ASPECTSRegions)
}

func TestSQLiteStore_ListAssessments(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	patient := testPatient()
	require.NoError(t, store.CreatePatient(ctx, patient))

	first := testAssessmentFor(patient.ID)
	second := testAssessmentFor(patient.ID)
	second.AssessmentTime = first.AssessmentTime.Add(30 * time.Minute)

	require.NoError(t, store.CreateAssessment(ctx, first))
	require.NoError(t, store.CreateAssessment(ctx, second))

	assessments, err := store.ListAssessments(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, assessments, 2)
	assert.Equal(t, second.ID, assessments[0].ID, "most recent first")
}

func TestSQLiteStore_DeletePatientCascades(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	patient := testPatient()
	require.NoError(t, store.CreatePatient(ctx, patient))

	assessment := testAssessmentFor(patient.ID)
	require.NoError(t, store.CreateAssessment(ctx, assessment))

	require.NoError(t, store.DeletePatient(ctx, patient.ID))

	_, err := store.GetPatient(ctx, patient.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = store.GetAssessment(ctx, assessment.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "assessments should be removed with the patient")
}

func TestSQLiteStore_DeleteAssessment_NotFound(t *testing.T) {
	store := createTestStore(t)

	err := store.DeleteAssessment(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

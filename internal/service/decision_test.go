package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurotriage/stroke-triage-server/internal/domain"
)

func testGuidelines() *domain.GuidelineConfig {
	return &domain.GuidelineConfig{
		ThrombolysisWindowHours:  4.5,
		ThrombectomyWindowHours:  6.0,
		NIHSSMinSeverity:         4,
		ASPECTSMinFavorable:      6,
		TPADoseMgPerKg:           0.9,
		TPAMaxDoseMg:             90.0,
		TPAMaxSystolicBP:         185,
		TPAMaxDiastolicBP:        110,
		PermissiveSystolicBP:     220,
		PermissiveDiastolicBP:    120,
		ASPECTSMildThreshold:     8,
		ASPECTSModerateThreshold: 5,
		DoorToCTMinutes:          20,
		DoorToNeedleMinutes:      60,
		DoorToPunctureMinutes:    90,
	}
}

func testDecisionService(thrombectomyCapable bool) *DecisionService {
	facility := &domain.FacilityConfig{
		Name:                "Test General",
		ThrombectomyCapable: thrombectomyCapable,
	}
	return NewDecisionService(testGuidelines(), facility, testLogger())
}

// decisionInput builds a tPA-eligible baseline: 3h since onset, NIHSS 6,
// normal BP, no contraindications, no LVO workup.
func decisionInput(hoursSinceLKW float64) *domain.DecisionInput {
	lkw := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	eval := lkw.Add(time.Duration(hoursSinceLKW * float64(time.Hour)))
	arrival := eval.Add(-15 * time.Minute)
	return &domain.DecisionInput{
		NIHSS:          6,
		ASPECTS:        9,
		LVOStatus:      domain.LVO_NOT_ASSESSED,
		LastKnownWell:  &lkw,
		EvaluationTime: &eval,
		ArrivalTime:    &arrival,
		WeightKg:       70,
		SystolicBP:     150,
		DiastolicBP:    90,
	}
}

func TestDecide_ThrombolysisEligible(t *testing.T) {
	s := testDecisionService(false)

	rec, err := s.Decide(decisionInput(3.0))
	require.NoError(t, err)

	assert.Equal(t, domain.ELIGIBLE, rec.TPAEligibility)
	require.NotNil(t, rec.TPADoseMg)
	assert.Equal(t, 63.0, *rec.TPADoseMg, "0.9 mg/kg at 70 kg")
	assert.Equal(t, domain.TREAT_AND_ADMIT, rec.Triage)
	assert.Equal(t, 185, rec.BPTarget.SystolicMax)
	assert.Equal(t, 110, rec.BPTarget.DiastolicMax)
}

func TestDecide_WindowBoundaryIsInclusive(t *testing.T) {
	s := testDecisionService(false)

	// Exactly at the window boundary: still eligible.
	rec, err := s.Decide(decisionInput(4.5))
	require.NoError(t, err)
	assert.Equal(t, domain.ELIGIBLE, rec.TPAEligibility)

	// Just past it: not eligible, and no dose is computed.
	rec, err = s.Decide(decisionInput(4.51))
	require.NoError(t, err)
	assert.Equal(t, domain.NOT_ELIGIBLE, rec.TPAEligibility)
	assert.Equal(t, "outside thrombolysis window", rec.TPAReason)
	assert.Nil(t, rec.TPADoseMg)
}

func TestDecide_HemorrhageContraindicatesEverything(t *testing.T) {
	s := testDecisionService(true)

	input := decisionInput(2.0)
	input.HemorrhagePresent = true
	input.LVOStatus = domain.LVO_PRESENT

	rec, err := s.Decide(input)
	require.NoError(t, err)

	assert.Equal(t, domain.CONTRAINDICATED, rec.TPAEligibility)
	assert.Equal(t, domain.CONTRAINDICATED, rec.Thrombectomy)
	assert.Equal(t, domain.STROKE_UNIT, rec.Triage)
	assert.Nil(t, rec.TPADoseMg)
	// Neither treatment on the table: permissive BP management.
	assert.Equal(t, 220, rec.BPTarget.SystolicMax)
	assert.Equal(t, 120, rec.BPTarget.DiastolicMax)
}

func TestDecide_BloodPressureContraindication(t *testing.T) {
	s := testDecisionService(false)

	input := decisionInput(2.0)
	input.SystolicBP = 190

	rec, err := s.Decide(input)
	require.NoError(t, err)
	assert.Equal(t, domain.CONTRAINDICATED, rec.TPAEligibility)
	assert.Equal(t, "blood pressure above treatment limit", rec.TPAReason)

	input = decisionInput(2.0)
	input.DiastolicBP = 115

	rec, err = s.Decide(input)
	require.NoError(t, err)
	assert.Equal(t, domain.CONTRAINDICATED, rec.TPAEligibility)
}

func TestDecide_ContraindicationFlags(t *testing.T) {
	s := testDecisionService(false)

	tests := []struct {
		name   string
		mutate func(in *domain.DecisionInput)
		reason string
	}{
		{"Recent surgery", func(in *domain.DecisionInput) { in.RecentSurgery = true }, "major bleeding risk factors"},
		{"Prior stroke or head trauma", func(in *domain.DecisionInput) { in.PriorStrokeHeadTrauma = true }, "major bleeding risk factors"},
		{"GI or urinary hemorrhage", func(in *domain.DecisionInput) { in.GIUrinaryHemorrhage = true }, "major bleeding risk factors"},
		{"Low platelets", func(in *domain.DecisionInput) { in.LowPlatelets = true }, "platelet count below threshold"},
		{"Elevated INR", func(in *domain.DecisionInput) { in.ElevatedINR = true }, "elevated INR"},
		{"Current anticoagulant use", func(in *domain.DecisionInput) { in.CurrentAnticoagUse = true }, "current anticoagulant use"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := decisionInput(2.0)
			tt.mutate(input)

			rec, err := s.Decide(input)
			require.NoError(t, err)
			assert.Equal(t, domain.CONTRAINDICATED, rec.TPAEligibility)
			assert.Equal(t, tt.reason, rec.TPAReason)
		})
	}
}

func TestDecide_MildDeficitBelowSeverityFloor(t *testing.T) {
	s := testDecisionService(false)

	input := decisionInput(2.0)
	input.NIHSS = 3

	rec, err := s.Decide(input)
	require.NoError(t, err)
	assert.Equal(t, domain.NOT_ELIGIBLE, rec.TPAEligibility)
	assert.Equal(t, "deficit below minimum severity", rec.TPAReason)
	assert.Equal(t, domain.STROKE_UNIT, rec.Triage)
}

func TestDecide_ThrombectomyTransfer(t *testing.T) {
	// Facility cannot perform thrombectomy: eligible candidates transfer.
	s := testDecisionService(false)

	input := decisionInput(5.0) // outside tPA window, inside thrombectomy window
	input.LVOStatus = domain.LVO_PRESENT
	input.ASPECTS = 8

	rec, err := s.Decide(input)
	require.NoError(t, err)

	assert.Equal(t, domain.NOT_ELIGIBLE, rec.TPAEligibility)
	assert.Equal(t, domain.ELIGIBLE, rec.Thrombectomy)
	assert.Equal(t, domain.TRANSFER_TO_CSC, rec.Triage)
	// Thrombectomy candidacy keeps the tight BP band.
	assert.Equal(t, 185, rec.BPTarget.SystolicMax)
}

func TestDecide_ThrombectomyAtCapableFacility(t *testing.T) {
	s := testDecisionService(true)

	input := decisionInput(5.0)
	input.LVOStatus = domain.LVO_PRESENT
	input.ASPECTS = 8

	rec, err := s.Decide(input)
	require.NoError(t, err)

	assert.Equal(t, domain.ELIGIBLE, rec.Thrombectomy)
	assert.Equal(t, domain.STROKE_UNIT, rec.Triage, "capable facility treats in place")
}

func TestDecide_ThrombectomyWindowBoundary(t *testing.T) {
	s := testDecisionService(false)

	input := decisionInput(6.0)
	input.LVOStatus = domain.LVO_PRESENT

	rec, err := s.Decide(input)
	require.NoError(t, err)
	assert.Equal(t, domain.ELIGIBLE, rec.Thrombectomy)

	input = decisionInput(6.01)
	input.LVOStatus = domain.LVO_PRESENT

	rec, err = s.Decide(input)
	require.NoError(t, err)
	assert.Equal(t, domain.NOT_ELIGIBLE, rec.Thrombectomy)
	assert.Equal(t, "outside thrombectomy window", rec.ThrombectomyReason)
}

func TestDecide_UnfavorableImaging(t *testing.T) {
	s := testDecisionService(true)

	input := decisionInput(3.0)
	input.LVOStatus = domain.LVO_PRESENT
	input.ASPECTS = 4

	rec, err := s.Decide(input)
	require.NoError(t, err)
	assert.Equal(t, domain.NOT_ELIGIBLE, rec.Thrombectomy)
	assert.Equal(t, "unfavorable imaging (ASPECTS below threshold)", rec.ThrombectomyReason)
}

func TestDecide_NoLVODetected(t *testing.T) {
	s := testDecisionService(true)

	for _, status := range []domain.LVOStatus{domain.LVO_NOT_ASSESSED, domain.LVO_ABSENT, domain.LVO_UNKNOWN} {
		input := decisionInput(3.0)
		input.LVOStatus = status

		rec, err := s.Decide(input)
		require.NoError(t, err)
		assert.Equal(t, domain.NOT_ELIGIBLE, rec.Thrombectomy, "status %s", status)
	}
}

func TestDecide_MissingTimestamps(t *testing.T) {
	s := testDecisionService(false)

	input := decisionInput(2.0)
	input.LastKnownWell = nil
	_, err := s.Decide(input)
	var incomplete *domain.IncompleteInputError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "last_known_well_time", incomplete.Component)

	input = decisionInput(2.0)
	input.EvaluationTime = nil
	_, err = s.Decide(input)
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "evaluation_time", incomplete.Component)
}

func TestDecide_EvaluationBeforeOnset(t *testing.T) {
	s := testDecisionService(false)

	lkw := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	eval := lkw.Add(-10 * time.Minute)
	input := decisionInput(2.0)
	input.LastKnownWell = &lkw
	input.EvaluationTime = &eval

	_, err := s.Decide(input)
	var timing *domain.InvalidTimingError
	require.ErrorAs(t, err, &timing)
}

func TestDecide_TimeTargets(t *testing.T) {
	s := testDecisionService(false)

	input := decisionInput(2.0)
	rec, err := s.Decide(input)
	require.NoError(t, err)

	require.NotNil(t, rec.TimeTargets)
	arrival := *input.ArrivalTime
	assert.Equal(t, arrival.Add(20*time.Minute), rec.TimeTargets.DoorToCT)
	assert.Equal(t, arrival.Add(60*time.Minute), rec.TimeTargets.DoorToNeedle)
	assert.Equal(t, arrival.Add(90*time.Minute), rec.TimeTargets.DoorToPuncture)

	// Without an arrival time no targets are derived.
	input = decisionInput(2.0)
	input.ArrivalTime = nil
	rec, err = s.Decide(input)
	require.NoError(t, err)
	assert.Nil(t, rec.TimeTargets)
}

func TestHoursSinceLKW(t *testing.T) {
	s := testDecisionService(false)

	lkw := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	hours, err := s.HoursSinceLKW(lkw, lkw.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1.5, hours)

	// 100 minutes is 1.666... hours, rounded to two decimals.
	hours, err = s.HoursSinceLKW(lkw, lkw.Add(100*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1.67, hours)

	_, err = s.HoursSinceLKW(lkw, lkw.Add(-time.Minute))
	var timing *domain.InvalidTimingError
	require.ErrorAs(t, err, &timing)
}

func TestTPADose(t *testing.T) {
	s := testDecisionService(false)

	tests := []struct {
		weightKg float64
		expected float64
	}{
		{70, 63.0},
		{78.5, 70.7},
		{100, 90.0},  // exactly at the cap
		{110, 90.0},  // above the cap
		{50.5, 45.5}, // 45.45 rounds to one decimal
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, s.TPADose(tt.weightKg), "weight %.1f", tt.weightKg)
	}
}

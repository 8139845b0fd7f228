package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScoreSet holds the standardized scores derived from one assessment's
// component observations.
type ScoreSet struct {
	NIHSS       int         `json:"nihss"`
	MNIHSS      int         `json:"mnihss"`
	BEFAST      int         `json:"be_fast"`
	RACE        int         `json:"race"`
	ASPECTS     int         `json:"aspects"`
	ASPECTSBand ASPECTSBand `json:"aspects_band"`
	ASPECTSText string      `json:"aspects_interpretation"`
}

// BPTarget is a blood-pressure management target as a systolic/diastolic
// upper-bound pair in mmHg.
type BPTarget struct {
	SystolicMax  int `json:"systolic_max"`
	DiastolicMax int `json:"diastolic_max"`
}

// TimeTargets are the guideline door-to-intervention targets derived from the
// patient's arrival time.
type TimeTargets struct {
	DoorToCT       time.Time `json:"door_to_ct"`
	DoorToNeedle   time.Time `json:"door_to_needle"`
	DoorToPuncture time.Time `json:"door_to_puncture"`
}

// Recommendation holds the guideline-derived treatment and triage outputs for
// one assessment.
type Recommendation struct {
	TPAEligibility     Eligibility `json:"tpa_eligibility"`
	TPAReason          string      `json:"tpa_reason"`
	Thrombectomy       Eligibility `json:"thrombectomy_eligibility"`
	ThrombectomyReason string      `json:"thrombectomy_reason"`

	// TPADoseMg is set only when thrombolysis is eligible, in mg rounded to
	// one decimal place.
	TPADoseMg *float64 `json:"tpa_dose_mg,omitempty"`

	BPTarget    BPTarget             `json:"bp_target"`
	Triage      TriageRecommendation `json:"triage"`
	TriageText  string               `json:"triage_text"`
	TimeTargets *TimeTargets         `json:"time_targets,omitempty"`
}

// Evaluation is the complete derived view of one assessment: scores plus
// recommendations, with the elapsed time they were computed from. It is
// always recomputed from the stored components and never persisted.
type Evaluation struct {
	PatientID      uuid.UUID      `json:"patient_id"`
	AssessmentID   uuid.UUID      `json:"assessment_id"`
	HoursSinceLKW  float64        `json:"hours_since_lkw"`
	Scores         ScoreSet       `json:"scores"`
	Recommendation Recommendation `json:"recommendation"`
	ComputedAt     time.Time      `json:"computed_at"`
}

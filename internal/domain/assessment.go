package domain

import (
	"time"

	"github.com/google/uuid"
)

// Assessment represents one clinical evaluation of a patient: the raw
// component observations collected at the bedside and from imaging. Derived
// scores and recommendations are pure functions of these components and are
// computed on demand, never stored, so a stored assessment can never disagree
// with a fresh recomputation.
type Assessment struct {
	ID             uuid.UUID `json:"id"`
	PatientID      uuid.UUID `json:"patient_id"`
	AssessmentTime time.Time `json:"assessment_time"`

	// BE-FAST+ findings, keyed by the BEFAST component vocabulary.
	BEFAST map[string]bool `json:"be_fast"`

	// NIHSS item severity codes, keyed by the NIHSS component vocabulary.
	// Items not yet examined are simply absent from the map.
	NIHSS map[string]int `json:"nihss"`

	// Imaging findings.
	CTScanTime        *time.Time      `json:"ct_scan_time,omitempty"`
	HemorrhagePresent bool            `json:"hemorrhage_present"`
	ASPECTSRegions    map[string]bool `json:"aspects_regions"` // region name -> abnormal
	LVOStatus         LVOStatus       `json:"lvo_status"`
	LVOLocation       string          `json:"lvo_location,omitempty"`

	// Thrombolysis contraindication flags.
	RecentSurgery         bool `json:"recent_surgery"`
	PriorStrokeHeadTrauma bool `json:"prior_stroke_head_trauma"`
	GIUrinaryHemorrhage   bool `json:"gi_urinary_hemorrhage"`
	LowPlatelets          bool `json:"low_platelets"`
	ElevatedINR           bool `json:"elevated_inr"`
	CurrentAnticoagUse    bool `json:"current_anticoagulant_use"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Validate checks component keys and values against the documented
// vocabularies before the assessment is persisted. It does not require
// completeness: partially recorded assessments are storable, and the engines
// fail typed at evaluation time instead.
func (a *Assessment) Validate() error {
	if a.PatientID == uuid.Nil {
		return NewIncompleteInputError("patient_id")
	}
	if !a.LVOStatus.IsValid() {
		return ErrInvalidLVOStatus
	}
	for name, value := range a.NIHSS {
		r, ok := NIHSSItems[name]
		if !ok {
			return NewInvalidComponentError(name, value, "unknown NIHSS item")
		}
		if !r.Contains(value) {
			return NewInvalidComponentError(name, value, "value outside item range")
		}
	}
	for name := range a.BEFAST {
		if !isBEFASTItem(name) {
			return NewInvalidComponentError(name, a.BEFAST[name], "unknown BE-FAST item")
		}
	}
	for name := range a.ASPECTSRegions {
		if !IsASPECTSRegion(name) {
			return NewInvalidComponentError(name, a.ASPECTSRegions[name], "unknown ASPECTS region")
		}
	}
	return nil
}

// EvaluationTime returns the timestamp the decision engine measures elapsed
// time against: the CT scan time when imaging is available, otherwise the
// assessment time.
func (a *Assessment) EvaluationTime() time.Time {
	if a.CTScanTime != nil {
		return *a.CTScanTime
	}
	return a.AssessmentTime
}

func isBEFASTItem(name string) bool {
	for _, item := range BEFASTItems {
		if item == name {
			return true
		}
	}
	return false
}

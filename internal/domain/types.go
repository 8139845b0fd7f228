// Package domain contains core business entities and types for acute stroke
// assessment and triage, following the simplified AHA/ASA guideline rules used
// by this demonstration system.
//
// The scoring and decision semantics here are educational. They are not a
// medical device and must not be used for real clinical decision support.
package domain

import "errors"

// AnticoagulantStatus captures a patient's anticoagulant use at arrival.
type AnticoagulantStatus string

const (
	ANTICOAG_NONE    AnticoagulantStatus = "NONE"
	ANTICOAG_CURRENT AnticoagulantStatus = "CURRENT"
	ANTICOAG_RECENT  AnticoagulantStatus = "RECENT"
	ANTICOAG_UNKNOWN AnticoagulantStatus = "UNKNOWN"
)

// LVOStatus represents the large vessel occlusion finding on vascular imaging.
type LVOStatus string

const (
	LVO_NOT_ASSESSED LVOStatus = "NOT_ASSESSED"
	LVO_PRESENT      LVOStatus = "PRESENT"
	LVO_ABSENT       LVOStatus = "ABSENT"
	LVO_UNKNOWN      LVOStatus = "UNKNOWN"
)

// Eligibility represents a treatment eligibility determination.
type Eligibility string

const (
	ELIGIBLE        Eligibility = "ELIGIBLE"
	NOT_ELIGIBLE    Eligibility = "NOT_ELIGIBLE"
	CONTRAINDICATED Eligibility = "CONTRAINDICATED"
)

// TriageRecommendation is the destination/disposition recommendation produced
// by the decision engine. The set is closed; rule evaluation always yields
// exactly one of these.
type TriageRecommendation string

const (
	TRANSFER_TO_CSC TriageRecommendation = "TRANSFER_TO_CSC"
	TREAT_AND_ADMIT TriageRecommendation = "TREAT_AND_ADMIT"
	STROKE_UNIT     TriageRecommendation = "STROKE_UNIT_CARE"
)

// ASPECTSBand is the textual severity band for an ASPECTS score.
type ASPECTSBand string

const (
	ASPECTS_NORMAL   ASPECTSBand = "NORMAL"
	ASPECTS_MILD     ASPECTSBand = "MILD"
	ASPECTS_MODERATE ASPECTSBand = "MODERATE"
	ASPECTS_SEVERE   ASPECTSBand = "SEVERE"
)

// Validation errors for record integrity
var (
	ErrNotFound                  = errors.New("not found")
	ErrInvalidAnticoagulantState = errors.New("invalid anticoagulant status")
	ErrInvalidLVOStatus          = errors.New("invalid LVO status")
	ErrInvalidEligibility        = errors.New("invalid eligibility")
)

// IsValid reports whether the status is one of the defined values.
func (s AnticoagulantStatus) IsValid() bool {
	switch s {
	case ANTICOAG_NONE, ANTICOAG_CURRENT, ANTICOAG_RECENT, ANTICOAG_UNKNOWN:
		return true
	default:
		return false
	}
}

func (s AnticoagulantStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is one of the defined values.
func (s LVOStatus) IsValid() bool {
	switch s {
	case LVO_NOT_ASSESSED, LVO_PRESENT, LVO_ABSENT, LVO_UNKNOWN:
		return true
	default:
		return false
	}
}

func (s LVOStatus) String() string {
	return string(s)
}

// IsValid reports whether the eligibility is one of the defined values.
func (e Eligibility) IsValid() bool {
	switch e {
	case ELIGIBLE, NOT_ELIGIBLE, CONTRAINDICATED:
		return true
	default:
		return false
	}
}

func (e Eligibility) String() string {
	return string(e)
}

// IsEligible reports whether treatment may proceed under this determination.
func (e Eligibility) IsEligible() bool {
	return e == ELIGIBLE
}

func (r TriageRecommendation) String() string {
	return string(r)
}

// Description returns the human-readable guidance for a triage recommendation,
// suitable for display by the presentation layer.
func (r TriageRecommendation) Description() string {
	switch r {
	case TRANSFER_TO_CSC:
		return "Immediate transfer to a Comprehensive Stroke Center for thrombectomy"
	case TREAT_AND_ADMIT:
		return "Treat with IV thrombolysis and admit for stroke care"
	case STROKE_UNIT:
		return "Standard stroke-unit care and stabilization"
	default:
		return "Unknown recommendation"
	}
}

func (b ASPECTSBand) String() string {
	return string(b)
}

// Description returns the interpretation text for an ASPECTS severity band.
func (b ASPECTSBand) Description() string {
	switch b {
	case ASPECTS_NORMAL:
		return "Normal CT scan (no early ischemic changes)"
	case ASPECTS_MILD:
		return "Mild early ischemic changes"
	case ASPECTS_MODERATE:
		return "Moderate early ischemic changes"
	case ASPECTS_SEVERE:
		return "Severe early ischemic changes (significant infarction)"
	default:
		return "Unknown band"
	}
}

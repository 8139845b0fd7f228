package domain

import (
	"time"

	"github.com/google/uuid"
)

// Patient represents a patient in the stroke assessment system, holding the
// demographic and arrival information recorded at registration. A patient is
// immutable after creation except for administrative correction via the
// record store.
type Patient struct {
	ID                 uuid.UUID           `json:"id"`
	Name               string              `json:"name,omitempty"`
	Sex                string              `json:"sex,omitempty"`
	Age                int                 `json:"age"`
	WeightKg           float64             `json:"weight_kg"`
	SystolicBP         int                 `json:"systolic_bp"`
	DiastolicBP        int                 `json:"diastolic_bp"`
	BloodGlucose       float64             `json:"blood_glucose"`
	AnticoagStatus     AnticoagulantStatus `json:"anticoagulant_status"`
	AnticoagMedication string              `json:"anticoagulant_medication,omitempty"`
	LastAnticoagDose   *time.Time          `json:"last_anticoagulant_dose,omitempty"`
	ArrivalTime        time.Time           `json:"arrival_time"`
	LastKnownWell      *time.Time          `json:"last_known_well_time,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at,omitempty"`
}

// Validate checks the patient record for storable consistency. Clinical
// plausibility beyond basic ranges is the presentation layer's concern.
func (p *Patient) Validate() error {
	if p.Age < 0 {
		return NewInvalidComponentError("age", p.Age, "age cannot be negative")
	}
	if p.WeightKg <= 0 {
		return NewInvalidComponentError("weight_kg", p.WeightKg, "weight must be positive")
	}
	if !p.AnticoagStatus.IsValid() {
		return ErrInvalidAnticoagulantState
	}
	if p.ArrivalTime.IsZero() {
		return NewIncompleteInputError("arrival_time")
	}
	return nil
}

package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func validAssessment() *Assessment {
	return &Assessment{
		ID:             uuid.New(),
		PatientID:      uuid.New(),
		AssessmentTime: time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC),
		BEFAST: map[string]bool{
			ComponentBEFASTBalance: true,
		},
		NIHSS: map[string]int{
			ComponentNIHSS2BestGaze: 1,
		},
		LVOStatus: LVO_NOT_ASSESSED,
	}
}

func TestAssessmentValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *Assessment)
		wantErr bool
	}{
		{
			name:    "Valid partial assessment",
			mutate:  func(a *Assessment) {},
			wantErr: false,
		},
		{
			name:    "Missing patient ID",
			mutate:  func(a *Assessment) { a.PatientID = uuid.Nil },
			wantErr: true,
		},
		{
			name:    "Invalid LVO status",
			mutate:  func(a *Assessment) { a.LVOStatus = "MAYBE" },
			wantErr: true,
		},
		{
			name:    "Unknown NIHSS item",
			mutate:  func(a *Assessment) { a.NIHSS["nihss_12_made_up"] = 1 },
			wantErr: true,
		},
		{
			name:    "NIHSS value out of range",
			mutate:  func(a *Assessment) { a.NIHSS[ComponentNIHSS2BestGaze] = 5 },
			wantErr: true,
		},
		{
			name:    "Unknown BE-FAST item",
			mutate:  func(a *Assessment) { a.BEFAST["be_fast_headache"] = true },
			wantErr: true,
		},
		{
			name:    "Unknown ASPECTS region",
			mutate:  func(a *Assessment) { a.ASPECTSRegions = map[string]bool{"m7": true} },
			wantErr: true,
		},
		{
			name:    "Valid ASPECTS regions",
			mutate:  func(a *Assessment) { a.ASPECTSRegions = map[string]bool{"m1": true, "caudate": false} },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAssessment()
			tt.mutate(a)
			err := a.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestAssessmentEvaluationTime(t *testing.T) {
	a := validAssessment()

	// Without imaging, evaluation time is the assessment time.
	if !a.EvaluationTime().Equal(a.AssessmentTime) {
		t.Errorf("Expected assessment time %v, got %v", a.AssessmentTime, a.EvaluationTime())
	}

	// With imaging, the CT scan time wins.
	ct := a.AssessmentTime.Add(25 * time.Minute)
	a.CTScanTime = &ct
	if !a.EvaluationTime().Equal(ct) {
		t.Errorf("Expected CT scan time %v, got %v", ct, a.EvaluationTime())
	}
}

func TestPatientValidate(t *testing.T) {
	valid := func() *Patient {
		return &Patient{
			ID:             uuid.New(),
			Age:            67,
			WeightKg:       70,
			SystolicBP:     150,
			DiastolicBP:    90,
			AnticoagStatus: ANTICOAG_NONE,
			ArrivalTime:    time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC),
		}
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("Expected valid patient, got %v", err)
	}

	p := valid()
	p.Age = -1
	if err := p.Validate(); err == nil {
		t.Error("Expected error for negative age")
	}

	p = valid()
	p.WeightKg = 0
	if err := p.Validate(); err == nil {
		t.Error("Expected error for zero weight")
	}

	p = valid()
	p.AnticoagStatus = "WARFARIN"
	if err := p.Validate(); !errors.Is(err, ErrInvalidAnticoagulantState) {
		t.Errorf("Expected ErrInvalidAnticoagulantState, got %v", err)
	}

	p = valid()
	p.ArrivalTime = time.Time{}
	if err := p.Validate(); err == nil {
		t.Error("Expected error for missing arrival time")
	}
}

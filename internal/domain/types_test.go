package domain

import (
	"testing"
)

func TestEligibilityConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    Eligibility
		expected string
	}{
		{"Eligible", ELIGIBLE, "ELIGIBLE"},
		{"Not Eligible", NOT_ELIGIBLE, "NOT_ELIGIBLE"},
		{"Contraindicated", CONTRAINDICATED, "CONTRAINDICATED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
		})
	}
}

func TestEligibilityIsEligible(t *testing.T) {
	if !ELIGIBLE.IsEligible() {
		t.Error("ELIGIBLE should report eligible")
	}
	if NOT_ELIGIBLE.IsEligible() {
		t.Error("NOT_ELIGIBLE should not report eligible")
	}
	if CONTRAINDICATED.IsEligible() {
		t.Error("CONTRAINDICATED should not report eligible")
	}
}

func TestTriageRecommendationConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    TriageRecommendation
		expected string
	}{
		{"Transfer to CSC", TRANSFER_TO_CSC, "TRANSFER_TO_CSC"},
		{"Treat and Admit", TREAT_AND_ADMIT, "TREAT_AND_ADMIT"},
		{"Stroke Unit", STROKE_UNIT, "STROKE_UNIT_CARE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
			if tt.value.Description() == "" {
				t.Error("Description should not be empty")
			}
		})
	}
}

func TestASPECTSBandConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    ASPECTSBand
		expected string
	}{
		{"Normal", ASPECTS_NORMAL, "NORMAL"},
		{"Mild", ASPECTS_MILD, "MILD"},
		{"Moderate", ASPECTS_MODERATE, "MODERATE"},
		{"Severe", ASPECTS_SEVERE, "SEVERE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
			if tt.value.Description() == "" {
				t.Error("Description should not be empty")
			}
		})
	}
}

func TestAnticoagulantStatusIsValid(t *testing.T) {
	valid := []AnticoagulantStatus{ANTICOAG_NONE, ANTICOAG_CURRENT, ANTICOAG_RECENT, ANTICOAG_UNKNOWN}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if AnticoagulantStatus("WARFARIN").IsValid() {
		t.Error("Unknown status should be invalid")
	}
}

func TestLVOStatusIsValid(t *testing.T) {
	valid := []LVOStatus{LVO_NOT_ASSESSED, LVO_PRESENT, LVO_ABSENT, LVO_UNKNOWN}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if LVOStatus("MAYBE").IsValid() {
		t.Error("Unknown status should be invalid")
	}
}

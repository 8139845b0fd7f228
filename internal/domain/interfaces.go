package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PatientStore defines patient record persistence.
type PatientStore interface {
	CreatePatient(ctx context.Context, patient *Patient) error
	GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error)
	ListPatients(ctx context.Context, limit, offset int) ([]*Patient, error)
	UpdatePatient(ctx context.Context, patient *Patient) error
	DeletePatient(ctx context.Context, id uuid.UUID) error
}

// AssessmentStore defines assessment record persistence. Only raw component
// observations are stored; derived scores and recommendations are never
// persisted.
type AssessmentStore interface {
	CreateAssessment(ctx context.Context, assessment *Assessment) error
	GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error)
	ListAssessments(ctx context.Context, patientID uuid.UUID) ([]*Assessment, error)
	UpdateAssessment(ctx context.Context, assessment *Assessment) error
	DeleteAssessment(ctx context.Context, id uuid.UUID) error
}

// RecordStore is the full persistence contract the API layer depends on.
type RecordStore interface {
	PatientStore
	AssessmentStore
	Ping(ctx context.Context) error
	Close() error
}

// ScoringEngine converts component observations into standardized scores.
// All methods are pure and deterministic.
type ScoringEngine interface {
	NIHSSTotal(items map[string]int) (int, error)
	MNIHSSTotal(items map[string]int) (int, error)
	BEFASTTotal(items map[string]bool) (int, error)
	RACETotal(items map[string]int) (int, error)
	ASPECTSTotal(regions map[string]bool) (int, error)
}

// DecisionEngine derives eligibility, dosing, and triage recommendations from
// scores, timing, and imaging inputs.
type DecisionEngine interface {
	Decide(input *DecisionInput) (*Recommendation, error)
}

// DecisionInput carries everything the decision engine consumes. Pointer
// fields distinguish "absent" from zero values; absence of a required field
// fails with IncompleteInputError.
type DecisionInput struct {
	NIHSS             int
	ASPECTS           int
	HemorrhagePresent bool
	LVOStatus         LVOStatus
	LastKnownWell     *time.Time
	EvaluationTime    *time.Time
	ArrivalTime       *time.Time
	WeightKg          float64
	SystolicBP        int
	DiastolicBP       int

	RecentSurgery         bool
	PriorStrokeHeadTrauma bool
	GIUrinaryHemorrhage   bool
	LowPlatelets          bool
	ElevatedINR           bool
	CurrentAnticoagUse    bool
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetDatabaseConfig() *DatabaseConfig
	GetGuidelines() *GuidelineConfig
	GetFacility() *FacilityConfig
	Validate() error
}

package repository

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/neurotriage/stroke-triage-server/internal/database"
	"github.com/neurotriage/stroke-triage-server/internal/domain"
)

// Store bundles the patient and assessment repositories over one connection
// pool into the RecordStore contract the API layer depends on.
type Store struct {
	*PatientRepository
	*AssessmentRepository
	db *database.DB
}

// NewStore creates a Postgres-backed record store
func NewStore(db *database.DB, logger *logrus.Logger) *Store {
	return &Store{
		PatientRepository:    NewPatientRepository(db.Pool, logger),
		AssessmentRepository: NewAssessmentRepository(db.Pool, logger),
		db:                   db,
	}
}

// Ping checks store health
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Health(ctx)
}

// Close releases the underlying pool
func (s *Store) Close() error {
	s.db.Close()
	return nil
}

var _ domain.RecordStore = (*Store)(nil)

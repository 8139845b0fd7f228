package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/neurotriage/stroke-triage-server/internal/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// handleCreatePatient registers a new patient record.
func (s *Server) handleCreatePatient(c *gin.Context) {
	var patient domain.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		s.respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	if patient.ArrivalTime.IsZero() {
		patient.ArrivalTime = time.Now().UTC()
	}
	if err := patient.Validate(); err != nil {
		s.respondDomainError(c, err)
		return
	}

	if err := s.store.CreatePatient(c.Request.Context(), &patient); err != nil {
		s.respondError(c, http.StatusInternalServerError, "failed to create patient", err)
		return
	}
	c.JSON(http.StatusCreated, patient)
}

// handleGetPatient retrieves one patient record.
func (s *Server) handleGetPatient(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	patient, err := s.store.GetPatient(c.Request.Context(), id)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

// handleListPatients lists patients by most recent arrival, paginated.
func (s *Server) handleListPatients(c *gin.Context) {
	limit := queryInt(c, "limit", defaultListLimit)
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	patients, err := s.store.ListPatients(c.Request.Context(), limit, offset)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "failed to list patients", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"patients": patients,
		"count":    len(patients),
		"limit":    limit,
		"offset":   offset,
	})
}

// handleUpdatePatient applies an administrative correction.
func (s *Server) handleUpdatePatient(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	var patient domain.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		s.respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	patient.ID = id
	if err := patient.Validate(); err != nil {
		s.respondDomainError(c, err)
		return
	}

	if err := s.store.UpdatePatient(c.Request.Context(), &patient); err != nil {
		s.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

// handleDeletePatient removes a patient and cascades to their assessments.
func (s *Server) handleDeletePatient(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	if err := s.store.DeletePatient(c.Request.Context(), id); err != nil {
		s.respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleCreateAssessment records a new assessment for a patient. The stored
// record holds only raw component observations.
func (s *Server) handleCreateAssessment(c *gin.Context) {
	patientID, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	// The patient must exist before an assessment can reference it.
	if _, err := s.store.GetPatient(c.Request.Context(), patientID); err != nil {
		s.respondDomainError(c, err)
		return
	}

	var assessment domain.Assessment
	if err := c.ShouldBindJSON(&assessment); err != nil {
		s.respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	assessment.PatientID = patientID
	if assessment.ID == uuid.Nil {
		assessment.ID = uuid.New()
	}
	if assessment.AssessmentTime.IsZero() {
		assessment.AssessmentTime = time.Now().UTC()
	}
	if assessment.BEFAST == nil {
		assessment.BEFAST = map[string]bool{}
	}
	if assessment.NIHSS == nil {
		assessment.NIHSS = map[string]int{}
	}
	if err := assessment.Validate(); err != nil {
		s.respondDomainError(c, err)
		return
	}

	if err := s.store.CreateAssessment(c.Request.Context(), &assessment); err != nil {
		s.respondError(c, http.StatusInternalServerError, "failed to create assessment", err)
		return
	}
	c.JSON(http.StatusCreated, assessment)
}

// handleListAssessments lists a patient's assessments, most recent first.
func (s *Server) handleListAssessments(c *gin.Context) {
	patientID, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	assessments, err := s.store.ListAssessments(c.Request.Context(), patientID)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "failed to list assessments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"assessments": assessments,
		"count":       len(assessments),
	})
}

// handleGetAssessment retrieves one assessment record.
func (s *Server) handleGetAssessment(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	assessment, err := s.store.GetAssessment(c.Request.Context(), id)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// handleUpdateAssessment replaces the component observations of an assessment.
func (s *Server) handleUpdateAssessment(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	existing, err := s.store.GetAssessment(c.Request.Context(), id)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}

	var assessment domain.Assessment
	if err := c.ShouldBindJSON(&assessment); err != nil {
		s.respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	assessment.ID = id
	assessment.PatientID = existing.PatientID
	if assessment.AssessmentTime.IsZero() {
		assessment.AssessmentTime = existing.AssessmentTime
	}
	if assessment.BEFAST == nil {
		assessment.BEFAST = map[string]bool{}
	}
	if assessment.NIHSS == nil {
		assessment.NIHSS = map[string]int{}
	}
	if err := assessment.Validate(); err != nil {
		s.respondDomainError(c, err)
		return
	}

	if err := s.store.UpdateAssessment(c.Request.Context(), &assessment); err != nil {
		s.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// handleDeleteAssessment removes an assessment record.
func (s *Server) handleDeleteAssessment(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	if err := s.store.DeleteAssessment(c.Request.Context(), id); err != nil {
		s.respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleEvaluateAssessment computes scores and recommendations on demand from
// the stored components. Nothing derived is read from or written to the store.
func (s *Server) handleEvaluateAssessment(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	assessment, err := s.store.GetAssessment(c.Request.Context(), id)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	patient, err := s.store.GetPatient(c.Request.Context(), assessment.PatientID)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}

	evaluation, err := s.evaluator.Evaluate(patient, assessment)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, evaluation)
}

// pathID parses a UUID path parameter, responding 400 on failure.
func (s *Server) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		s.respondError(c, http.StatusBadRequest, "invalid id: must be a UUID", err)
		return uuid.Nil, false
	}
	return id, true
}

// respondDomainError maps typed domain failures to HTTP statuses: missing
// records to 404, incomplete or invalid clinical inputs to 422, everything
// else to 500.
func (s *Server) respondDomainError(c *gin.Context, err error) {
	var incomplete *domain.IncompleteInputError
	var invalid *domain.InvalidComponentError
	var timing *domain.InvalidTimingError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.respondError(c, http.StatusNotFound, "record not found", err)
	case errors.As(err, &incomplete), errors.As(err, &invalid), errors.As(err, &timing),
		errors.Is(err, domain.ErrInvalidAnticoagulantState), errors.Is(err, domain.ErrInvalidLVOStatus):
		s.respondError(c, http.StatusUnprocessableEntity, "evaluation input rejected", err)
	default:
		s.respondError(c, http.StatusInternalServerError, "internal error", err)
	}
}

func (s *Server) respondError(c *gin.Context, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", c.FullPath()).Error(message)
	}
	c.JSON(status, gin.H{
		"error":          message,
		"detail":         err.Error(),
		"correlation_id": c.GetString("correlation_id"),
	})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

package domain

import (
	"fmt"
	"time"
)

// IncompleteInputError reports a required component observation or timestamp
// that was absent from the input. The engines never substitute defaults for
// missing clinical data.
type IncompleteInputError struct {
	Component string `json:"component"`
}

// Error implements the error interface
func (e *IncompleteInputError) Error() string {
	return fmt.Sprintf("incomplete input: required component '%s' is missing", e.Component)
}

// InvalidComponentError reports a component observation whose value falls
// outside its defined domain, or a component key outside the documented
// vocabulary.
type InvalidComponentError struct {
	Component string      `json:"component"`
	Value     interface{} `json:"value"`
	Reason    string      `json:"reason"`
}

// Error implements the error interface
func (e *InvalidComponentError) Error() string {
	return fmt.Sprintf("invalid component '%s' (value %v): %s", e.Component, e.Value, e.Reason)
}

// InvalidTimingError reports logically inconsistent timestamps, e.g. an
// evaluation time preceding the last-known-well time.
type InvalidTimingError struct {
	LastKnownWell  time.Time `json:"last_known_well"`
	EvaluationTime time.Time `json:"evaluation_time"`
}

// Error implements the error interface
func (e *InvalidTimingError) Error() string {
	return fmt.Sprintf("invalid timing: evaluation time %s precedes last known well %s",
		e.EvaluationTime.Format(time.RFC3339), e.LastKnownWell.Format(time.RFC3339))
}

// NewIncompleteInputError creates a new IncompleteInputError
func NewIncompleteInputError(component string) *IncompleteInputError {
	return &IncompleteInputError{Component: component}
}

// NewInvalidComponentError creates a new InvalidComponentError
func NewInvalidComponentError(component string, value interface{}, reason string) *InvalidComponentError {
	return &InvalidComponentError{Component: component, Value: value, Reason: reason}
}

// NewInvalidTimingError creates a new InvalidTimingError
func NewInvalidTimingError(lkw, eval time.Time) *InvalidTimingError {
	return &InvalidTimingError{LastKnownWell: lkw, EvaluationTime: eval}
}

package dynamics

import (
	"errors"
	"fmt"
)

// Failure causes surfaced through IntegrationError.
var (
	// ErrNonFinite indicates the solver produced a NaN or Inf state.
	ErrNonFinite = errors.New("dynamics: state is non-finite (NaN or Inf)")

	// ErrStepTooSmall indicates the adaptive step collapsed below the
	// representable minimum without meeting the error tolerance.
	ErrStepTooSmall = errors.New("dynamics: adaptive step below minimum")

	// ErrStepBudget indicates the solver exhausted its step budget
	// before reaching the end of the time span.
	ErrStepBudget = errors.New("dynamics: step budget exhausted")

	// ErrNoConvergence indicates an implicit stage iteration failed to
	// converge at the smallest permitted step.
	ErrNoConvergence = errors.New("dynamics: implicit iteration did not converge")
)

// ValidationError reports a parameter outside its physical bounds or a
// cross-field inconsistency. Always recoverable by correcting input.
type ValidationError struct {
	Field   string
	Value   float64
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid parameters: %s", e.Message)
	}
	return fmt.Sprintf("invalid parameter %s=%g: %s", e.Field, e.Value, e.Message)
}

// Validationf builds a ValidationError for a named field.
func Validationf(field string, value float64, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports an unknown or malformed torque spec or
// integration method. A caller bug, never retried.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Message
}

func Configurationf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// IntegrationError reports a failed solve. LastTime and LastState hold
// the last accepted point, when any step was accepted.
type IntegrationError struct {
	Reason    error
	LastTime  float64
	LastState State
	Steps     int
}

func (e *IntegrationError) Error() string {
	if e.LastState == nil {
		return fmt.Sprintf("integration failed before first step: %v", e.Reason)
	}
	return fmt.Sprintf("integration failed at t=%.6g after %d steps: %v", e.LastTime, e.Steps, e.Reason)
}

func (e *IntegrationError) Unwrap() error {
	return e.Reason
}

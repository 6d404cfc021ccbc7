package types

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable matches every BackendUnavailableError via errors.Is.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrExtractorUnavailable is signalled when the skill extraction backend cannot be used.
	ErrExtractorUnavailable = errors.New("skill extractor unavailable")
)

// InputError is returned for missing or empty required input, before any backend call.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid input %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// BackendUnavailableError is returned when a health check or backend call failed.
type BackendUnavailableError struct {
	Backend string
	Message string
	Cause   error
}

func (e *BackendUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s unavailable: %s: %v", e.Backend, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s unavailable: %s", e.Backend, e.Message)
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrBackendUnavailable) true for any instance.
func (e *BackendUnavailableError) Is(target error) bool {
	return target == ErrBackendUnavailable
}

// MalformedResponseError is returned when a backend answered with an unusable value.
type MalformedResponseError struct {
	Backend string
	Message string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed response from %s: %s: %v", e.Backend, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed response from %s: %s", e.Backend, e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// IsInputError reports whether err is, or wraps, an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// IsUnavailable reports whether err means a backend could not serve the request.
// Malformed responses that could not be repaired count as unavailable.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrBackendUnavailable) || errors.Is(err, ErrExtractorUnavailable) {
		return true
	}
	var me *MalformedResponseError
	return errors.As(err, &me)
}

// NewFailure annotates a failed step.
func NewFailure(step string, err error) Failure {
	return Failure{
		Step:        step,
		Message:     err.Error(),
		Unavailable: IsUnavailable(err),
	}
}

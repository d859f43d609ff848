package usecase

import (
	"errors"
	"fmt"

	"campus-booking/internal/recurrence"
	"campus-booking/pkg/utils"
)

var (
	ErrInvalidRecurrence     = recurrence.ErrInvalidRecurrence
	ErrInvalidDateRange      = recurrence.ErrInvalidDateRange
	ErrInvalidWeekday        = recurrence.ErrInvalidWeekday
	ErrNoMatchingOccurrences = recurrence.ErrNoMatchingOccurrences
	ErrInvalidTimeSlot       = recurrence.ErrInvalidTimeSlot

	ErrPastStartDate    = errors.New("starting date is in the past")
	ErrRoomUnavailable  = errors.New("room is not available for the requested time")
	ErrNotFound         = errors.New("not found")
	ErrImportInProgress = errors.New("a timetable import is already in progress")
	ErrArtifactMissing  = errors.New("file does not exist")
	ErrPersistence      = errors.New("persistence failure")
)

// ValidationError carries a message and optional per-field messages.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Message, utils.FormatValidationErrors(e.Fields))
}

func newValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

func persistenceError(operation string, err error) error {
	return fmt.Errorf("%s: %w: %w", operation, ErrPersistence, err)
}

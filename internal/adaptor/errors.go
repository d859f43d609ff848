package adaptor

import (
	"errors"
	"net/http"

	"campus-booking/internal/usecase"
	"campus-booking/pkg/utils"

	"go.uber.org/zap"
)

// badRequests maps request-level failures to the message shown to the client.
var badRequests = []struct {
	err     error
	message string
}{
	{usecase.ErrInvalidRecurrence, "Invalid recurrence"},
	{usecase.ErrPastStartDate, "Starting date cannot be in the past"},
	{usecase.ErrInvalidDateRange, "Ending date cannot be before starting date"},
	{usecase.ErrInvalidWeekday, "Activity days must be between 1 and 7"},
	{usecase.ErrInvalidTimeSlot, "Invalid activity time"},
	{usecase.ErrNoMatchingOccurrences, "No dates match the selected days"},
	{usecase.ErrRoomUnavailable, "Room is not available"},
	{usecase.ErrArtifactMissing, "File does not exist"},
}

// handleServiceError writes the response for an error returned by a service.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		log.Warn(operation+" validation failed", zap.Error(err), zap.String("operation", operation))
		var details any
		if len(verr.Fields) > 0 {
			details = verr.Fields
		}
		utils.ResponseBadRequest(w, verr.Message, details)
		return
	}

	for _, br := range badRequests {
		if errors.Is(err, br.err) {
			log.Warn(operation+" rejected", zap.Error(err), zap.String("operation", operation))
			utils.ResponseBadRequest(w, br.message, err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err), zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrImportInProgress):
		log.Warn(operation+" failed - import running", zap.Error(err), zap.String("operation", operation))
		utils.ResponseConflict(w, "A timetable import is already in progress")

	case errors.Is(err, usecase.ErrPersistence):
		log.Error(operation+" failed - storage", zap.Error(err), zap.String("operation", operation))
		utils.ResponseJSON(w, http.StatusInternalServerError, false, "Failed to save data", nil, err.Error())

	default:
		log.Error(operation+" failed", zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func paginationFromQuery(r *http.Request) (page, perPage int) {
	query := r.URL.Query()
	return utils.ParseInt(query.Get("page"), 1), utils.ParseInt(query.Get("per_page"), 10)
}

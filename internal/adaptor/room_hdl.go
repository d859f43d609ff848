package adaptor

import (
	"net/http"

	"campus-booking/internal/dto/request"
	"campus-booking/internal/usecase"
	"campus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RoomHandler struct {
	availability usecase.AvailabilityService
	calendar     usecase.CalendarService
	log          *zap.Logger
}

func NewRoomHandler(availability usecase.AvailabilityService, calendar usecase.CalendarService, log *zap.Logger) *RoomHandler {
	return &RoomHandler{
		availability: availability,
		calendar:     calendar,
		log:          log.With(zap.String("handler", "room")),
	}
}

// RoomStatus handles GET /api/rooms/{id}/status
func (h *RoomHandler) RoomStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.availability.RoomStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "room status")
		return
	}

	utils.ResponseSuccess(w, "success", status)
}

// Calendar handles GET /api/rooms/{id}/calendar.ics
func (h *RoomHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.CalendarRequest{From: query.Get("from"), To: query.Get("to")}

	body, err := h.calendar.RoomCalendar(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, h.log, err, "room calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="room.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		h.log.Warn("Failed to write calendar", zap.Error(err))
	}
}

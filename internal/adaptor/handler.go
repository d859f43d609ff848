package adaptor

import (
	"campus-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Booking   *BookingHandler
	Room      *RoomHandler
	Timetable *TimetableHandler
}

func NewHandler(service *usecase.Service, maxUploadBytes int64, log *zap.Logger) *Handler {
	return &Handler{
		Booking:   NewBookingHandler(service.Booking, log),
		Room:      NewRoomHandler(service.Availability, service.Calendar, log),
		Timetable: NewTimetableHandler(service.Timetable, maxUploadBytes, log),
	}
}

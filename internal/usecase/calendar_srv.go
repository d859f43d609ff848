package usecase

import (
	"context"
	"fmt"

	"campus-booking/internal/data/repository"
	"campus-booking/internal/dto/request"
	"campus-booking/internal/recurrence"
	"campus-booking/pkg/utils"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	calendarProductID = "-//campus-booking//rooms//EN"
	calendarHorizon   = 90 // days
)

type CalendarService interface {
	// RoomCalendar renders the room's confirmed occurrences in [from, to] as iCalendar.
	RoomCalendar(ctx context.Context, roomID string, req *request.CalendarRequest) (string, error)
}

type calendarService struct {
	repo  *repository.Repository
	clock Clock
	log   *zap.Logger
}

func NewCalendarService(repo *repository.Repository, clock Clock, log *zap.Logger) CalendarService {
	return &calendarService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "calendar")),
	}
}

func (s *calendarService) RoomCalendar(ctx context.Context, roomID string, req *request.CalendarRequest) (string, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return "", newValidationError("Invalid calendar range", errs)
	}
	id, err := uuid.Parse(roomID)
	if err != nil {
		return "", newValidationError("Invalid room ID", map[string]string{"id": "Must be a valid UUID"})
	}

	from := s.clock.Today()
	if req.From != "" {
		from, _ = recurrence.ParseDate(req.From)
	}
	to := from.AddDate(0, 0, calendarHorizon)
	if req.To != "" {
		to, _ = recurrence.ParseDate(req.To)
	}
	if err := (recurrence.Window{Start: from, End: to}).Validate(); err != nil {
		return "", err
	}

	room, err := s.repo.Room.FindByID(ctx, id)
	if err != nil {
		return "", persistenceError("find room", err)
	}
	if room == nil {
		return "", fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}

	bookings, err := s.repo.Booking.FindConfirmedByRoomBetween(ctx, id, from, to)
	if err != nil {
		return "", persistenceError("find room bookings", err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(room.RoomName)

	for _, b := range bookings {
		for i, slot := range b.Activity.Time {
			start, end, err := slot.Bounds(b.Activity.RecurringDate, s.clock.Location)
			if err != nil {
				s.log.Warn("Skipping malformed time slot",
					zap.String("booking_id", b.ID.String()),
					zap.Error(err),
				)
				continue
			}

			event := cal.AddEvent(fmt.Sprintf("%s-%d@campus-booking", b.ID, i))
			event.SetDtStampTime(b.AddedOn)
			event.SetStartAt(start)
			event.SetEndAt(end)
			event.SetSummary(b.Activity.Name)
			if b.Activity.Description != "" {
				event.SetDescription(b.Activity.Description)
			}
			event.SetLocation(room.RoomName)
		}
	}

	return cal.Serialize(), nil
}

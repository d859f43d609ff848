package usecase

import (
	"time"

	"campus-booking/internal/data/repository"
	"campus-booking/internal/recurrence"
	"campus-booking/pkg/events"
	"campus-booking/pkg/redis"
	"campus-booking/pkg/storage"
	"campus-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Availability AvailabilityService
	Booking      BookingService
	Timetable    TimetableService
	Calendar     CalendarService
}

// Infra groups the collaborators that live outside the database.
type Infra struct {
	Store     storage.ArtifactStore
	Locker    redis.Locker
	Publisher events.Publisher
	Now       func() time.Time // defaults to time.Now
}

func NewService(repo *repository.Repository, infra Infra, config *utils.Config, log *zap.Logger) (*Service, error) {
	loc, err := config.App.Location()
	if err != nil {
		return nil, err
	}
	clock := NewClock(loc)
	if infra.Now != nil {
		clock.Now = infra.Now
	}
	if infra.Locker == nil {
		infra.Locker = redis.NopLocker{}
	}
	if infra.Publisher == nil {
		infra.Publisher = events.NopPublisher{}
	}

	defaults, err := NewImportDefaults(config.Import)
	if err != nil {
		return nil, err
	}

	availability := NewAvailabilityService(repo, clock, config.Booking.MaxConcurrentChecks, log)
	options := recurrence.Options{StrictWeekdayFilter: config.Booking.StrictWeekdayFilter}

	return &Service{
		Availability: availability,
		Booking:      NewBookingService(repo, availability, infra.Publisher, clock, options, log),
		Timetable:    NewTimetableService(repo, infra.Store, infra.Locker, infra.Publisher, clock, defaults, config.Import, log),
		Calendar:     NewCalendarService(repo, clock, log),
	}, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"campus-booking/internal/data/entity"
	"campus-booking/internal/data/repository"
	"campus-booking/internal/dto/request"
	"campus-booking/internal/dto/response"
	"campus-booking/internal/recurrence"
	"campus-booking/pkg/events"
	"campus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// CreateBooking expands the activity into occurrences and stores all of
	// them, or none when any gate fails.
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) ([]response.BookingResponse, error)
	// ListUpcoming returns confirmed bookings starting today or later.
	ListUpcoming(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	ListAll(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo         *repository.Repository
	availability AvailabilityService
	publisher    events.Publisher
	clock        Clock
	options      recurrence.Options
	log          *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	availability AvailabilityService,
	publisher events.Publisher,
	clock Clock,
	options recurrence.Options,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:         repo,
		availability: availability,
		publisher:    publisher,
		clock:        clock,
		options:      options,
		log:          log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) ([]response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, newValidationError("Invalid booking request", errs)
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, newValidationError("Invalid user ID", map[string]string{"user_id": "Must be a valid UUID"})
	}
	roomID, err := uuid.Parse(req.Room)
	if err != nil {
		return nil, newValidationError("Invalid room ID", map[string]string{"room": "Must be a valid UUID"})
	}
	others := make([]uuid.UUID, 0, len(req.AllAuthorized))
	for i, raw := range req.AllAuthorized {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, newValidationError("Invalid authorized user ID",
				map[string]string{fmt.Sprintf("all_authorized[%d]", i): "Must be a valid UUID"})
		}
		others = append(others, id)
	}

	act := req.Activity
	policy, err := recurrence.ParsePolicy(act.ActivityRecurrence)
	if err != nil {
		return nil, err
	}

	starting, err := recurrence.ParseDate(act.ActivityStartingDate)
	if err != nil {
		return nil, newValidationError("Invalid starting date", map[string]string{"activity_starting_date": err.Error()})
	}
	ending, err := recurrence.ParseDate(act.ActivityEndingDate)
	if err != nil {
		return nil, newValidationError("Invalid ending date", map[string]string{"activity_ending_date": err.Error()})
	}

	today := s.clock.Today()
	if starting.Before(today) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrPastStartDate,
			act.ActivityStartingDate, today.Format(recurrence.DateLayout))
	}

	rule, err := recurrence.NewRule(policy, recurrence.Window{Start: starting, End: ending}, act.ActivityDays)
	if err != nil {
		return nil, err
	}

	slots, err := recurrence.ParseTimeSlots(act.ActivityTime)
	if err != nil {
		return nil, err
	}

	occurrences, err := recurrence.Expand(rule, s.options)
	if err != nil {
		return nil, err
	}

	room, err := s.repo.Room.FindByID(ctx, roomID)
	if err != nil {
		return nil, persistenceError("find room", err)
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", req.Room, ErrNotFound)
	}

	if err := s.availability.CheckOccurrences(ctx, roomID, occurrences); err != nil {
		return nil, err
	}

	authorized := entity.Authorized(userID, others)
	now := s.clock.Instant()
	bookings := make([]entity.Booking, 0, len(occurrences))
	for _, occ := range occurrences {
		bookings = append(bookings, entity.Booking{
			ID:            utils.GenerateUUID(),
			UserID:        userID,
			AllAuthorized: authorized,
			Activity: entity.Activity{
				Name:          act.ActivityName,
				Description:   act.ActivityDescription,
				Recurrence:    policy,
				StartingDate:  starting,
				EndingDate:    ending,
				Day:           occ.Day,
				Time:          slots,
				RecurringDate: occ.Date,
			},
			Room:           roomID,
			AdditionalInfo: req.AdditionalInfo,
			Status:         entity.BookingStatusConfirmed,
			AddedOn:        now,
		})
	}

	if err := s.repo.Booking.CreateBatch(ctx, bookings); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, fmt.Errorf("%w: %w", ErrRoomUnavailable, err)
		}
		return nil, persistenceError("create bookings", err)
	}

	s.log.Info("Bookings created",
		zap.String("user_id", userID.String()),
		zap.String("room", roomID.String()),
		zap.String("recurrence", string(policy)),
		zap.Int("occurrences", len(bookings)),
	)

	created := make([]response.BookingResponse, 0, len(bookings))
	for i := range bookings {
		created = append(created, response.NewBookingResponse(&bookings[i]))
	}

	if err := s.publisher.Publish(ctx, events.TopicBookingsCreated, created); err != nil {
		s.log.Warn("Failed to publish bookings created event", zap.Error(err))
	}

	return created, nil
}

func (s *bookingService) ListUpcoming(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	today := s.clock.Today()

	bookings, err := s.repo.Booking.FindUpcoming(ctx, today, req.Limit(), req.Offset())
	if err != nil {
		return nil, persistenceError("list upcoming bookings", err)
	}
	total, err := s.repo.Booking.CountUpcoming(ctx, today)
	if err != nil {
		return nil, persistenceError("count upcoming bookings", err)
	}

	return response.NewPaginatedResponse(response.NewBookingResponses(bookings), req.Page, req.Limit(), total), nil
}

func (s *bookingService) ListAll(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, persistenceError("list bookings", err)
	}
	total, err := s.repo.Booking.CountAll(ctx)
	if err != nil {
		return nil, persistenceError("count bookings", err)
	}

	return response.NewPaginatedResponse(response.NewBookingResponses(bookings), req.Page, req.Limit(), total), nil
}

func (s *bookingService) GetByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, newValidationError("Invalid booking ID", map[string]string{"id": "Must be a valid UUID"})
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, persistenceError("find booking", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}

	resp := response.NewBookingResponse(booking)
	return &resp, nil
}

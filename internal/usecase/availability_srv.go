package usecase

import (
	"context"
	"fmt"
	"time"

	"campus-booking/internal/data/repository"
	"campus-booking/internal/dto/response"
	"campus-booking/internal/recurrence"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultMaxConcurrentChecks = 8

type AvailabilityService interface {
	// IsOccupied reports whether a confirmed booking holds room on date with the
	// same weekday tag. A nil day only matches untagged bookings.
	IsOccupied(ctx context.Context, room uuid.UUID, date time.Time, day *int) (bool, error)
	// CheckOccurrences fails with ErrRoomUnavailable if any occurrence is taken.
	// It returns only after every check has finished.
	CheckOccurrences(ctx context.Context, room uuid.UUID, occurrences []recurrence.Occurrence) error
	RoomStatus(ctx context.Context, roomID string) (*response.RoomStatusResponse, error)
}

type availabilityService struct {
	repo          *repository.Repository
	clock         Clock
	maxConcurrent int
	log           *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, clock Clock, maxConcurrent int, log *zap.Logger) AvailabilityService {
	if maxConcurrent < 1 {
		maxConcurrent = defaultMaxConcurrentChecks
	}
	return &availabilityService{
		repo:          repo,
		clock:         clock,
		maxConcurrent: maxConcurrent,
		log:           log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) IsOccupied(ctx context.Context, room uuid.UUID, date time.Time, day *int) (bool, error) {
	return s.repo.Booking.ExistsConfirmed(ctx, room, date, day)
}

func (s *availabilityService) CheckOccurrences(ctx context.Context, room uuid.UUID, occurrences []recurrence.Occurrence) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for _, occ := range occurrences {
		occ := occ
		g.Go(func() error {
			busy, err := s.IsOccupied(gctx, room, occ.Date, occ.Day)
			if err != nil {
				return persistenceError("check availability", err)
			}
			if busy {
				return fmt.Errorf("%w: %s", ErrRoomUnavailable, occ.Date.Format(recurrence.DateLayout))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Info("Occurrence check failed",
			zap.String("room", room.String()),
			zap.Int("occurrences", len(occurrences)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *availabilityService) RoomStatus(ctx context.Context, roomID string) (*response.RoomStatusResponse, error) {
	id, err := uuid.Parse(roomID)
	if err != nil {
		return nil, newValidationError("Invalid room ID", map[string]string{"id": "Must be a valid UUID"})
	}

	room, err := s.repo.Room.FindByID(ctx, id)
	if err != nil {
		return nil, persistenceError("find room", err)
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}

	now := s.clock.Instant()
	today := s.clock.Today()

	bookings, err := s.repo.Booking.FindConfirmedByRoomAndDate(ctx, id, today)
	if err != nil {
		return nil, persistenceError("find room bookings", err)
	}

	for _, b := range bookings {
		for _, slot := range b.Activity.Time {
			start, end, err := slot.Bounds(today, s.clock.Location)
			if err != nil {
				s.log.Warn("Skipping malformed time slot",
					zap.String("booking_id", b.ID.String()),
					zap.Error(err),
				)
				continue
			}
			if !now.Before(start) && now.Before(end) {
				return &response.RoomStatusResponse{
					RoomStatus: response.RoomBusy,
					TimeRange:  slot.Pair(),
				}, nil
			}
		}
	}

	return &response.RoomStatusResponse{RoomStatus: response.RoomFree, TimeRange: []string{}}, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"campus-booking/internal/data/repository"
	"campus-booking/internal/dto/request"
	"campus-booking/internal/recurrence"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decemberNow = time.Date(2022, 12, 1, 9, 0, 0, 0, time.UTC)

func newBookingService(f *fixture, pub *recordingPublisher, opts recurrence.Options) BookingService {
	availability := NewAvailabilityService(f.repo, f.clock, 4, nopLog)
	return NewBookingService(f.repo, availability, pub, f.clock, opts, nopLog)
}

func weeklyRequest(room uuid.UUID, start, end string, days ...int) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		UserID: uuid.NewString(),
		Room:   room.String(),
		Activity: request.ActivityRequest{
			ActivityName:         "Seminar",
			ActivityRecurrence:   "weekly",
			ActivityStartingDate: start,
			ActivityEndingDate:   end,
			ActivityDays:         days,
			ActivityTime:         [][]string{{"08:00", "10:00"}},
		},
	}
}

func TestCreateBooking_WeeklyMondays(t *testing.T) {
	f := newFixture(decemberNow)
	pub := &recordingPublisher{}
	svc := newBookingService(f, pub, recurrence.Options{})

	req := weeklyRequest(f.room.ID, "2023-01-02", "2023-01-16", 1)
	other := uuid.NewString()
	req.AllAuthorized = []string{other, req.UserID}

	created, err := svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, created, 3)

	for i, want := range []string{"2023-01-02", "2023-01-09", "2023-01-16"} {
		assert.Equal(t, want, created[i].Activity.ActivityRecurringDate)
		assert.Equal(t, 1, *created[i].Activity.ActivityDays)
		assert.Equal(t, "weekly", created[i].Activity.ActivityRecurrence)
		assert.Equal(t, "confirmed", created[i].Status)
		assert.Equal(t, []string{req.UserID, other}, created[i].AllAuthorized)
	}
	assert.Len(t, f.bookings.bookings, 3)
	assert.Equal(t, 3, f.bookings.checks)
	assert.Equal(t, []string{"bookings/created"}, pub.topics)
}

func TestCreateBooking_Once(t *testing.T) {
	f := newFixture(decemberNow)
	svc := newBookingService(f, &recordingPublisher{}, recurrence.Options{})

	req := weeklyRequest(f.room.ID, "2023-01-04", "2023-03-01", 1, 2)
	req.Activity.ActivityRecurrence = "once"

	created, err := svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "2023-01-04", created[0].Activity.ActivityRecurringDate)
	assert.Nil(t, created[0].Activity.ActivityDays)
}

func TestCreateBooking_GateOrder(t *testing.T) {
	f := newFixture(decemberNow)
	svc := newBookingService(f, &recordingPublisher{}, recurrence.Options{})

	tests := []struct {
		name   string
		mutate func(*request.CreateBookingRequest)
		want   error
	}{
		{
			name: "recurrence before dates",
			mutate: func(r *request.CreateBookingRequest) {
				r.Activity.ActivityRecurrence = "yearly"
				r.Activity.ActivityStartingDate = "2020-01-01"
				r.Activity.ActivityEndingDate = "2019-01-01"
			},
			want: ErrInvalidRecurrence,
		},
		{
			name: "past start before range",
			mutate: func(r *request.CreateBookingRequest) {
				r.Activity.ActivityStartingDate = "2020-01-01"
				r.Activity.ActivityEndingDate = "2019-01-01"
			},
			want: ErrPastStartDate,
		},
		{
			name: "inverted range",
			mutate: func(r *request.CreateBookingRequest) {
				r.Activity.ActivityStartingDate = "2023-01-01"
				r.Activity.ActivityEndingDate = "2022-12-31"
			},
			want: ErrInvalidDateRange,
		},
		{
			name: "no weekday in range",
			mutate: func(r *request.CreateBookingRequest) {
				r.Activity.ActivityStartingDate = "2023-01-02"
				r.Activity.ActivityEndingDate = "2023-01-03"
				r.Activity.ActivityDays = []int{3}
			},
			want: ErrNoMatchingOccurrences,
		},
		{
			name: "slot end before start",
			mutate: func(r *request.CreateBookingRequest) {
				r.Activity.ActivityTime = [][]string{{"10:00", "09:00"}}
			},
			want: ErrInvalidTimeSlot,
		},
		{
			name: "weekday out of range",
			mutate: func(r *request.CreateBookingRequest) {
				r.Activity.ActivityDays = []int{1, 0}
			},
			want: nil,
		},
		{
			name: "unknown room after expansion",
			mutate: func(r *request.CreateBookingRequest) {
				r.Room = uuid.NewString()
			},
			want: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := weeklyRequest(f.room.ID, "2023-01-02", "2023-01-16", 1)
			tt.mutate(req)

			_, err := svc.CreateBooking(context.Background(), req)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			} else {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
			}
			assert.Empty(t, f.bookings.bookings)
		})
	}
}

func TestCreateBooking_ValidationError(t *testing.T) {
	f := newFixture(decemberNow)
	svc := newBookingService(f, &recordingPublisher{}, recurrence.Options{})

	req := weeklyRequest(f.room.ID, "2023-01-02", "2023-01-16", 1)
	req.UserID = "not-a-uuid"
	req.Activity.ActivityTime = nil

	_, err := svc.CreateBooking(context.Background(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "user_id")
	assert.Contains(t, verr.Fields, "activity.activity_time")
}

func TestCreateBooking_AllOrNothing(t *testing.T) {
	f := newFixture(decemberNow)
	svc := newBookingService(f, &recordingPublisher{}, recurrence.Options{})

	_, err := svc.CreateBooking(context.Background(), weeklyRequest(f.room.ID, "2023-01-09", "2023-01-09", 1))
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), weeklyRequest(f.room.ID, "2023-01-02", "2023-01-30", 1))
	require.ErrorIs(t, err, ErrRoomUnavailable)
	assert.Len(t, f.bookings.bookings, 1)
}

func TestCreateBooking_ConflictSymmetry(t *testing.T) {
	f := newFixture(decemberNow)
	svc := newBookingService(f, &recordingPublisher{}, recurrence.Options{})

	first, err := svc.CreateBooking(context.Background(), weeklyRequest(f.room.ID, "2023-01-02", "2023-01-02", 1))
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), weeklyRequest(f.room.ID, "2023-01-02", "2023-01-02", 1))
	require.ErrorIs(t, err, ErrRoomUnavailable)

	require.Len(t, f.bookings.bookings, 1)
	assert.Equal(t, first[0].ID, f.bookings.bookings[0].ID.String())

	// a different tag on the same date is not a conflict
	req := weeklyRequest(f.room.ID, "2023-01-02", "2023-01-02", 1)
	req.Activity.ActivityRecurrence = "certain_days"
	req.Activity.ActivityDays = []int{2}
	_, err = svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, f.bookings.bookings, 2)
}

func TestCreateBooking_InsertRaceMapsToUnavailable(t *testing.T) {
	f := newFixture(decemberNow)
	svc := newBookingService(f, &recordingPublisher{}, recurrence.Options{})
	f.bookings.failInsert = fmt.Errorf("create booking batch: %w", repository.ErrSlotTaken)

	_, err := svc.CreateBooking(context.Background(), weeklyRequest(f.room.ID, "2023-01-02", "2023-01-16", 1))
	require.ErrorIs(t, err, ErrRoomUnavailable)
	assert.Empty(t, f.bookings.bookings)
}

func TestCreateBooking_PersistenceError(t *testing.T) {
	f := newFixture(decemberNow)
	pub := &recordingPublisher{}
	svc := newBookingService(f, pub, recurrence.Options{})
	f.bookings.failInsert = errors.New("connection refused")

	_, err := svc.CreateBooking(context.Background(), weeklyRequest(f.room.ID, "2023-01-02", "2023-01-16", 1))
	require.ErrorIs(t, err, ErrPersistence)
	assert.NotErrorIs(t, err, ErrRoomUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, pub.topics)
}

func TestCreateBooking_StrictMonthly(t *testing.T) {
	f := newFixture(decemberNow)

	req := weeklyRequest(f.room.ID, "2023-01-02", "2023-03-31", 1)
	req.Activity.ActivityRecurrence = "monthly"

	created, err := newBookingService(f, &recordingPublisher{}, recurrence.Options{}).CreateBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, created, 3) // 01-02, 02-01, 03-03

	strict := newFixture(decemberNow)
	req.Room = strict.room.ID.String()
	created, err = newBookingService(strict, &recordingPublisher{}, recurrence.Options{StrictWeekdayFilter: true}).
		CreateBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, created, 1)
	assert.Equal(t, "2023-01-02", created[0].Activity.ActivityRecurringDate)
}

func TestListUpcomingAndGetByID(t *testing.T) {
	f := newFixture(decemberNow)
	svc := newBookingService(f, &recordingPublisher{}, recurrence.Options{})

	created, err := svc.CreateBooking(context.Background(), weeklyRequest(f.room.ID, "2023-01-02", "2023-01-30", 1))
	require.NoError(t, err)

	list, err := svc.ListUpcoming(context.Background(), &request.PaginatedRequest{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, list.Data, 2)
	assert.Equal(t, int64(5), list.Pagination.Total)
	assert.Equal(t, 3, list.Pagination.TotalPages)

	all, err := svc.ListAll(context.Background(), &request.PaginatedRequest{Page: 3, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, all.Data, 1)

	got, err := svc.GetByID(context.Background(), created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, created[0].ID, got.ID)

	_, err = svc.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetByID(context.Background(), "nope")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

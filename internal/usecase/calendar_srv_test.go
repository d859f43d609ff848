package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"campus-booking/internal/dto/request"
	"campus-booking/internal/recurrence"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomCalendar(t *testing.T) {
	f := newFixture(time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC))
	svc := NewCalendarService(f.repo, f.clock, nopLog)

	monday := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	seedBooking(f, monday, nil,
		recurrence.TimeSlot{Start: "08:00", End: "10:00"},
		recurrence.TimeSlot{Start: "13:00", End: "14:00"})
	seedBooking(f, monday.AddDate(0, 0, 7), nil, recurrence.TimeSlot{Start: "08:00", End: "10:00"})
	// outside the requested range
	seedBooking(f, monday.AddDate(0, 1, 0), nil, recurrence.TimeSlot{Start: "08:00", End: "10:00"})

	out, err := svc.RoomCalendar(context.Background(), f.room.ID.String(), &request.CalendarRequest{From: "2023-01-01", To: "2023-01-15"})
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 3)

	start, err := events[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Lecture", events[0].GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "A101", events[0].GetProperty(ics.ComponentPropertyLocation).Value)
}

func TestRoomCalendar_DefaultRangeAndErrors(t *testing.T) {
	f := newFixture(time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC))
	svc := NewCalendarService(f.repo, f.clock, nopLog)
	seedBooking(f, time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), nil, recurrence.TimeSlot{Start: "08:00", End: "10:00"})
	seedBooking(f, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), nil, recurrence.TimeSlot{Start: "08:00", End: "10:00"})

	out, err := svc.RoomCalendar(context.Background(), f.room.ID.String(), &request.CalendarRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))

	_, err = svc.RoomCalendar(context.Background(), f.room.ID.String(), &request.CalendarRequest{From: "2023-02-01", To: "2023-01-01"})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.RoomCalendar(context.Background(), uuid.NewString(), &request.CalendarRequest{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.RoomCalendar(context.Background(), f.room.ID.String(), &request.CalendarRequest{From: "soon"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

package timetable

import (
	"fmt"
	"strings"
	"time"

	"campus-booking/internal/data/entity"
	"campus-booking/internal/recurrence"

	"github.com/google/uuid"
)

const defaultActivityName = "Learning"

// Defaults fills the values an export does not carry.
type Defaults struct {
	RequesterID  uuid.UUID
	RoomID       *uuid.UUID // used when the row's room cannot be resolved
	ActivityName string
	AlignWeekday bool // shift each week's date forward to the event weekday
}

// Resolved is an Intent with its names looked up. Unresolved references stay nil.
type Resolved struct {
	Intent
	ModuleID *uuid.UUID
	RoomID   *uuid.UUID
	StaffID  *uuid.UUID
	GroupID  *uuid.UUID
}

// Skipped is a row left out of the import.
type Skipped struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// WeekDate is the date of the given 1-based teaching week counted from anchor.
func WeekDate(anchor time.Time, week, weekday int, align bool) time.Time {
	date := anchor.AddDate(0, 0, (week-1)*7)
	if align {
		date = date.AddDate(0, 0, (weekday-recurrence.ISOWeekday(date)+7)%7)
	}
	return date
}

// BuildBookings expands every row into one confirmed booking per teaching week.
// Week 1 is tagged once and later weeks weekly; each row is a list of discrete dates.
func BuildBookings(anchor time.Time, rows []Resolved, defaults Defaults, now time.Time) ([]entity.Booking, []Skipped) {
	name := defaults.ActivityName
	if name == "" {
		name = defaultActivityName
	}

	var (
		bookings []entity.Booking
		skipped  []Skipped
	)
	for _, row := range rows {
		room := row.RoomID
		if room == nil {
			room = defaults.RoomID
		}
		if room == nil {
			skipped = append(skipped, Skipped{Row: row.Row, Reason: "room not found and no fallback room configured"})
			continue
		}

		var others []uuid.UUID
		if row.StaffID != nil {
			others = append(others, *row.StaffID)
		}
		authorized := entity.Authorized(defaults.RequesterID, others)

		ending := WeekDate(anchor, row.Event.WeekEnd, row.Event.Weekday, defaults.AlignWeekday)
		for week := row.Event.WeekStart; week <= row.Event.WeekEnd; week++ {
			date := WeekDate(anchor, week, row.Event.Weekday, defaults.AlignWeekday)
			policy := recurrence.PolicyWeekly
			if week == 1 {
				policy = recurrence.PolicyOnce
			}
			day := row.Event.Weekday

			bookings = append(bookings, entity.Booking{
				ID:            uuid.New(),
				UserID:        defaults.RequesterID,
				AllAuthorized: authorized,
				Activity: entity.Activity{
					Name:          name,
					Description:   strings.TrimSpace(fmt.Sprintf("%s %s", name, row.Module)),
					Recurrence:    policy,
					StartingDate:  date,
					EndingDate:    ending,
					Day:           &day,
					Time:          []recurrence.TimeSlot{row.Event.Slot},
					RecurringDate: date,
				},
				Room:     *room,
				ModuleID: row.ModuleID,
				GroupID:  row.GroupID,
				Status:   entity.BookingStatusConfirmed,
				AddedOn:  now,
			})
		}
	}
	return bookings, skipped
}

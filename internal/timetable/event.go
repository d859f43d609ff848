package timetable

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"campus-booking/internal/recurrence"
)

var (
	ErrInvalidEvent   = errors.New("timetable: invalid event")
	ErrInvalidTime    = errors.New("timetable: invalid 12-hour time")
	ErrInvalidWeekday = errors.New("timetable: invalid weekday code")
)

var clock12 = regexp.MustCompile(`^(0?[1-9]|1[0-2]):([0-5][0-9])(am|AM|pm|PM)$`)

var weekdayCodes = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Event is the parsed form of an _Event cell such as "Mon 11:00am-02:00pm 1-13".
type Event struct {
	Weekday   int
	Slot      recurrence.TimeSlot
	WeekStart int
	WeekEnd   int
}

// ParseEvent reads "<Day> <start>-<end> <weekStart>-<weekEnd>". A single week
// number is accepted as a one week range.
func ParseEvent(value string) (Event, error) {
	parts := strings.Fields(value)
	if len(parts) != 3 {
		return Event{}, fmt.Errorf("%w: %q needs day, time range and week range", ErrInvalidEvent, value)
	}

	day, err := WeekdayNumber(parts[0])
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q: %w", ErrInvalidEvent, value, err)
	}

	start, end, ok := strings.Cut(parts[1], "-")
	if !ok {
		return Event{}, fmt.Errorf("%w: %q has no time range", ErrInvalidEvent, value)
	}
	from, err := ConvertTimeFormat(start)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q: %w", ErrInvalidEvent, value, err)
	}
	to, err := ConvertTimeFormat(end)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q: %w", ErrInvalidEvent, value, err)
	}
	slots, err := recurrence.ParseTimeSlots([][]string{{from, to}})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q: %w", ErrInvalidEvent, value, err)
	}

	weekStart, weekEnd, err := parseWeeks(parts[2])
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q: %w", ErrInvalidEvent, value, err)
	}

	return Event{Weekday: day, Slot: slots[0], WeekStart: weekStart, WeekEnd: weekEnd}, nil
}

func parseWeeks(value string) (int, int, error) {
	first, last, ranged := strings.Cut(value, "-")
	if !ranged {
		last = first
	}
	start, err := strconv.Atoi(first)
	if err != nil {
		return 0, 0, fmt.Errorf("week start %q: %w", first, err)
	}
	end, err := strconv.Atoi(last)
	if err != nil {
		return 0, 0, fmt.Errorf("week end %q: %w", last, err)
	}
	if start < 1 || end < start {
		return 0, 0, fmt.Errorf("week range %d-%d", start, end)
	}
	return start, end, nil
}

// WeekdayNumber maps Mon..Sun to 1..7.
func WeekdayNumber(code string) (int, error) {
	for i, c := range weekdayCodes {
		if strings.EqualFold(code, c) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, code)
}

// ConvertTimeFormat turns "02:00pm" into "14:00" and "12:00am" into "00:00".
func ConvertTimeFormat(value string) (string, error) {
	m := clock12.FindStringSubmatch(value)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	pm := strings.EqualFold(m[3], "pm")

	switch {
	case pm && hours < 12:
		hours += 12
	case !pm && hours == 12:
		hours = 0
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes), nil
}

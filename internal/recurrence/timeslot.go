package recurrence

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const ClockLayout = "15:04"

// ErrInvalidTimeSlot indicates a slot that is not a [start, end] HH:MM pair with start before end.
var ErrInvalidTimeSlot = errors.New("recurrence: invalid time slot")

// TimeSlot is a same-day interval in HH:MM. It encodes as a two element JSON array.
type TimeSlot struct {
	Start string
	End   string
}

func (s TimeSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{s.Start, s.End})
}

func (s *TimeSlot) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return ErrInvalidTimeSlot
	}
	s.Start, s.End = pair[0], pair[1]
	return nil
}

// Pair returns the slot as [start, end].
func (s TimeSlot) Pair() []string {
	return []string{s.Start, s.End}
}

// Bounds anchors the slot onto the calendar date of date in loc.
func (s TimeSlot) Bounds(date time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.Parse(ClockLayout, s.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, s.Start)
	}
	end, err := time.Parse(ClockLayout, s.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, s.End)
	}

	y, m, d := date.Date()
	return time.Date(y, m, d, start.Hour(), start.Minute(), 0, 0, loc),
		time.Date(y, m, d, end.Hour(), end.Minute(), 0, 0, loc),
		nil
}

// ParseTimeSlots checks every pair is [HH:MM, HH:MM] with start strictly before end.
func ParseTimeSlots(pairs [][]string) ([]TimeSlot, error) {
	if len(pairs) == 0 {
		return nil, ErrInvalidTimeSlot
	}

	slots := make([]TimeSlot, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: slot %d must have a start and an end", ErrInvalidTimeSlot, i)
		}
		start, err := time.Parse(ClockLayout, pair[0])
		if err != nil {
			return nil, fmt.Errorf("%w: slot %d start %q", ErrInvalidTimeSlot, i, pair[0])
		}
		end, err := time.Parse(ClockLayout, pair[1])
		if err != nil {
			return nil, fmt.Errorf("%w: slot %d end %q", ErrInvalidTimeSlot, i, pair[1])
		}
		if !start.Before(end) {
			return nil, fmt.Errorf("%w: slot %d starts at or after its end", ErrInvalidTimeSlot, i)
		}
		slots = append(slots, TimeSlot{Start: pair[0], End: pair[1]})
	}
	return slots, nil
}

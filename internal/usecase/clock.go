package usecase

import (
	"time"

	"campus-booking/internal/recurrence"
)

// Clock reads the current time in the campus timezone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Location: loc}
}

// Instant is the current time in the campus timezone.
func (c Clock) Instant() time.Time {
	return c.Now().In(c.Location)
}

// Today is the current campus calendar date as UTC midnight.
func (c Clock) Today() time.Time {
	return recurrence.CivilDate(c.Now(), c.Location)
}

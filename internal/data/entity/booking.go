package entity

import (
	"time"

	"campus-booking/internal/recurrence"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Activity is the template copied onto every occurrence row.
type Activity struct {
	Name          string                `db:"activity_name"`
	Description   string                `db:"activity_description"`
	Recurrence    recurrence.Policy     `db:"activity_recurrence"`
	StartingDate  time.Time             `db:"activity_starting_date"`
	EndingDate    time.Time             `db:"activity_ending_date"`
	Day           *int                  `db:"activity_day"` // nil for once
	Time          []recurrence.TimeSlot `db:"activity_time"`
	RecurringDate time.Time             `db:"activity_recurring_date"`
}

// Booking is one stored occurrence. A recurring request becomes many rows.
type Booking struct {
	ID             uuid.UUID     `db:"id"`
	UserID         uuid.UUID     `db:"user_id"`
	AllAuthorized  []uuid.UUID   `db:"all_authorized"`
	Activity       Activity      `db:"-"`
	Room           uuid.UUID     `db:"room"`
	ModuleID       *uuid.UUID    `db:"module_id"`
	GroupID        *uuid.UUID    `db:"group_id"`
	AdditionalInfo *string       `db:"additional_info"`
	Status         BookingStatus `db:"status"`
	AddedOn        time.Time     `db:"added_on"`
}

// Authorized returns ids with requester first and duplicates removed.
func Authorized(requester uuid.UUID, ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids)+1)
	out = append(out, requester)
	for _, id := range ids {
		if id == uuid.Nil || contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

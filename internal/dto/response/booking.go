package response

import (
	"time"

	"campus-booking/internal/data/entity"
	"campus-booking/internal/recurrence"

	"github.com/google/uuid"
)

type ActivityResponse struct {
	ActivityName          string                `json:"activity_name"`
	ActivityDescription   string                `json:"activity_description"`
	ActivityRecurrence    string                `json:"activity_recurrence"`
	ActivityStartingDate  string                `json:"activity_starting_date"`
	ActivityEndingDate    string                `json:"activity_ending_date"`
	ActivityDays          *int                  `json:"activity_days"`
	ActivityTime          []recurrence.TimeSlot `json:"activity_time"`
	ActivityRecurringDate string                `json:"activity_recurring_date"`
}

type BookingResponse struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	AllAuthorized  []string         `json:"all_authorized"`
	Room           string           `json:"room"`
	ModuleID       *string          `json:"module_id,omitempty"`
	GroupID        *string          `json:"group_id,omitempty"`
	Activity       ActivityResponse `json:"activity"`
	AdditionalInfo *string          `json:"additional_info"`
	Status         string           `json:"status"`
	AddedOn        time.Time        `json:"added_on"`
}

func NewBookingResponse(b *entity.Booking) BookingResponse {
	authorized := make([]string, 0, len(b.AllAuthorized))
	for _, id := range b.AllAuthorized {
		authorized = append(authorized, id.String())
	}

	return BookingResponse{
		ID:            b.ID.String(),
		UserID:        b.UserID.String(),
		AllAuthorized: authorized,
		Room:          b.Room.String(),
		ModuleID:      optionalID(b.ModuleID),
		GroupID:       optionalID(b.GroupID),
		Activity: ActivityResponse{
			ActivityName:          b.Activity.Name,
			ActivityDescription:   b.Activity.Description,
			ActivityRecurrence:    string(b.Activity.Recurrence),
			ActivityStartingDate:  b.Activity.StartingDate.Format(recurrence.DateLayout),
			ActivityEndingDate:    b.Activity.EndingDate.Format(recurrence.DateLayout),
			ActivityDays:          b.Activity.Day,
			ActivityTime:          b.Activity.Time,
			ActivityRecurringDate: b.Activity.RecurringDate.Format(recurrence.DateLayout),
		},
		AdditionalInfo: b.AdditionalInfo,
		Status:         string(b.Status),
		AddedOn:        b.AddedOn,
	}
}

func NewBookingResponses(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, NewBookingResponse(b))
	}
	return out
}

func optionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

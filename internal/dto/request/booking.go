package request

type ActivityRequest struct {
	ActivityName         string     `json:"activity_name" validate:"required,max=200"`
	ActivityDescription  string     `json:"activity_description" validate:"max=2000"`
	ActivityRecurrence   string     `json:"activity_recurrence" validate:"required"`
	ActivityStartingDate string     `json:"activity_starting_date" validate:"required,datetime=2006-01-02"`
	ActivityEndingDate   string     `json:"activity_ending_date" validate:"required,datetime=2006-01-02"`
	ActivityDays         []int      `json:"activity_days" validate:"omitempty,dive,min=1,max=7"`
	ActivityTime         [][]string `json:"activity_time" validate:"required,min=1,dive,len=2,dive,datetime=15:04"`
}

type CreateBookingRequest struct {
	UserID         string          `json:"user_id" validate:"required,uuid"`
	AllAuthorized  []string        `json:"all_authorized" validate:"omitempty,dive,uuid"`
	Room           string          `json:"room" validate:"required,uuid"`
	AdditionalInfo *string         `json:"additional_info" validate:"omitempty,max=2000"`
	Activity       ActivityRequest `json:"activity"`
}

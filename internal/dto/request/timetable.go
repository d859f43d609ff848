package request

// UploadFile is a received timetable file.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

type SaveTimetableRequest struct {
	StartingDate string `json:"starting_date" validate:"required,datetime=2006-01-02"`
}

type CalendarRequest struct {
	From string `validate:"omitempty,datetime=2006-01-02"`
	To   string `validate:"omitempty,datetime=2006-01-02"`
}

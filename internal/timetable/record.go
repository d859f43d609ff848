package timetable

import (
	"strings"
)

// Column names of the timetable export.
const (
	FieldEvent          = "_Event"
	FieldModule         = "_Module"
	FieldRoom           = "_Room"
	FieldStaffSurname   = "_StaffSurname"
	FieldStaffForenames = "_StaffForenames"
	FieldGroup          = "_Group"
)

// Intent is a data row before name resolution.
type Intent struct {
	Row        int
	Event      Event
	Module     string
	RoomName   string
	StaffNames []string
	Group      string
}

// ParseRecord extracts the fields used by the import from one row. row is
// the 1-based data row number, used in reports.
func ParseRecord(row int, rec Record) (Intent, error) {
	event, err := ParseEvent(rec[FieldEvent])
	if err != nil {
		return Intent{}, err
	}

	return Intent{
		Row:        row,
		Event:      event,
		Module:     strings.TrimSpace(rec[FieldModule]),
		RoomName:   SplitRoom(rec[FieldRoom]),
		StaffNames: StaffNames(rec[FieldStaffSurname], rec[FieldStaffForenames]),
		Group:      strings.TrimSpace(rec[FieldGroup]),
	}, nil
}

// SplitRoom returns the room part of "<building>_<room>". A value without
// a building prefix is returned as is.
func SplitRoom(value string) string {
	value = strings.TrimSpace(value)
	if _, room, ok := strings.Cut(value, "_"); ok {
		return room
	}
	return value
}

// StaffNames returns "<surname> <forenames>" followed by the same tokens in
// reverse order, the two spellings a user's fullname may be stored under.
func StaffNames(surname, forenames string) []string {
	tokens := strings.Fields(surname + " " + forenames)
	if len(tokens) == 0 {
		return nil
	}

	given := strings.Join(tokens, " ")
	reversed := make([]string, len(tokens))
	for i, tok := range tokens {
		reversed[len(tokens)-1-i] = tok
	}
	flipped := strings.Join(reversed, " ")

	if flipped == given {
		return []string{given}
	}
	return []string{given, flipped}
}

package timetable

import (
	"testing"

	"campus-booking/internal/recurrence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertTimeFormat(t *testing.T) {
	cases := map[string]string{
		"02:00pm": "14:00",
		"12:00am": "00:00",
		"12:30pm": "12:30",
		"9:05am":  "09:05",
		"11:59PM": "23:59",
		"01:00AM": "01:00",
	}
	for in, want := range cases {
		got, err := ConvertTimeFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"13:00pm", "00:30am", "14:00", "2pm", "02:60pm", ""} {
		_, err := ConvertTimeFormat(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, bad)
	}
}

func TestWeekdayNumber(t *testing.T) {
	for i, code := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		n, err := WeekdayNumber(code)
		require.NoError(t, err)
		assert.Equal(t, i+1, n)
	}
	n, err := WeekdayNumber("fri")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = WeekdayNumber("Monday")
	assert.ErrorIs(t, err, ErrInvalidWeekday)
}

func TestParseEvent(t *testing.T) {
	event, err := ParseEvent("Mon 11:00am-02:00pm 1-13")
	require.NoError(t, err)
	assert.Equal(t, Event{
		Weekday:   1,
		Slot:      recurrence.TimeSlot{Start: "11:00", End: "14:00"},
		WeekStart: 1,
		WeekEnd:   13,
	}, event)

	single, err := ParseEvent("  Thu  09:00am-10:00am   4 ")
	require.NoError(t, err)
	assert.Equal(t, 4, single.Weekday)
	assert.Equal(t, 4, single.WeekStart)
	assert.Equal(t, 4, single.WeekEnd)
}

func TestParseEvent_Invalid(t *testing.T) {
	for _, value := range []string{
		"",
		"Mon 11:00am-02:00pm",
		"Xyz 11:00am-02:00pm 1-2",
		"Mon 11:00am 1-2",
		"Mon 02:00pm-11:00am 1-2",
		"Mon 11:00am-02:00pm 0-2",
		"Mon 11:00am-02:00pm 5-2",
		"Mon 11:00am-02:00pm a-b",
	} {
		_, err := ParseEvent(value)
		assert.ErrorIs(t, err, ErrInvalidEvent, value)
	}
}

func TestSplitRoom(t *testing.T) {
	assert.Equal(t, "A101", SplitRoom("ENG_A101"))
	assert.Equal(t, "Lab_2", SplitRoom("SCI_Lab_2"))
	assert.Equal(t, "Hall", SplitRoom(" Hall "))
}

func TestStaffNames(t *testing.T) {
	assert.Equal(t, []string{"Smith John Paul", "Paul John Smith"}, StaffNames("Smith", "John  Paul"))
	assert.Equal(t, []string{"Cher"}, StaffNames("Cher", ""))
	assert.Nil(t, StaffNames(" ", ""))
}

func TestParseRecord(t *testing.T) {
	intent, err := ParseRecord(3, Record{
		FieldEvent:          "Wed 08:00am-09:00am 2-4",
		FieldModule:         " Databases ",
		FieldRoom:           "ENG_A101",
		FieldStaffSurname:   "Smith",
		FieldStaffForenames: "John",
		FieldGroup:          "CS1",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, intent.Row)
	assert.Equal(t, "Databases", intent.Module)
	assert.Equal(t, "A101", intent.RoomName)
	assert.Equal(t, []string{"Smith John", "John Smith"}, intent.StaffNames)
	assert.Equal(t, "CS1", intent.Group)
	assert.Equal(t, 3, intent.Event.Weekday)

	_, err = ParseRecord(4, Record{FieldModule: "x"})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

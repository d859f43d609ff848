package timetable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawExport = `_Event,_Module,_Room,_Flag,_Empty,_StaffSurname,_StaffForenames,_Group
Mon 11:00am-02:00pm 1-13,Databases,ENG_A101,f,,Smith,John,CS1
,,,N,,,,CS2
,,,,,Doe,Jane,
Tue 09:00am-10:00am 2-3,Networks,ENG_B202,f,,Brown,Ann,CS3
`

func TestNormalize_DropsPlaceholderAndEmptyColumns(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(rawExport))
	require.NoError(t, err)

	cleaned, report := Normalize(table)

	assert.Equal(t, []string{"_Event", "_Module", "_Room", "_StaffSurname", "_StaffForenames", "_Group"}, cleaned.Header)
	assert.Equal(t, []string{"_Flag", "_Empty"}, report.DroppedColumns)
	assert.Equal(t, 2, report.MergedRows)
	assert.Equal(t, 2, report.Rows)

	require.Len(t, cleaned.Rows, 2)
	assert.Equal(t, []string{"Mon 11:00am-02:00pm 1-13", "Databases", "ENG_A101", "Smith, Doe", "John, Jane", "CS1, CS2"}, cleaned.Rows[0])
	assert.Equal(t, []string{"Tue 09:00am-10:00am 2-3", "Networks", "ENG_B202", "Brown", "Ann", "CS3"}, cleaned.Rows[1])
}

func TestNormalize_Idempotent(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(rawExport))
	require.NoError(t, err)

	once, _ := Normalize(table)
	twice, report := Normalize(once)

	assert.Equal(t, once, twice)
	assert.Empty(t, report.DroppedColumns)
	assert.Zero(t, report.MergedRows)
}

func TestNormalize_LeadingContinuationIsKept(t *testing.T) {
	table := Table{
		Header: []string{"a", "b"},
		Rows: [][]string{
			{"", "orphan"},
			{"", "more"},
			{"x", "y"},
		},
	}

	cleaned, report := Normalize(table)
	assert.Equal(t, [][]string{{"", "orphan, more"}, {"x", "y"}}, cleaned.Rows)
	assert.Equal(t, 1, report.MergedRows)

	again, _ := Normalize(cleaned)
	assert.Equal(t, cleaned, again)
}

func TestNormalize_HeaderOnly(t *testing.T) {
	table := Table{Header: []string{"a", "b"}}
	cleaned, report := Normalize(table)
	assert.Equal(t, []string{"a", "b"}, cleaned.Header)
	assert.Empty(t, cleaned.Rows)
	assert.Empty(t, report.DroppedColumns)
}

package timetable

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV_PadsRaggedRows(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("\ufeffa,b,c\n1,2\n3,4,5,6\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, table.Header)
	assert.Equal(t, [][]string{{"1", "2", ""}, {"3", "4", "5"}}, table.Rows)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"_Event", "_Module"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Mon 09:00am-10:00am 1-2", "Databases"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := ReadXLSX(buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"_Event", "_Module"}, table.Header)
	assert.Equal(t, [][]string{{"Mon 09:00am-10:00am 1-2", "Databases"}}, table.Rows)
}

func TestWriteJSON_StubFirstAndReadBack(t *testing.T) {
	table := Table{
		Header: []string{"_Event", "_Module"},
		Rows:   [][]string{{"Mon 09:00am-10:00am 1-2", "Databases"}},
	}

	var buf bytes.Buffer
	require.NoError(t, table.WriteJSON(&buf))
	assert.Equal(t,
		`[{"_Event":"_Event","_Module":"_Module"},{"_Event":"Mon 09:00am-10:00am 1-2","_Module":"Databases"}]`,
		buf.String())

	records, err := ReadRecords(&buf)
	require.NoError(t, err)
	assert.Equal(t, []Record{{"_Event": "Mon 09:00am-10:00am 1-2", "_Module": "Databases"}}, records)
}

func TestWriteCSV(t *testing.T) {
	table := Table{Header: []string{"a", "b"}, Rows: [][]string{{"1", "x, y"}}}
	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))
	assert.Equal(t, "a,b\n1,\"x, y\"\n", buf.String())

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, table, back)
}

func TestHead(t *testing.T) {
	table := Table{Header: []string{"a"}, Rows: [][]string{{"1"}, {"2"}, {"3"}}}
	assert.Len(t, table.Head(2).Rows, 2)
	assert.Len(t, table.Head(10).Rows, 3)
}

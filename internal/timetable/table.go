// Package timetable turns a spreadsheet export of a teaching timetable into
// booking rows. The stages are pure; lookups and persistence are done by the caller.
package timetable

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyTable   = errors.New("timetable: table has no header row")
	ErrNoWorksheets = errors.New("timetable: workbook has no worksheets")
)

// Table is a header plus data rows. Every row has exactly len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Record is one data row keyed by column name.
type Record map[string]string

// ReadCSV parses a CSV export. Ragged rows are padded or truncated to the header width.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	return fromRecords(records)
}

// ReadXLSX parses the first worksheet of an Excel workbook.
func ReadXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, ErrNoWorksheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return fromRecords(rows)
}

func fromRecords(records [][]string) (Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return Table{}, ErrEmptyTable
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	table := Table{Header: header, Rows: make([][]string, 0, len(records)-1)}
	for _, record := range records[1:] {
		row := make([]string, len(header))
		copy(row, record)
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Records returns the data rows keyed by header.
func (t Table) Records() []Record {
	out := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(Record, len(t.Header))
		for i, name := range t.Header {
			rec[name] = row[i]
		}
		out = append(out, rec)
	}
	return out
}

// Head returns a copy of the table limited to its first n rows.
func (t Table) Head(n int) Table {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return Table{Header: t.Header, Rows: t.Rows[:n]}
}

func (t Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// WriteJSON writes an array of objects in column order. The first object is
// the header stub, mapping every column name to itself.
func (t Table) WriteJSON(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	if err := writeObject(&buf, t.Header, t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		buf.WriteByte(',')
		if err := writeObject(&buf, t.Header, row); err != nil {
			return err
		}
	}
	buf.WriteByte(']')

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

func writeObject(buf *bytes.Buffer, keys, values []string) error {
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return fmt.Errorf("encode key %q: %w", key, err)
		}
		v, err := json.Marshal(values[i])
		if err != nil {
			return fmt.Errorf("encode value of %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return nil
}

// ReadRecords decodes the JSON artifact written by WriteJSON, dropping the header stub.
func ReadRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode timetable json: %w", err)
	}
	if len(records) > 0 && isStub(records[0]) {
		records = records[1:]
	}
	return records, nil
}

func isStub(rec Record) bool {
	if len(rec) == 0 {
		return false
	}
	for k, v := range rec {
		if k != v {
			return false
		}
	}
	return true
}

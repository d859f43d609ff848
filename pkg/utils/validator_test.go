package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string     `json:"name" validate:"required"`
	Date  string     `json:"starting_date" validate:"required,datetime=2006-01-02"`
	Slots [][]string `json:"activity_time" validate:"required,min=1,dive,len=2,dive,datetime=15:04"`
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	errs := ValidateStruct(sample{Date: "02/01/2023", Slots: [][]string{{"08:00", "9am"}}})

	assert.Equal(t, "This field is required", errs["name"])
	assert.Equal(t, "Must match the format 2006-01-02", errs["starting_date"])
	assert.Equal(t, "Must match the format 15:04", errs["activity_time[0][1]"])
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(sample{Name: "x", Date: "2023-01-02", Slots: [][]string{{"08:00", "09:00"}}})
	assert.Nil(t, errs)
}

func TestFormatValidationErrors_Sorted(t *testing.T) {
	out := FormatValidationErrors(map[string]string{"b": "two", "a": "one"})
	assert.Equal(t, "a: one; b: two", out)
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 3, ParseInt("3", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("-2", 1))
	assert.Equal(t, 10, ParseInt("abc", 10))
	assert.Equal(t, 2, CalculateTotalPages(11, 10))
	assert.Equal(t, 20, CalculateOffset(3, 10))
}

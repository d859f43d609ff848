package recurrence

import (
	"errors"
	"time"
)

// Policy names how an activity template expands into occurrences.
type Policy string

const (
	PolicyOnce        Policy = "once"
	PolicyWeekly      Policy = "weekly"
	PolicyMonthly     Policy = "monthly"
	PolicyCertainDays Policy = "certain_days"
)

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// monthlyStep is the fixed stride of the monthly policy. It is not a calendar month.
const monthlyStep = 30

var (
	// ErrInvalidRecurrence indicates the recurrence tag is not one of the supported policies.
	ErrInvalidRecurrence = errors.New("recurrence: invalid policy")
	// ErrInvalidDateRange indicates the window ends before it starts.
	ErrInvalidDateRange = errors.New("recurrence: ending date is before starting date")
	// ErrInvalidWeekday indicates a weekday number outside 1..7.
	ErrInvalidWeekday = errors.New("recurrence: weekday must be between 1 and 7")
	// ErrNoMatchingOccurrences indicates expansion produced nothing.
	ErrNoMatchingOccurrences = errors.New("recurrence: no matching occurrences")
)

// ParsePolicy validates a recurrence tag.
func ParsePolicy(value string) (Policy, error) {
	switch p := Policy(value); p {
	case PolicyOnce, PolicyWeekly, PolicyMonthly, PolicyCertainDays:
		return p, nil
	default:
		return "", ErrInvalidRecurrence
	}
}

// ParseDate parses a YYYY-MM-DD calendar date into UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// CivilDate returns the calendar date of t as observed in loc, expressed as UTC midnight.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ISOWeekday maps Monday..Sunday to 1..7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// Window is an inclusive range of calendar dates.
type Window struct {
	Start time.Time
	End   time.Time
}

// Validate reports ErrInvalidDateRange when End precedes Start.
func (w Window) Validate() error {
	if w.End.Before(w.Start) {
		return ErrInvalidDateRange
	}
	return nil
}

// Contains reports whether date falls inside the window, bounds included.
func (w Window) Contains(date time.Time) bool {
	return !date.Before(w.Start) && !date.After(w.End)
}

// Occurrence is one concrete dated instance of an activity.
// Day is the weekday tag the occurrence was generated for; nil for once.
type Occurrence struct {
	Date time.Time
	Day  *int
}

// Options tunes expansion.
type Options struct {
	// StrictWeekdayFilter makes monthly and certain_days emit only the steps
	// whose weekday equals the tag they are generated for.
	StrictWeekdayFilter bool
}

// Rule is a validated recurrence template. The concrete variants are
// OnceRule, WeeklyRule, MonthlyRule and CertainDaysRule.
type Rule interface {
	Policy() Policy
	expand(opts Options) []Occurrence
}

type OnceRule struct {
	Window Window
}

type WeeklyRule struct {
	Window Window
	Days   []int
}

type MonthlyRule struct {
	Window Window
	Days   []int
}

type CertainDaysRule struct {
	Window Window
	Days   []int
}

func (OnceRule) Policy() Policy        { return PolicyOnce }
func (WeeklyRule) Policy() Policy      { return PolicyWeekly }
func (MonthlyRule) Policy() Policy     { return PolicyMonthly }
func (CertainDaysRule) Policy() Policy { return PolicyCertainDays }

// NewRule builds the variant for policy. Days are ignored for once and
// deduplicated, in order, for the other policies.
func NewRule(policy Policy, window Window, days []int) (Rule, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	if policy == PolicyOnce {
		return OnceRule{Window: window}, nil
	}

	unique, err := normalizeDays(days)
	if err != nil {
		return nil, err
	}

	switch policy {
	case PolicyWeekly:
		return WeeklyRule{Window: window, Days: unique}, nil
	case PolicyMonthly:
		return MonthlyRule{Window: window, Days: unique}, nil
	case PolicyCertainDays:
		return CertainDaysRule{Window: window, Days: unique}, nil
	default:
		return nil, ErrInvalidRecurrence
	}
}

// Expand produces the occurrences of rule. An empty result is an error.
func Expand(rule Rule, opts Options) ([]Occurrence, error) {
	if rule == nil {
		return nil, ErrInvalidRecurrence
	}
	occurrences := rule.expand(opts)
	if len(occurrences) == 0 {
		return nil, ErrNoMatchingOccurrences
	}
	return occurrences, nil
}

func (r OnceRule) expand(Options) []Occurrence {
	return []Occurrence{{Date: r.Window.Start}}
}

// Each day starts at its first matching date on or after Start and repeats every 7 days.
func (r WeeklyRule) expand(Options) []Occurrence {
	var out []Occurrence
	for _, day := range r.Days {
		offset := (day - ISOWeekday(r.Window.Start) + 7) % 7
		for date := r.Window.Start.AddDate(0, 0, offset); !date.After(r.Window.End); date = date.AddDate(0, 0, 7) {
			out = append(out, tagged(date, day))
		}
	}
	return out
}

func (r MonthlyRule) expand(opts Options) []Occurrence {
	return stepped(r.Window, r.Days, monthlyStep, opts.StrictWeekdayFilter)
}

func (r CertainDaysRule) expand(opts Options) []Occurrence {
	return stepped(r.Window, r.Days, 1, opts.StrictWeekdayFilter)
}

// stepped walks the window from Start in fixed strides once per day tag.
// Without strict filtering every stride is emitted whatever its weekday.
func stepped(window Window, days []int, step int, strict bool) []Occurrence {
	var out []Occurrence
	for _, day := range days {
		for date := window.Start; !date.After(window.End); date = date.AddDate(0, 0, step) {
			if strict && ISOWeekday(date) != day {
				continue
			}
			out = append(out, tagged(date, day))
		}
	}
	return out
}

func tagged(date time.Time, day int) Occurrence {
	d := day
	return Occurrence{Date: date, Day: &d}
}

func normalizeDays(days []int) ([]int, error) {
	seen := make(map[int]struct{}, len(days))
	unique := make([]int, 0, len(days))
	for _, day := range days {
		if day < 1 || day > 7 {
			return nil, ErrInvalidWeekday
		}
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		unique = append(unique, day)
	}
	return unique, nil
}

package model

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar date with no time component. Two Days compare equal
// when they name the same calendar day, independent of time zone or
// time-of-day of the moment they were derived from.
type Day struct {
	t time.Time
}

// NewDay truncates t to its calendar day in t's location.
func NewDay(t time.Time) Day {
	y, m, d := t.Date()
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day in local time.
func Today() Day {
	return NewDay(time.Now())
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: bad date %q", ErrInvalidRequest, s)
	}
	return Day{t: t}, nil
}

func (d Day) String() string { return d.t.Format(dayLayout) }

func (d Day) IsZero() bool { return d.t.IsZero() }

// Next returns the following calendar day.
func (d Day) Next() Day { return Day{t: d.t.AddDate(0, 0, 1)} }

// Prev returns the preceding calendar day.
func (d Day) Prev() Day { return Day{t: d.t.AddDate(0, 0, -1)} }

func (d Day) Year() int         { return d.t.Year() }
func (d Day) Month() time.Month { return d.t.Month() }

func (d Day) Before(o Day) bool { return d.t.Before(o.t) }
func (d Day) After(o Day) bool  { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool  { return d.t.Equal(o.t) }

func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Day) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("%w: bad date %s", ErrInvalidRequest, s)
	}
	parsed, err := ParseDay(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthDays returns every day of the given month in order.
func MonthDays(year int, month time.Month) []Day {
	if month < time.January || month > time.December {
		return nil
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	var days []Day
	for t := first; t.Month() == month; t = t.AddDate(0, 0, 1) {
		days = append(days, Day{t: t})
	}
	return days
}

// Package date provides a calendar date without a time-of-day component,
// serialized as YYYY-MM-DD on the wire and in storage.
package date

import (
	"time"

	"github.com/go-faster/errors"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

// Date is a calendar date. The zero value is the zero date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Parse parses a YYYY-MM-DD string into a Date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, errors.Wrapf(err, "parse date %q", s)
	}
	return FromTime(t), nil
}

// FromTime extracts the calendar date from t in t's location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format(Layout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, len(Layout)+2)
	b = append(b, '"')
	b = d.Time().AppendFormat(b, Layout)
	b = append(b, '"')
	return b, nil
}

// UnmarshalJSON decodes a YYYY-MM-DD JSON string.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("date must be a JSON string")
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

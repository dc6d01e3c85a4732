package repository

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/lodging-booking/internal/calendar"
)

// nullDate scans a DATE column.  The MySQL driver (parseTime=true) hands
// back time.Time while SQLite may return the stored text, so both are
// accepted.  Only the calendar day is kept.
type nullDate struct {
	Date  calendar.Date
	Valid bool
}

func (n *nullDate) Scan(src any) error {
	n.Date, n.Valid = calendar.Date{}, false
	switch v := src.(type) {
	case nil:
		return nil
	case time.Time:
		n.Date, n.Valid = calendar.DateOf(v), true
		return nil
	case []byte:
		return n.parse(string(v))
	case string:
		return n.parse(v)
	}
	return fmt.Errorf("unsupported date value %T", src)
}

func (n *nullDate) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if len(s) > len(calendar.Layout) {
		s = s[:len(calendar.Layout)]
	}
	d, err := calendar.ParseDate(s)
	if err != nil {
		return err
	}
	n.Date, n.Valid = d, true
	return nil
}

func (n nullDate) ptr() *calendar.Date {
	if !n.Valid {
		return nil
	}
	d := n.Date
	return &d
}

// timestampLayouts are the textual forms a DATETIME may come back in.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	calendar.Layout,
}

// utcTime scans a DATETIME column into a UTC time.Time.  NULL yields the
// zero time.
type utcTime struct{ Time time.Time }

func (u *utcTime) Scan(src any) error {
	u.Time = time.Time{}
	var s string
	switch v := src.(type) {
	case nil:
		return nil
	case time.Time:
		u.Time = v.UTC()
		return nil
	case []byte:
		s = string(v)
	case string:
		s = v
	case int64:
		u.Time = time.Unix(v, 0).UTC()
		return nil
	default:
		return fmt.Errorf("unsupported timestamp value %T", src)
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			u.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}

var (
	_ interface{ Scan(any) error } = (*nullDate)(nil)
	_ interface{ Scan(any) error } = (*utcTime)(nil)
	_ driver.Valuer                = dateArg{}
)

// dateArg binds a calendar day as a YYYY-MM-DD string, which both MySQL
// DATE columns and SQLite text comparisons understand.
type dateArg calendar.Date

func (d dateArg) Value() (driver.Value, error) { return calendar.Date(d).String(), nil }

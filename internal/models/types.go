package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04:05.999999"
)

var timeOfDayInputLayouts = []string{
	"15:04:05.999999999",
	"15:04:05",
	"15:04",
}

// Date is a calendar date without time of day, kept at midnight UTC.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return fmt.Errorf("cannot scan NULL into Date")
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan type %T into Date", value)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) < len(DateLayout) {
		return fmt.Errorf("cannot scan %q into Date", s)
	}
	parsed, err := ParseDate(s[:len(DateLayout)])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is a wall-clock time with no date or zone attached.
type TimeOfDay struct {
	time.Time
}

func NewTimeOfDay(hour, min, sec, nsec int) TimeOfDay {
	return TimeOfDay{time.Date(0, 1, 1, hour, min, sec, nsec, time.UTC)}
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range timeOfDayInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute(), t.Second(), t.Nanosecond()), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time %q, expected HH:MM[:SS[.ffffff]]", s)
}

func (t TimeOfDay) String() string {
	return t.Format(TimeOfDayLayout)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *TimeOfDay) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return fmt.Errorf("cannot scan NULL into TimeOfDay")
	case time.Time:
		*t = NewTimeOfDay(v.Hour(), v.Minute(), v.Second(), v.Nanosecond())
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("cannot scan type %T into TimeOfDay", value)
	}
}

// scanString accepts a bare clock value or a full timestamp as some SQLite
// drivers hand back for TIME columns.
func (t *TimeOfDay) scanString(s string) error {
	if parsed, err := ParseTimeOfDay(s); err == nil {
		*t = parsed
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05.999999999"} {
		if ts, err := time.Parse(layout, s); err == nil {
			*t = NewTimeOfDay(ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond())
			return nil
		}
	}
	return fmt.Errorf("cannot scan %q into TimeOfDay", s)
}

// internal/domain/date.go
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of a transaction date.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component, always held in UTC.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses s with the given layout and truncates it to a calendar date.
func ParseDate(layout, s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t.Date()), nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD".
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(DateLayout, s)
	if err != nil {
		return fmt.Errorf("date must have format YYYY-MM-DD: %w", err)
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner. Postgres hands back time.Time for DATE
// columns, SQLite may hand back the raw text.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v.Date())
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanText(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(DateLayout, s)
	if err != nil {
		return fmt.Errorf("scan date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

package model

import (
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date carried over JSON as "YYYY-MM-DD".
type Date struct {
	time.Time
}

var dateLayouts = []string{
	dateLayout,
	"02.01.2006",
	"02-01-2006",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts any of the supported layouts and truncates to midnight UTC.
func ParseDate(s string) (Date, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}

	return Date{}, fmt.Errorf("cannot parse date: %s", s)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid date format (string expected): %w", err)
	}

	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte(`null`), nil
	}

	return json.Marshal(d.Time.Format(dateLayout))
}

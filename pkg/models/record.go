package models

import (
	"bytes"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Record is any server object with a stable id. Locator is the `self` URL used to update
// or delete it; it is empty for read-only records.
type Record interface {
	RecordID() int
	Locator() string
}

// CollectionKey names a mutable raw collection inside a store.
type CollectionKey string

const (
	CollectionContact              CollectionKey = "contact"
	CollectionProjectInternship    CollectionKey = "projectInternship"
	CollectionProjectPlace         CollectionKey = "projectPlace"
	CollectionQuestioning          CollectionKey = "questioning"
	CollectionStudent              CollectionKey = "student"
	CollectionPreplannedInternship CollectionKey = "preplannedInternship"
)

const dateLayout = "2006-01-02"

// Date accepts both calendar dates and RFC 3339 timestamps.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MustParseDate panics on malformed input, for fixtures and constants.
func MustParseDate(s string) Date {
	var d Date
	if err := d.parse(s); err != nil {
		panic(err)
	}
	return d
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("date: expected string, got %s", data)
	}
	return d.parse(string(data[1 : len(data)-1]))
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	if d.Location() == time.UTC && d.Equal(d.Truncate(24*time.Hour)) {
		return d.Format(dateLayout)
	}
	return d.Format(time.RFC3339Nano)
}

func (d *Date) parse(s string) error {
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	d.Time = t
	return nil
}

// RawJSON carries a nested document the client does not interpret.
type RawJSON = json.RawMessage

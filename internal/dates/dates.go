package dates

import (
	"encoding/json"
	"fmt"
	"time"
)

// Two representations of the same calendar day: requests carry DD/MM/YYYY,
// the dataset file stores YYYY-MM-DD.
const (
	wireLayout    = "02/01/2006"
	storageLayout = "2006-01-02"
)

// Date is a calendar day with no time-of-day or zone component.
type Date struct {
	t time.Time
}

func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseWire parses the request representation (DD/MM/YYYY). Parsing is
// strict: zero-padded fields and a calendar-valid day are required.
func ParseWire(s string) (Date, error) {
	t, err := time.Parse(wireLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want DD/MM/YYYY", s)
	}
	return Date{t}, nil
}

// ParseStorage parses the persisted representation (YYYY-MM-DD).
func ParseStorage(s string) (Date, error) {
	t, err := time.Parse(storageLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid stored date %q: want YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

func (d Date) Wire() string    { return d.t.Format(wireLayout) }
func (d Date) Storage() string { return d.t.Format(storageLayout) }

func (d Date) Year() int { return d.t.Year() }

func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date { return Date{d.t.AddDate(0, 0, n)} }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string { return d.Storage() }

// MarshalJSON renders the storage form; response payloads carry ISO dates.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Storage())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseStorage(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

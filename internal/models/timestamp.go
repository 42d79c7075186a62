package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// StorageLayout is the fixed-width RFC 3339 form written to the database.
// Every stored value is UTC with nine fractional digits, so comparing the
// text gives the same order as comparing the instants.
const StorageLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrCorruptTimestamp is returned when a stored timestamp cannot be parsed.
var ErrCorruptTimestamp = errors.New("corrupt timestamp")

// Timestamp is a UTC instant stored as RFC 3339 text.
type Timestamp struct {
	time.Time
}

// NewTimestamp converts t to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// Now returns the current instant.
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// ParseTimestamp parses any RFC 3339 text, with or without fractional seconds.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, err
	}
	return NewTimestamp(t), nil
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	return t.UTC().Format(StorageLayout), nil
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return t.scanText(v)
	case []byte:
		return t.scanText(string(v))
	case time.Time:
		t.Time = v.UTC()
		return nil
	case nil:
		return fmt.Errorf("%w: unexpected NULL", ErrCorruptTimestamp)
	default:
		return fmt.Errorf("%w: unsupported column type %T", ErrCorruptTimestamp, src)
	}
}

func (t *Timestamp) scanText(s string) error {
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCorruptTimestamp, s, err)
	}
	*t = parsed
	return nil
}

// MarshalJSON renders the instant as RFC 3339 in UTC.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// UnmarshalJSON accepts RFC 3339 text. A JSON null leaves t unchanged.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var parsed time.Time
	if err := parsed.UnmarshalJSON(data); err != nil {
		return err
	}
	t.Time = parsed.UTC()
	return nil
}

// Equal reports whether both timestamps denote the same instant.
func (t Timestamp) Equal(other Timestamp) bool {
	return t.Time.Equal(other.Time)
}

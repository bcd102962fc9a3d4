package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validator is implemented by every decoded entity.
type Validator interface {
	Validate() error
}

// ErrInvalidModel is wrapped by every Validate failure.
var ErrInvalidModel = errors.New("invalid model")

func invalid(kind, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidModel, kind, fmt.Sprintf(format, args...))
}

// ValidateAll validates every element of items, reporting the first failure with its index.
func ValidateAll[T any, PT interface {
	*T
	Validator
}](items []T) error {
	for i := range items {
		if err := PT(&items[i]).Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// timeLayouts are tried in order when decoding a [Time].
// The API emits ISO 8601 timestamps that may lack a zone offset.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Time is a timestamp that accepts zone-less ISO 8601 values. Zone-less values are read as UTC.
type Time struct {
	time.Time
}

// NewTime wraps t.
func NewTime(t time.Time) Time { return Time{Time: t} }

// ParseTime parses s with the layouts accepted by the API.
func ParseTime(s string) (Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Time{Time: t}, nil
		}
	}
	return Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		*t = Time{}
		return nil
	}

	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// Date formats t as YYYY-MM-DD, or an empty string when unset.
func (t Time) Date() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// String returns a pointer to s, for the optional fields of update payloads.
func String(s string) *string { return &s }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

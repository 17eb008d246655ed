// Package dateutil converts XML Schema date/time text to Unix time.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedTimestamp indicates text that is neither xs:dateTime nor xs:date.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// MaxTimestampLength limits input length to prevent abuse.
const MaxTimestampLength = 64

// dateTimeLayouts are tried in order for xs:dateTime values.
// The round-trip form comes first, then the fixed-offset pattern, then the
// offset-less form which is read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05",
}

// dateLayouts are tried in order for xs:date values (midnight is implied).
var dateLayouts = []string{
	"2006-01-02Z07:00",
	"2006-01-02",
}

// ParseDateTime parses an xs:dateTime or xs:date value.
// Returns ErrMalformedTimestamp if no layout matches; it never falls back to
// the current time.
func ParseDateTime(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrMalformedTimestamp)
	}
	if len(s) > MaxTimestampLength {
		return time.Time{}, fmt.Errorf("%w: input exceeds %d characters", ErrMalformedTimestamp, MaxTimestampLength)
	}

	if strings.Contains(s, "T") {
		for _, layout := range dateTimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, input)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, input)
}

// ToUnix converts an xs:dateTime or xs:date value to seconds since epoch.
// Fractional seconds are dropped.
func ToUnix(input string) (int64, error) {
	t, err := ParseDateTime(input)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// FormatDateTime renders t in the canonical xs:dateTime form (RFC 3339,
// whole seconds). ParseDateTime accepts every value it produces.
func FormatDateTime(t time.Time) string {
	return t.Truncate(time.Second).Format(time.RFC3339)
}

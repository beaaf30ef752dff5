package edm

import (
	"fmt"
	"time"
)

// Layouts accepted inside datetime'...'. Fractional seconds are accepted
// after the seconds field by time.Parse without an explicit layout.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",  // Seconds without timezone
	"2006-01-02T15:04",     // Minutes without timezone
	"2006-01-02T15:04:05Z", // Seconds, UTC designator
	"2006-01-02T15:04Z",    // Minutes, UTC designator
	"2006-01-02",           // Date only
	"2006-01-02 15:04:05",  // Seconds with space
}

var dateTimeOffsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// ParseDateTime parses the body of a datetime literal. Values carry no
// offset and are interpreted as UTC.
func ParseDateTime(value string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid Edm.DateTime value '%s'", value)
}

// ParseDateTimeOffset parses the body of a datetimeoffset literal.
func ParseDateTimeOffset(value string) (time.Time, error) {
	for _, layout := range dateTimeOffsetLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid Edm.DateTimeOffset value '%s'", value)
}

// FormatDateTime renders t as the body of a datetime literal.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.999999999")
}

// FormatDateTimeOffset renders t as the body of a datetimeoffset literal.
func FormatDateTimeOffset(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

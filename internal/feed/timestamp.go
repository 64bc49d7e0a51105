package feed

import (
	"errors"
	"strings"
	"time"
)

const (
	timestampSpaceSeparatedLayoutConstant = "2006-01-02 15:04:05.999999999Z07:00"
	timestampLocalLayoutConstant          = "2006-01-02T15:04:05.999999999"
	timestampDateOnlyLayoutConstant       = time.DateOnly
	unparseableTimestampMessageConstant   = "timestamp is not ISO-8601"
)

// ErrUnparseableTimestamp indicates a timestamp matched none of the accepted ISO-8601 layouts.
var ErrUnparseableTimestamp = errors.New(unparseableTimestampMessageConstant)

var offsetTimestampLayouts = []string{
	time.RFC3339Nano,
	timestampSpaceSeparatedLayoutConstant,
}

var localTimestampLayouts = []string{
	timestampLocalLayoutConstant,
	timestampDateOnlyLayoutConstant,
}

// ParseTimestamp parses an ISO-8601 timestamp, keeping its offset. Timestamps without an offset are read as UTC.
func ParseTimestamp(timestamp string) (time.Time, error) {
	trimmedTimestamp := strings.TrimSpace(timestamp)
	for _, layout := range offsetTimestampLayouts {
		if parsed, parseError := time.Parse(layout, trimmedTimestamp); parseError == nil {
			return parsed, nil
		}
	}
	for _, layout := range localTimestampLayouts {
		if parsed, parseError := time.ParseInLocation(layout, trimmedTimestamp, time.UTC); parseError == nil {
			return parsed, nil
		}
	}
	return time.Time{}, ErrUnparseableTimestamp
}

// FormatPublicationDate renders an ISO-8601 timestamp in RFC 822 form with a numeric offset.
func FormatPublicationDate(timestamp string) (string, error) {
	parsed, parseError := ParseTimestamp(timestamp)
	if parseError != nil {
		return "", parseError
	}
	return parsed.Format(time.RFC1123Z), nil
}

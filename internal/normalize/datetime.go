package normalize

import (
	"strings"
	"time"
)

// dateLayouts are tried in order against a raw date cell. Ambiguous numeric
// forms are interpreted day-first ("29/09/2025", "1/2/2025" == 1 Feb), which
// matches the locale of the source sheet. Go's non-padded layout digits
// accept both padded and unpadded values.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2006-1-2",
	"2 Jan 2006",
	"2 January 2006",
}

// timeLayouts are tried in order against a raw time-of-day cell.
var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// DefaultTime is the time-of-day assumed when a timed row omits one.
const DefaultTime = "00:00:00"

// ParseDate parses a raw date cell into a calendar date (midnight in loc).
// It reports ok == false when no known layout matches.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	s, ok := Clean(value)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
		}
	}
	return time.Time{}, false
}

// ParseDateTime combines a date cell and a time-of-day cell into a single
// timestamp in the given fixed zone. An unparseable date or time yields
// ok == false rather than an error: callers treat it as a recoverable
// skip condition, never as fatal to the batch.
func ParseDateTime(dateValue, timeValue string, loc *time.Location) (time.Time, bool) {
	date, ok := ParseDate(dateValue, loc)
	if !ok {
		return time.Time{}, false
	}

	ts, ok := Clean(timeValue)
	if !ok {
		ts = DefaultTime
	}
	tod, ok := parseTimeOfDay(ts)
	if !ok {
		return time.Time{}, false
	}

	return time.Date(date.Year(), date.Month(), date.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, loc), true
}

func parseTimeOfDay(value string) (time.Time, bool) {
	s := strings.ToUpper(strings.TrimSpace(value))
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

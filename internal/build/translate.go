// Package build turns normalized table rows into events and drives the
// per-calendar grouping pipeline.
package build

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	appLog "sheetcal/internal/log"
	"sheetcal/internal/model"
	"sheetcal/internal/normalize"
	"sheetcal/internal/sheet"
)

// Column names recognized in the source table.
const (
	ColTitle       = "Title"
	ColStartDate   = "Start Date"
	ColStartTime   = "Start Time"
	ColEndDate     = "End Date"
	ColEndTime     = "End Time"
	ColLocation    = "Location"
	ColDescription = "Description"
	ColURL         = "URL"
	ColUID         = "UID"
	ColTransparent = "Transparent"
	ColRRule       = "RRule"
)

// Skip reasons reported by Translate.
const (
	ReasonMissingTitle = "missing title"
	ReasonInvalidStart = "invalid start"
	ReasonInvalidEnd   = "invalid end"
	ReasonRowPanic     = "unexpected failure"
)

// SkipError explains why a row produced no event. It is the only error type
// Translate returns; the pipeline counts and logs it, nothing propagates
// further.
type SkipError struct {
	Reason string
	Cause  error
}

func (e *SkipError) Error() string {
	if e.Cause != nil {
		return e.Reason + ": " + e.Cause.Error()
	}
	return e.Reason
}

func (e *SkipError) Unwrap() error { return e.Cause }

// transparentValues mark an event as non-blocking for free/busy purposes.
var transparentValues = map[string]struct{}{
	"true": {},
	"yes":  {},
	"1":    {},
}

// Translate converts one table row into an Event in the given fixed zone.
// index identifies the row for diagnostics only.
//
// Any failure, including a panic from unexpected input, becomes a *SkipError:
// a bad row never takes down its group or the batch.
func Translate(row sheet.Row, loc *time.Location, index int) (ev model.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			ev = model.Event{}
			err = &SkipError{Reason: ReasonRowPanic, Cause: fmt.Errorf("row %d: %v", index, r)}
		}
	}()

	title, ok := normalize.Clean(row.Get(ColTitle))
	if !ok {
		return model.Event{}, &SkipError{Reason: ReasonMissingTitle}
	}

	startDate := row.Get(ColStartDate)
	startTime, hasStartTime := normalize.Clean(row.Get(ColStartTime))
	endDate, hasEndDate := normalize.Clean(row.Get(ColEndDate))
	endTime, hasEndTime := normalize.Clean(row.Get(ColEndTime))

	// A row is timed as soon as either time-of-day column carries a value;
	// otherwise it is an all-day event on calendar dates.
	isTimed := hasStartTime || hasEndTime

	var begin, end time.Time
	if isTimed {
		st := startTime
		if !hasStartTime {
			st = normalize.DefaultTime
		}
		begin, ok = normalize.ParseDateTime(startDate, st, loc)
		if !ok {
			return model.Event{}, &SkipError{Reason: ReasonInvalidStart}
		}

		if !hasEndDate && !hasEndTime {
			end = begin.Add(time.Hour)
		} else {
			ed := endDate
			if !hasEndDate {
				ed = startDate
			}
			et := endTime
			if !hasEndTime {
				et = normalize.DefaultTime
			}
			end, ok = normalize.ParseDateTime(ed, et, loc)
			if !ok {
				return model.Event{}, &SkipError{Reason: ReasonInvalidEnd}
			}
		}
	} else {
		begin, ok = normalize.ParseDate(startDate, loc)
		if !ok {
			return model.Event{}, &SkipError{Reason: ReasonInvalidStart}
		}

		// Exclusive end-date convention: an all-day range ends the day after
		// its last calendar date.
		if hasEndDate {
			d, dok := normalize.ParseDate(endDate, loc)
			if !dok {
				return model.Event{}, &SkipError{Reason: ReasonInvalidEnd}
			}
			end = d.AddDate(0, 0, 1)
		} else {
			end = begin.AddDate(0, 0, 1)
		}
	}

	// Malformed ranges are healed, not rejected: the title/location data is
	// still usable. The adjustment must remain observable in the logs.
	if !end.After(begin) {
		if isTimed {
			end = begin.Add(time.Hour)
		} else {
			end = begin.AddDate(0, 0, 1)
		}
		appLog.Warn("event end not after begin; adjusted",
			"row", index,
			"title", title,
			"begin", begin.Format(time.RFC3339),
			"end", end.Format(time.RFC3339),
		)
	}

	ev = model.Event{
		Name:   title,
		Start:  begin,
		End:    end,
		AllDay: !isTimed,
	}

	if v, vok := normalize.Clean(row.Get(ColLocation)); vok {
		ev.Location = v
	}
	if v, vok := normalize.Clean(row.Get(ColDescription)); vok {
		ev.Description = v
	}
	if v, vok := normalize.Clean(row.Get(ColURL)); vok {
		ev.URL = v
	}

	// An explicit UID wins, even if it looks malformed: it is the sheet
	// author's chosen identity for the event.
	if v, vok := normalize.Clean(row.Get(ColUID)); vok {
		ev.UID = v
	} else {
		ev.UID = MakeUID(title, begin, end, ev.Location)
	}

	if v, vok := normalize.Clean(row.Get(ColTransparent)); vok {
		if _, transparent := transparentValues[strings.ToLower(v)]; transparent {
			ev.Transparent = true
		}
	}

	// Optional recurrence rule. An invalid rule only costs the recurrence,
	// never the event.
	if v, vok := normalize.Clean(row.Get(ColRRule)); vok {
		if _, rerr := rrule.StrToRRule(v); rerr != nil {
			appLog.Warn("invalid recurrence rule dropped", "row", index, "title", title, "rrule", v)
		} else {
			ev.RRule = v
		}
	}

	return ev, nil
}

// Package emit serializes grouped events into iCalendar files and writes the
// run manifest.
package emit

import (
	"errors"
	"os"
	"path/filepath"

	ics "github.com/arran4/golang-ical"

	"sheetcal/internal/model"
)

const productID = "-//sheetcal//sheetcal//EN"

// Writer emits one .ics file per calendar group into OutputDir. It satisfies
// the build.Emitter contract.
type Writer struct {
	// OutputDir receives <slug>.ics files. Created on first emit.
	OutputDir string
	// Timezone is advertised via X-WR-TIMEZONE on every calendar.
	Timezone string
}

// NewWriter constructs a Writer for the given output directory and zone name.
func NewWriter(outputDir, timezone string) *Writer {
	return &Writer{OutputDir: outputDir, Timezone: timezone}
}

// Emit serializes the group's events under slug and returns the file name
// (relative to OutputDir) as the output reference.
func (w *Writer) Emit(name, slug string, events []model.Event) (string, error) {
	if slug == "" {
		return "", errors.New("emit: empty slug")
	}
	if len(events) == 0 {
		return "", errors.New("emit: no events")
	}

	cal := BuildCalendar(name, w.Timezone, events)

	if err := os.MkdirAll(w.OutputDir, 0o755); err != nil {
		return "", err
	}

	file := slug + ".ics"
	if err := writeFileAtomic(filepath.Join(w.OutputDir, file), []byte(cal.Serialize())); err != nil {
		return "", err
	}

	return file, nil
}

// BuildCalendar assembles the VCALENDAR for one group. Every field set on an
// Event appears in the serialized form; empty optional fields are omitted
// entirely rather than written as empty properties.
func BuildCalendar(name, timezone string, events []model.Event) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetXWRCalName(name)
	if timezone != "" {
		cal.SetXWRTimezone(timezone)
	}

	for _, ev := range events {
		e := cal.AddEvent(ev.UID)

		// DTSTAMP derived from the event start keeps the serialized output
		// byte-identical across runs over an unchanged sheet.
		e.SetDtStampTime(ev.Start)
		e.SetSummary(ev.Name)

		if ev.AllDay {
			e.SetAllDayStartAt(ev.Start)
			e.SetAllDayEndAt(ev.End)
		} else {
			e.SetStartAt(ev.Start)
			e.SetEndAt(ev.End)
		}

		if ev.Location != "" {
			e.SetLocation(ev.Location)
		}
		if ev.Description != "" {
			e.SetDescription(ev.Description)
		}
		if ev.URL != "" {
			e.SetURL(ev.URL)
		}
		if ev.Transparent {
			e.SetTimeTransparency(ics.TransparencyTransparent)
		}
		if ev.RRule != "" {
			e.AddRrule(ev.RRule)
		}
	}

	return cal
}

// writeFileAtomic writes data via a temp file + rename so subscribers never
// observe a half-written calendar.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".sheetcal-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

package build

import (
	"errors"
	"strings"
	"testing"
	"time"

	"sheetcal/internal/sheet"
)

func sydney(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestTranslateTimedEvent(t *testing.T) {
	loc := sydney(t)

	// Scenario A from the source sheet's documented shape.
	row := sheet.Row{
		"Calendar":   "Open Day",
		"Title":      "Campus Tour",
		"Start Date": "29/09/2025",
		"Start Time": "09:00:00",
		"End Time":   "10:00:00",
	}

	ev, err := Translate(row, loc, 0)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	if ev.Name != "Campus Tour" {
		t.Errorf("name = %q", ev.Name)
	}
	if ev.AllDay {
		t.Error("expected timed event")
	}
	wantStart := time.Date(2025, 9, 29, 9, 0, 0, 0, loc)
	wantEnd := time.Date(2025, 9, 29, 10, 0, 0, 0, loc)
	if !ev.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", ev.Start, wantStart)
	}
	if !ev.End.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", ev.End, wantEnd)
	}
}

func TestTranslateAllDayDefaults(t *testing.T) {
	loc := sydney(t)

	// Scenario B: start date only, no times: all-day with exclusive end.
	row := sheet.Row{
		"Title":      "Orientation Week",
		"Start Date": "29/09/2025",
	}

	ev, err := Translate(row, loc, 0)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	if !ev.AllDay {
		t.Fatal("expected all-day event")
	}
	if got := ev.End.Sub(ev.Start); got != 24*time.Hour {
		t.Errorf("all-day duration = %v, want 24h", got)
	}
}

func TestTranslateAllDayEndDate(t *testing.T) {
	loc := sydney(t)

	row := sheet.Row{
		"Title":      "Exam Block",
		"Start Date": "29/09/2025",
		"End Date":   "01/10/2025",
	}

	ev, err := Translate(row, loc, 0)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	// End Date is inclusive in the sheet, so the emitted end is the next day.
	wantEnd := time.Date(2025, 10, 2, 0, 0, 0, 0, loc)
	if !ev.End.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", ev.End, wantEnd)
	}
}

func TestTranslateEndBeforeBeginHealed(t *testing.T) {
	loc := sydney(t)

	// Scenario C: end time earlier than start time on the same date.
	row := sheet.Row{
		"Title":      "Evening Session",
		"Start Date": "29/09/2025",
		"Start Time": "18:00:00",
		"End Time":   "17:00:00",
	}

	ev, err := Translate(row, loc, 0)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	want := ev.Start.Add(time.Hour)
	if !ev.End.Equal(want) {
		t.Errorf("healed end = %v, want %v", ev.End, want)
	}
}

func TestTranslateEndInvariant(t *testing.T) {
	loc := sydney(t)

	rows := []sheet.Row{
		{"Title": "a", "Start Date": "29/09/2025", "Start Time": "09:00", "End Time": "09:00"},
		{"Title": "b", "Start Date": "29/09/2025", "Start Time": "09:00", "End Time": "03:00"},
		{"Title": "c", "Start Date": "29/09/2025", "End Date": "25/09/2025"},
		{"Title": "d", "Start Date": "29/09/2025"},
		{"Title": "e", "Start Date": "29/09/2025", "Start Time": "23:59:59"},
	}

	for i, row := range rows {
		ev, err := Translate(row, loc, i)
		if err != nil {
			t.Errorf("row %d: unexpected skip: %v", i, err)
			continue
		}
		if !ev.End.After(ev.Start) {
			t.Errorf("row %d: end %v not after start %v", i, ev.End, ev.Start)
		}
	}
}

func TestTranslateSkipReasons(t *testing.T) {
	loc := sydney(t)

	cases := []struct {
		name   string
		row    sheet.Row
		reason string
	}{
		// Scenario D.
		{"missing title", sheet.Row{"Start Date": "29/09/2025"}, ReasonMissingTitle},
		{"sentinel title", sheet.Row{"Title": "nan", "Start Date": "29/09/2025"}, ReasonMissingTitle},
		{"bad start date", sheet.Row{"Title": "x", "Start Date": "bogus", "Start Time": "09:00"}, ReasonInvalidStart},
		{"bad start date allday", sheet.Row{"Title": "x", "Start Date": "bogus"}, ReasonInvalidStart},
		{"bad end time", sheet.Row{"Title": "x", "Start Date": "29/09/2025", "Start Time": "09:00", "End Time": "late"}, ReasonInvalidEnd},
		{"bad end date allday", sheet.Row{"Title": "x", "Start Date": "29/09/2025", "End Date": "bogus"}, ReasonInvalidEnd},
	}

	for _, c := range cases {
		_, err := Translate(c.row, loc, 0)
		if err == nil {
			t.Errorf("%s: expected skip", c.name)
			continue
		}
		var skip *SkipError
		if !errors.As(err, &skip) {
			t.Errorf("%s: error is %T, want *SkipError", c.name, err)
			continue
		}
		if skip.Reason != c.reason {
			t.Errorf("%s: reason = %q, want %q", c.name, skip.Reason, c.reason)
		}
	}
}

func TestTranslateOptionalFields(t *testing.T) {
	loc := sydney(t)

	row := sheet.Row{
		"Title":       "Campus Tour",
		"Start Date":  "29/09/2025",
		"Start Time":  "09:00",
		"Location":    "  Main Gate ",
		"Description": "Meet at the fountain",
		"URL":         "https://example.edu/tour",
		"Transparent": "Yes",
	}

	ev, err := Translate(row, loc, 0)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	if ev.Location != "Main Gate" {
		t.Errorf("location = %q", ev.Location)
	}
	if ev.Description != "Meet at the fountain" {
		t.Errorf("description = %q", ev.Description)
	}
	if ev.URL != "https://example.edu/tour" {
		t.Errorf("url = %q", ev.URL)
	}
	if !ev.Transparent {
		t.Error("expected transparent event")
	}
}

func TestTranslateAbsentOptionalFields(t *testing.T) {
	loc := sydney(t)

	row := sheet.Row{
		"Title":       "Campus Tour",
		"Start Date":  "29/09/2025",
		"Location":    "nan",
		"Description": "  ",
		"Transparent": "no",
	}

	ev, err := Translate(row, loc, 0)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	if ev.Location != "" || ev.Description != "" || ev.URL != "" {
		t.Errorf("expected absent optionals, got %+v", ev)
	}
	if ev.Transparent {
		t.Error("expected opaque event")
	}
}

func TestTranslateExplicitUID(t *testing.T) {
	loc := sydney(t)

	row := sheet.Row{
		"Title":      "Campus Tour",
		"Start Date": "29/09/2025",
		"UID":        "my own id, spaces and all",
	}

	ev, err := Translate(row, loc, 0)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	// An explicit UID is used verbatim, even if it looks malformed.
	if ev.UID != "my own id, spaces and all" {
		t.Errorf("uid = %q", ev.UID)
	}
}

func TestTranslateGeneratedUIDDeterministic(t *testing.T) {
	loc := sydney(t)

	// Scenario F: identical content with no explicit UID shares a UID.
	row := sheet.Row{
		"Title":      "Campus Tour",
		"Start Date": "29/09/2025",
		"Start Time": "09:00",
		"Location":   "Main Gate",
	}

	a, err := Translate(row, loc, 0)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	b, err := Translate(row, loc, 7)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	if a.UID != b.UID {
		t.Errorf("UIDs differ: %q vs %q", a.UID, b.UID)
	}
	if !strings.HasSuffix(a.UID, "@sheetcal") {
		t.Errorf("uid %q lacks domain suffix", a.UID)
	}
}

func TestTranslateRRule(t *testing.T) {
	loc := sydney(t)

	row := sheet.Row{
		"Title":      "Weekly Tour",
		"Start Date": "29/09/2025",
		"Start Time": "09:00",
		"RRule":      "FREQ=WEEKLY;COUNT=10",
	}

	ev, err := Translate(row, loc, 0)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if ev.RRule != "FREQ=WEEKLY;COUNT=10" {
		t.Errorf("rrule = %q", ev.RRule)
	}

	// An invalid rule is dropped but the event survives.
	row["RRule"] = "FREQ=SOMETIMES"
	ev, err = Translate(row, loc, 0)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if ev.RRule != "" {
		t.Errorf("invalid rrule kept: %q", ev.RRule)
	}
}

func TestMakeUID(t *testing.T) {
	loc := sydney(t)
	begin := time.Date(2025, 9, 29, 9, 0, 0, 0, loc)
	end := begin.Add(time.Hour)

	a := MakeUID("Campus Tour", begin, end, "Main Gate")
	b := MakeUID("Campus Tour", begin, end, "Main Gate")
	if a != b {
		t.Errorf("identical input produced different UIDs: %q vs %q", a, b)
	}

	variants := []string{
		MakeUID("Campus Walk", begin, end, "Main Gate"),
		MakeUID("Campus Tour", begin.Add(time.Minute), end, "Main Gate"),
		MakeUID("Campus Tour", begin, end.Add(time.Minute), "Main Gate"),
		MakeUID("Campus Tour", begin, end, ""),
	}
	for i, v := range variants {
		if v == a {
			t.Errorf("variant %d collided with base UID", i)
		}
	}

	if !strings.HasSuffix(a, "@sheetcal") {
		t.Errorf("uid %q lacks domain suffix", a)
	}
}

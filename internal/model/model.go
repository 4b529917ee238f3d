package model

import "time"

// Event is the normalized output unit of the build pipeline. Optional string
// fields use "" for absent; the emitter omits empty properties entirely.
type Event struct {
	// UID is either the row's own identifier or a deterministic content hash.
	UID string

	Name string

	// Start / End carry the configured fixed timezone for timed events. For
	// all-day events they hold midnight of the calendar date and only the
	// date portion is meaningful; End follows the exclusive-end convention.
	Start time.Time
	End   time.Time

	AllDay bool

	Location    string
	Description string
	URL         string

	// Transparent marks the event as non-blocking for free/busy purposes.
	Transparent bool

	// RRule is an optional validated RFC 5545 recurrence rule taken from the
	// source row, attached verbatim to the emitted VEVENT.
	RRule string
}

// ManifestEntry describes one generated calendar. The manifest is the
// authoritative listing of what a run produced.
type ManifestEntry struct {
	// Name is the group's display name (the raw grouping-key value).
	Name string `json:"name"`
	// Slug is the URL/filesystem-safe identifier derived from Name.
	Slug string `json:"slug"`
	// File is the output reference returned by the emitter.
	File string `json:"file"`
	// Events is the number of events in the generated calendar.
	Events int `json:"events"`
}

// GroupStats accumulates per-group translation outcomes.
type GroupStats struct {
	Events  int
	Skipped int
}

// Stats aggregates counts for a whole build run.
type Stats struct {
	RowsSeen     int
	RowsFiltered int
	Groups       map[string]GroupStats
}

package build

import (
	"fmt"
	"time"

	appLog "sheetcal/internal/log"
	"sheetcal/internal/model"
	"sheetcal/internal/normalize"
	"sheetcal/internal/sheet"
)

// Emitter serializes one group's events under the given slug and returns an
// output reference (typically a file name relative to the output directory).
type Emitter interface {
	Emit(name, slug string, events []model.Event) (string, error)
}

// Options parameterizes a pipeline run. Defaults live in config, not here:
// the pipeline stays testable without environment coupling.
type Options struct {
	// GroupColumn names the column whose value partitions rows into calendars.
	GroupColumn string
	// Location is the fixed zone applied to every timed event.
	Location *time.Location
}

// Result is the structured output of a run: the manifest (one entry per
// emitted calendar) plus aggregate counts.
type Result struct {
	Entries []model.ManifestEntry
	Stats   model.Stats
}

// indexedRow pairs a row with its position in the source table, kept for
// diagnostics and to preserve row order within each group.
type indexedRow struct {
	index int
	row   sheet.Row
}

// Run partitions the table by the grouping column, translates every row, and
// emits one calendar per group that produced at least one event.
//
// Row failures are counted and logged; group failures (empty slug, zero
// events) drop the group with a warning; only emitter/storage failures abort
// the run.
func Run(table *sheet.Table, opts Options, em Emitter) (Result, error) {
	result := Result{
		Entries: []model.ManifestEntry{},
		Stats: model.Stats{
			Groups: map[string]model.GroupStats{},
		},
	}
	if table == nil {
		return result, nil
	}
	if opts.GroupColumn == "" {
		return result, fmt.Errorf("pipeline: group column is empty")
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	result.Stats.RowsSeen = len(table.Rows)

	// Pre-grouping filter: a row without a title, a grouping key, or a start
	// date can never become an event, so it is excluded up front.
	groupOrder := make([]string, 0)
	groups := make(map[string][]indexedRow)

	for i, row := range table.Rows {
		_, hasTitle := normalize.Clean(row.Get(ColTitle))
		key, hasKey := normalize.Clean(row.Get(opts.GroupColumn))
		_, hasStart := normalize.Clean(row.Get(ColStartDate))

		if !hasTitle || !hasKey || !hasStart {
			result.Stats.RowsFiltered++
			appLog.Warn("row filtered before grouping",
				"row", i,
				"has_title", hasTitle,
				"has_group", hasKey,
				"has_start_date", hasStart,
			)
			continue
		}

		if _, seen := groups[key]; !seen {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], indexedRow{index: i, row: row})
	}

	appLog.Info("rows partitioned",
		"rows_seen", result.Stats.RowsSeen,
		"rows_filtered", result.Stats.RowsFiltered,
		"group_count", len(groupOrder),
	)

	// Groups are processed in first-seen order so that the manifest is
	// stable across runs over the same table.
	for _, name := range groupOrder {
		slug := normalize.Slugify(name)
		if slug == "" {
			appLog.Warn("group name yields empty slug; group skipped", "group", name, "rows", len(groups[name]))
			continue
		}

		var stats model.GroupStats
		events := make([]model.Event, 0, len(groups[name]))
		for _, ir := range groups[name] {
			ev, err := Translate(ir.row, loc, ir.index)
			if err != nil {
				stats.Skipped++
				appLog.Warn("row skipped", "group", name, "row", ir.index, "reason", err.Error())
				continue
			}
			events = append(events, ev)
		}
		stats.Events = len(events)
		result.Stats.Groups[name] = stats

		if len(events) == 0 {
			appLog.Warn("group produced no events; not emitted", "group", name, "rows_skipped", stats.Skipped)
			continue
		}

		ref, err := em.Emit(name, slug, events)
		if err != nil {
			// Storage failure is the one thing allowed to abort the batch.
			return result, fmt.Errorf("pipeline: emit %q: %w", slug, err)
		}

		result.Entries = append(result.Entries, model.ManifestEntry{
			Name:   name,
			Slug:   slug,
			File:   ref,
			Events: len(events),
		})

		appLog.Info("calendar emitted", "group", name, "slug", slug, "events", len(events), "skipped", stats.Skipped)
	}

	return result, nil
}

package emit

import (
	"encoding/json"
	"os"
	"path/filepath"

	"sheetcal/internal/model"
)

// ManifestFile is the listing written next to the generated calendars; it is
// what downstream consumers read to discover available feeds.
const ManifestFile = "manifest.json"

// WriteManifest persists the manifest entries as JSON in the output
// directory. An empty run still writes an empty list so consumers can tell
// "nothing generated" apart from "never ran".
func WriteManifest(outputDir string, entries []model.ManifestEntry) error {
	if entries == nil {
		entries = []model.ManifestEntry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	return writeFileAtomic(filepath.Join(outputDir, ManifestFile), data)
}

package build

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// uidDomain is the fixed suffix appended to generated identifiers so they
// look like globally scoped iCalendar UIDs.
const uidDomain = "@sheetcal"

// uidDelimiter separates the hashed fields. A unit separator is effectively
// impossible to type into a spreadsheet cell.
const uidDelimiter = "\x1f"

// MakeUID derives a stable identifier for an event from its semantic
// content. Identical (title, begin, end, location) always yields the
// identical UID, within and across runs: regenerating calendars from an
// unchanged sheet must not change any event's identity, or subscribers
// would see every event as new.
func MakeUID(title string, begin, end time.Time, location string) string {
	payload := strings.Join([]string{
		title,
		begin.Format(time.RFC3339),
		end.Format(time.RFC3339),
		location,
	}, uidDelimiter)

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:]) + uidDomain
}

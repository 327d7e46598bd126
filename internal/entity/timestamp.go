package entity

import (
	"sync"
	"time"
)

// TimestampLayout is the civil timestamp format used throughout the
// ledger and the feed metadata: DD/MM/YY HH:MM:SS.
const TimestampLayout = "02/01/06 15:04:05"

// timestampZone is the fixed civil time zone all timestamps are rendered
// in, regardless of where the process runs.
const timestampZone = "Europe/Berlin"

// Loaded lazily so an embedded tzdata registered anywhere in the binary
// is already in effect on first use.
var location = sync.OnceValue(func() *time.Location {
	return loadLocation(timestampZone)
})

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// No tzdata available; UTC keeps timestamps stable at least.
		return time.UTC
	}
	return loc
}

// Timestamp renders t in the fixed civil zone and ledger layout.
func Timestamp(t time.Time) string {
	return t.In(location()).Format(TimestampLayout)
}

package forecast

import (
	"time"
)

const (
	// MaxWindowHours bounds every window.
	MaxWindowHours = 24

	// timestampLayout is the provider's fixed-width, zero-padded hourly format.
	timestampLayout = "2006-01-02T15:04"
	// hourPrefixLen cuts a timestamp down to date+hour (YYYY-MM-DDTHH).
	hourPrefixLen = 13
)

// CurrentHour renders now in the series' UTC offset using the provider's
// layout, truncated to the hour.
func CurrentHour(now time.Time, utcOffsetSeconds int) string {
	local := now.In(time.FixedZone("", utcOffsetSeconds))
	return local.Format(timestampLayout)[:hourPrefixLen]
}

/*
StartIndex returns the first index whose timestamp sorts at or after
currentHour. When every timestamp is earlier, it clamps to the last index; an
empty series clamps to 0.

The comparison is plain string ordering. That is only sound while the provider
keeps a fixed-width, zero-padded format, which it does today. A format change
breaks alignment rather than being silently repaired.
*/
func StartIndex(times []string, currentHour string) int {
	start := -1

	for i, ts := range times {
		if ts >= currentHour {
			start = i
			break
		}
	}

	if start == -1 {
		start = len(times) - 1
	}

	if start < 0 {
		start = 0
	}

	return start
}

// Align selects up to hours records starting at the current hour. It never
// pads, wraps, interpolates or reorders.
func Align(series Series, now time.Time, hours int) []Record {
	if hours <= 0 || hours > MaxWindowHours {
		hours = MaxWindowHours
	}

	if len(series.Times) == 0 {
		return []Record{}
	}

	start := StartIndex(series.Times, CurrentHour(now, series.UTCOffsetSeconds))
	end := min(start+hours, len(series.Times))

	records := make([]Record, 0, end-start)

	for i := start; i < end; i++ {
		records = append(records, series.record(i))
	}

	return records
}

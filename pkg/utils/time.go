package utils

import "time"

// NowRFC3339 returns the current UTC time in RFC3339 format
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// SortableTimeLayout is a fixed-width UTC timestamp layout. Unlike
// RFC3339Nano it never drops trailing fractional zeros, so lexicographic
// order of formatted values matches chronological order down to the
// nanosecond. Stores use it for timestamp sort and range keys.
const SortableTimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatSortableTime renders t in SortableTimeLayout
func FormatSortableTime(t time.Time) string {
	return t.UTC().Format(SortableTimeLayout)
}

// ParseSortableTime parses a SortableTimeLayout timestamp
func ParseSortableTime(s string) (time.Time, error) {
	return time.Parse(SortableTimeLayout, s)
}

package utils

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSortableTime_FixedWidth(t *testing.T) {
	times := []time.Time{
		time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 12, 0, 0, 500000000, time.UTC),
		time.Date(2026, 3, 1, 12, 0, 0, 1, time.UTC),
	}
	for _, ts := range times {
		assert.Len(t, FormatSortableTime(ts), len(SortableTimeLayout))
	}
}

func TestFormatSortableTime_LexicographicOrderIsChronological(t *testing.T) {
	// RFC3339Nano drops trailing fractional zeros, which makes 12:00:00.5Z
	// sort before 12:00:00Z as a string. The fixed-width layout must not.
	times := []time.Time{
		time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 12, 0, 0, 500000000, time.UTC),
		time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC),
		time.Date(2026, 3, 1, 12, 0, 1, 250000000, time.UTC),
	}

	keys := make([]string, len(times))
	for i, ts := range times {
		keys[i] = FormatSortableTime(ts)
	}

	assert.True(t, sort.StringsAreSorted(keys), "keys out of order: %v", keys)
}

func TestParseSortableTime_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 500000000, time.UTC)

	parsed, err := ParseSortableTime(FormatSortableTime(ts))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}

func TestFormatSortableTime_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("plus2", 2*3600)
	local := time.Date(2026, 3, 1, 14, 0, 0, 0, loc)
	utc := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, FormatSortableTime(utc), FormatSortableTime(local))
}

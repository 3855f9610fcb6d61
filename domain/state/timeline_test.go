package state

import (
	"testing"
	"time"

	"vibewire/domain/config"
	"vibewire/domain/vibe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_Aggregate_EmptyHistory(t *testing.T) {
	aggregator := NewAggregator(nil)

	buckets := aggregator.Aggregate(nil, time.Now())

	assert.Empty(t, buckets)
}

func TestAggregator_Aggregate_SingleEntry(t *testing.T) {
	aggregator := NewAggregator(nil)
	now := time.Date(2026, 3, 14, 15, 40, 0, 0, time.UTC)

	history := []HistoryEntry{
		{Timestamp: now.Add(-30 * time.Minute), Vibe: uniformAnalysis(80)},
	}

	buckets := aggregator.Aggregate(history, now)

	require.Len(t, buckets, 1)
	assert.Equal(t, time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC), buckets[0].Time)
	for _, d := range vibe.Dimensions {
		assert.Equal(t, 80, buckets[0].AvgScores[d])
	}
}

func TestAggregator_Aggregate_AveragesWithinBucket(t *testing.T) {
	aggregator := NewAggregator(nil)
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	history := []HistoryEntry{
		{Timestamp: now.Add(-50 * time.Minute), Vibe: uniformAnalysis(40)},
		{Timestamp: now.Add(-40 * time.Minute), Vibe: uniformAnalysis(60)},
		{Timestamp: now.Add(-10 * time.Minute), Vibe: uniformAnalysis(90)},
	}

	buckets := aggregator.Aggregate(history, now)

	require.Len(t, buckets, 1)
	// All three entries land in the 14:00 window; (40+60+90)/3 rounds to 63
	for _, d := range vibe.Dimensions {
		assert.Equal(t, 63, buckets[0].AvgScores[d])
	}
}

func TestAggregator_Aggregate_OrderedAscending(t *testing.T) {
	aggregator := NewAggregator(nil)
	now := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

	history := []HistoryEntry{
		{Timestamp: now.Add(-10 * time.Minute), Vibe: uniformAnalysis(70)},
		{Timestamp: now.Add(-3 * time.Hour), Vibe: uniformAnalysis(30)},
		{Timestamp: now.Add(-90 * time.Minute), Vibe: uniformAnalysis(50)},
	}

	buckets := aggregator.Aggregate(history, now)

	require.Len(t, buckets, 3)
	for i := 1; i < len(buckets); i++ {
		assert.True(t, buckets[i-1].Time.Before(buckets[i].Time))
	}
	assert.Equal(t, 30, buckets[0].AvgScores[vibe.DimensionStress])
	assert.Equal(t, 70, buckets[2].AvgScores[vibe.DimensionStress])
}

func TestAggregator_Aggregate_DropsEntriesOutsideSpan(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	aggregator := NewAggregator(cfg)
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	history := []HistoryEntry{
		{Timestamp: now.Add(-cfg.TimelineSpan - time.Hour), Vibe: uniformAnalysis(10)},
		{Timestamp: now.Add(time.Hour), Vibe: uniformAnalysis(10)},
		{Timestamp: now.Add(-time.Hour), Vibe: uniformAnalysis(60)},
	}

	buckets := aggregator.Aggregate(history, now)

	require.Len(t, buckets, 1)
	assert.Equal(t, 60, buckets[0].AvgScores[vibe.DimensionCalmness])
}

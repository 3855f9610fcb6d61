package state

import (
	"math"
	"sort"
	"time"

	"vibewire/domain/config"
	"vibewire/domain/vibe"
)

// TimelineBucket is one fixed-width window of averaged scores
type TimelineBucket struct {
	Time      time.Time              `json:"time"`
	AvgScores map[vibe.Dimension]int `json:"avgScores"`
}

// Aggregator buckets history entries into fixed hourly windows over a
// trailing span for display. It holds no state between calls: the same
// (history, now) input always produces the same timeline.
type Aggregator struct {
	cfg *config.DomainConfig
}

// NewAggregator creates a timeline aggregator
func NewAggregator(cfg *config.DomainConfig) *Aggregator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Aggregator{cfg: cfg}
}

// Aggregate averages each dimension per window across the trailing span,
// ordered by time. Windows with no entries are omitted rather than emitted
// as zero-filled gaps.
func (ag *Aggregator) Aggregate(history []HistoryEntry, now time.Time) []TimelineBucket {
	cutoff := now.Add(-ag.cfg.TimelineSpan)

	type bucketAccum struct {
		sums  map[vibe.Dimension]int
		count int
	}
	buckets := make(map[time.Time]*bucketAccum)

	for _, entry := range history {
		if entry.Timestamp.Before(cutoff) || entry.Timestamp.After(now) {
			continue
		}
		key := entry.Timestamp.Truncate(ag.cfg.TimelineBucket)
		acc, ok := buckets[key]
		if !ok {
			acc = &bucketAccum{sums: make(map[vibe.Dimension]int, len(vibe.Dimensions))}
			buckets[key] = acc
		}
		for _, d := range vibe.Dimensions {
			acc.sums[d] += entry.Vibe.Score(d)
		}
		acc.count++
	}

	result := make([]TimelineBucket, 0, len(buckets))
	for key, acc := range buckets {
		avg := make(map[vibe.Dimension]int, len(vibe.Dimensions))
		for _, d := range vibe.Dimensions {
			avg[d] = int(math.Round(float64(acc.sums[d]) / float64(acc.count)))
		}
		result = append(result, TimelineBucket{Time: key, AvgScores: avg})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Time.Before(result[j].Time)
	})
	return result
}

package timeline

import (
	"time"

	"moodlens/backend/internal/emotion"
)

// Period is a named slice of the day
type Period string

const (
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
	Evening   Period = "evening"
)

// periods in chronological display order
var periods = []Period{Morning, Afternoon, Evening}

// PeriodOf buckets a local hour: morning [5,12), afternoon [12,17),
// evening [17,24) plus the small hours [0,5).
func PeriodOf(hour int) Period {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	default:
		return Evening
	}
}

// TimeSegment is one period's emotion summary
type TimeSegment struct {
	Period Period `json:"period"`
	emotion.Summary
}

// BuildTimeSegments buckets observations by their local hour in loc and
// summarizes each non-empty bucket. Empty buckets are omitted, so a day
// with only morning messages yields a single segment. loc must be the
// caller's injected aggregation zone, never a package default.
func BuildTimeSegments(obs []emotion.Observation, loc *time.Location) []TimeSegment {
	buckets := make(map[Period][]emotion.Observation, len(periods))
	for _, o := range obs {
		p := PeriodOf(o.Timestamp.In(loc).Hour())
		buckets[p] = append(buckets[p], o)
	}

	segments := make([]TimeSegment, 0, len(periods))
	for _, p := range periods {
		bucket := buckets[p]
		if len(bucket) == 0 {
			continue
		}
		segments = append(segments, TimeSegment{
			Period:  p,
			Summary: emotion.Summarize(bucket),
		})
	}
	return segments
}

// SegmentFor returns the segment covering period p, or nil when the day
// had no observations in that period.
func SegmentFor(segments []TimeSegment, p Period) *TimeSegment {
	for i := range segments {
		if segments[i].Period == p {
			return &segments[i]
		}
	}
	return nil
}

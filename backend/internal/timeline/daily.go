package timeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"moodlens/backend/internal/emotion"
)

// contextLimit caps the context line at 80 runes before the ellipsis
const contextLimit = 80

// DailySummary is one local calendar day's rollup: the uniform summary
// shape plus the day's time segments and a short context line.
type DailySummary struct {
	Date string `json:"date"`
	emotion.Summary
	TimeSegments   []TimeSegment `json:"time_segments"`
	ContextSummary string        `json:"context_summary"`
}

// BuildDailySummary rolls one date's observations up. The observations
// are assumed to already belong to dateKey; grouping across dates is
// BuildRangeSummaries' job. A day with no observations reports the
// neutral baseline with no segments.
func BuildDailySummary(obs []emotion.Observation, dateKey string, loc *time.Location) DailySummary {
	summary := emotion.Summarize(obs)
	return DailySummary{
		Date:           dateKey,
		Summary:        summary,
		TimeSegments:   BuildTimeSegments(obs, loc),
		ContextSummary: contextLine(obs, summary.DominantEmotion),
	}
}

// BuildRangeSummaries groups observations by local calendar date within
// [start, end] and rolls each date up. Only dates with at least one
// observation appear; results are sorted ascending by date.
func BuildRangeSummaries(obs []emotion.Observation, start, end time.Time, loc *time.Location) []DailySummary {
	startKey := LocalDateKey(start, loc)
	endKey := LocalDateKey(end, loc)

	byDate := make(map[string][]emotion.Observation)
	for _, o := range obs {
		key := LocalDateKey(o.Timestamp, loc)
		if key < startKey || key > endKey {
			continue
		}
		byDate[key] = append(byDate[key], o)
	}

	keys := make([]string, 0, len(byDate))
	for key := range byDate {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	summaries := make([]DailySummary, 0, len(keys))
	for _, key := range keys {
		summaries = append(summaries, BuildDailySummary(byDate[key], key, loc))
	}
	return summaries
}

// contextLine derives the cosmetic context string: the first reading's
// text trimmed to contextLimit runes, or a generated line naming the
// dominant emotion when the day has no text. Never feeds back into
// scoring.
func contextLine(obs []emotion.Observation, dominant emotion.Canonical) string {
	if len(obs) > 0 {
		if text := strings.TrimSpace(obs[0].Content); text != "" {
			return truncate(text, contextLimit)
		}
	}
	return fmt.Sprintf("Experienced %s emotions", dominant)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

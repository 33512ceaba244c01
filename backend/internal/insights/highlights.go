package insights

import (
	"fmt"
	"sort"

	"moodlens/backend/internal/emotion"
	"moodlens/backend/internal/timeline"
)

// HighlightKind tags what a weekly highlight points at
type HighlightKind string

const (
	HighlightPeak    HighlightKind = "peak"
	HighlightLow     HighlightKind = "low"
	HighlightInsight HighlightKind = "insight"
)

// lowGapThreshold is the margin below the peak a low day must strictly
// clear before it is surfaced
const lowGapThreshold = 20

// varietyThreshold is the minimum number of distinct daily dominant
// emotions for an emotional-variety insight
const varietyThreshold = 4

// WeeklyHighlight points a reader at one day of the week
type WeeklyHighlight struct {
	Kind        HighlightKind `json:"kind"`
	Date        string        `json:"date"`
	Description string        `json:"description"`
}

// DetectHighlights surfaces the week's peak day, its low day when the
// drop is deep enough, and an emotional-variety insight when the week
// covered at least four distinct dominant emotions. Output order is
// fixed: peak, then low, then insight. Score ties resolve to the
// earliest date.
func DetectHighlights(dailies []timeline.DailySummary) []WeeklyHighlight {
	if len(dailies) == 0 {
		return nil
	}

	sorted := make([]timeline.DailySummary, len(dailies))
	copy(sorted, dailies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	peak := sorted[0]
	low := sorted[0]
	distinct := make(map[emotion.Canonical]bool, len(emotion.Canon))
	for _, d := range sorted {
		if d.MoodScore > peak.MoodScore {
			peak = d
		}
		if d.MoodScore < low.MoodScore {
			low = d
		}
		distinct[d.DominantEmotion] = true
	}

	highlights := []WeeklyHighlight{{
		Kind:        HighlightPeak,
		Date:        peak.Date,
		Description: fmt.Sprintf("Best day of the week, mostly %s (mood %d)", peak.DominantEmotion, peak.MoodScore),
	}}

	if low.Date != peak.Date && peak.MoodScore-low.MoodScore > lowGapThreshold {
		highlights = append(highlights, WeeklyHighlight{
			Kind:        HighlightLow,
			Date:        low.Date,
			Description: fmt.Sprintf("Toughest day of the week, mostly %s (mood %d)", low.DominantEmotion, low.MoodScore),
		})
	}

	if len(distinct) >= varietyThreshold {
		mid := sorted[len(sorted)/2]
		highlights = append(highlights, WeeklyHighlight{
			Kind:        HighlightInsight,
			Date:        mid.Date,
			Description: fmt.Sprintf("An emotionally varied week spanning %d different dominant emotions", len(distinct)),
		})
	}

	return highlights
}

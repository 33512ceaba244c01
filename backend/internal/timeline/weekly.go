package timeline

import (
	"math"

	"moodlens/backend/internal/emotion"
)

// daysPerWeek fixes the arc length for week-shaped requests
const daysPerWeek = 7

// ArcEntry is one day's point on the weekly mood arc. Days without data
// keep their place in the arc with HasData false and a null score.
type ArcEntry struct {
	Date      string            `json:"date"`
	Emotion   emotion.Canonical `json:"emotion,omitempty"`
	MoodScore *int              `json:"mood_score"`
	HasData   bool              `json:"has_data"`
}

// WeeklySummary rolls daily summaries up into the uniform summary shape
// plus a gap-filled day-by-day arc.
type WeeklySummary struct {
	WeekStart string `json:"week_start"`
	emotion.Summary
	DailyArc []ArcEntry `json:"daily_arc"`
}

// BuildWeeklySummary combines one week of daily summaries. Aggregation is
// deliberately two-level: within a day, readings are confidence weighted;
// across the week every day counts once, however busy it was. The weekly
// dominant emotion is the mode of the daily dominants with ties resolved
// by canonical order, and the weekly score is the rounded mean of the
// daily scores. The arc always spans the seven days from weekStart, with
// entries synthesized for days that have no summary. Dailies are assumed
// to fall within that window.
func BuildWeeklySummary(dailies []DailySummary, weekStart string) WeeklySummary {
	byDate := make(map[string]DailySummary, len(dailies))
	votes := make(map[emotion.Canonical]int, len(emotion.Canon))
	counts := make(map[emotion.Canonical]int, len(emotion.Canon))
	scoreSum := 0

	for _, d := range dailies {
		byDate[d.Date] = d
		votes[d.DominantEmotion]++
		scoreSum += d.MoodScore
		for c, n := range d.EmotionCounts {
			counts[c] += n
		}
	}

	summary := emotion.NeutralSummary()
	if len(dailies) > 0 {
		summary = emotion.Summary{
			DominantEmotion: modeOf(votes),
			MoodScore:       int(math.Round(float64(scoreSum) / float64(len(dailies)))),
			EmotionCounts:   counts,
			SampleSize:      len(dailies),
		}
	}

	arc := make([]ArcEntry, 0, daysPerWeek)
	for i := 0; i < daysPerWeek; i++ {
		key := AddDays(weekStart, i)
		daily, ok := byDate[key]
		if !ok {
			arc = append(arc, ArcEntry{Date: key})
			continue
		}
		score := daily.MoodScore
		arc = append(arc, ArcEntry{
			Date:      key,
			Emotion:   daily.DominantEmotion,
			MoodScore: &score,
			HasData:   true,
		})
	}

	return WeeklySummary{
		WeekStart: weekStart,
		Summary:   summary,
		DailyArc:  arc,
	}
}

// modeOf picks the most voted emotion, breaking exact ties by canonical
// declaration order.
func modeOf(votes map[emotion.Canonical]int) emotion.Canonical {
	best := emotion.Neutral
	bestVotes := -1
	for _, c := range emotion.Canon {
		v, seen := votes[c]
		if !seen {
			continue
		}
		if v > bestVotes {
			best = c
			bestVotes = v
		}
	}
	return best
}

package insights

import "moodlens/backend/internal/timeline"

// DailyReport is the full day surface served to the dashboard and CLI:
// the day's rollup plus the morning-to-evening trend read off its
// segments.
type DailyReport struct {
	timeline.DailySummary
	Trend DailyTrend `json:"trend"`
}

// BuildDailyReport attaches the trend classification to a daily summary.
func BuildDailyReport(daily timeline.DailySummary) DailyReport {
	morning := timeline.SegmentFor(daily.TimeSegments, timeline.Morning)
	evening := timeline.SegmentFor(daily.TimeSegments, timeline.Evening)
	return DailyReport{
		DailySummary: daily,
		Trend:        DetectTrend(morning, evening),
	}
}

// WeeklyReport is the full week surface served to the dashboard and CLI:
// the weekly rollup plus the highlights derived from the same dailies.
type WeeklyReport struct {
	timeline.WeeklySummary
	KeyHighlights []WeeklyHighlight `json:"key_highlights"`
}

// BuildWeeklyReport rolls one week of daily summaries up and attaches
// its highlights.
func BuildWeeklyReport(dailies []timeline.DailySummary, weekStart string) WeeklyReport {
	return WeeklyReport{
		WeeklySummary: timeline.BuildWeeklySummary(dailies, weekStart),
		KeyHighlights: DetectHighlights(dailies),
	}
}

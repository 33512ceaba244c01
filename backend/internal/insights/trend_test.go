package insights

import (
	"testing"

	"moodlens/backend/internal/emotion"
	"moodlens/backend/internal/timeline"
)

func segment(period timeline.Period, dominant emotion.Canonical) *timeline.TimeSegment {
	return &timeline.TimeSegment{
		Period: period,
		Summary: emotion.Summary{
			DominantEmotion: dominant,
			MoodScore:       emotion.BaseScore(dominant),
			EmotionCounts:   map[emotion.Canonical]int{dominant: 1},
			SampleSize:      1,
		},
	}
}

func TestDetectTrend(t *testing.T) {
	tests := []struct {
		name    string
		morning *timeline.TimeSegment
		evening *timeline.TimeSegment
		want    DailyTrend
	}{
		{
			name:    "sad morning to joyful evening improves",
			morning: segment(timeline.Morning, emotion.Sadness),
			evening: segment(timeline.Evening, emotion.Joy),
			want:    TrendImproved,
		},
		{
			name:    "joyful morning to angry evening declines",
			morning: segment(timeline.Morning, emotion.Joy),
			evening: segment(timeline.Evening, emotion.Anger),
			want:    TrendDeclined,
		},
		{
			name:    "joy to surprise stays positive",
			morning: segment(timeline.Morning, emotion.Joy),
			evening: segment(timeline.Evening, emotion.Surprise),
			want:    TrendStablePositive,
		},
		{
			name:    "neutral to sadness stays negative",
			morning: segment(timeline.Morning, emotion.Neutral),
			evening: segment(timeline.Evening, emotion.Sadness),
			want:    TrendStableNegative,
		},
		{
			name:    "missing morning is insufficient",
			morning: nil,
			evening: segment(timeline.Evening, emotion.Joy),
			want:    TrendInsufficientData,
		},
		{
			name:    "missing evening is insufficient",
			morning: segment(timeline.Morning, emotion.Joy),
			evening: nil,
			want:    TrendInsufficientData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectTrend(tt.morning, tt.evening); got != tt.want {
				t.Errorf("DetectTrend = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildDailyReport(t *testing.T) {
	daily := timeline.DailySummary{
		Date: "2025-06-01",
		Summary: emotion.Summary{
			DominantEmotion: emotion.Joy,
			MoodScore:       80,
			SampleSize:      2,
		},
		TimeSegments: []timeline.TimeSegment{
			*segment(timeline.Morning, emotion.Sadness),
			*segment(timeline.Evening, emotion.Joy),
		},
	}

	report := BuildDailyReport(daily)

	if report.Trend != TrendImproved {
		t.Errorf("Trend = %q, want improved", report.Trend)
	}
	if report.Date != "2025-06-01" || report.DominantEmotion != emotion.Joy {
		t.Errorf("Report lost its summary: %+v", report.DailySummary)
	}
}

func TestBuildDailyReport_NoSegments(t *testing.T) {
	report := BuildDailyReport(timeline.DailySummary{
		Date:    "2025-06-01",
		Summary: emotion.NeutralSummary(),
	})

	if report.Trend != TrendInsufficientData {
		t.Errorf("Trend = %q, want insufficient-data", report.Trend)
	}
}

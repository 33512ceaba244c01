package insights

import (
	"moodlens/backend/internal/emotion"
	"moodlens/backend/internal/timeline"
)

// DailyTrend classifies how a day moved between morning and evening
type DailyTrend string

const (
	TrendImproved         DailyTrend = "improved"
	TrendDeclined         DailyTrend = "declined"
	TrendStablePositive   DailyTrend = "stable-positive"
	TrendStableNegative   DailyTrend = "stable-negative"
	TrendInsufficientData DailyTrend = "insufficient-data"
)

// DetectTrend compares a day's morning and evening segments. A missing
// segment on either side means there is not enough signal to call a
// direction. Positivity follows the fixed canonical set: joy and
// surprise count as positive, everything else does not.
func DetectTrend(morning, evening *timeline.TimeSegment) DailyTrend {
	if morning == nil || evening == nil {
		return TrendInsufficientData
	}

	morningPositive := emotion.IsPositive(morning.DominantEmotion)
	eveningPositive := emotion.IsPositive(evening.DominantEmotion)

	switch {
	case !morningPositive && eveningPositive:
		return TrendImproved
	case morningPositive && !eveningPositive:
		return TrendDeclined
	case morningPositive && eveningPositive:
		return TrendStablePositive
	default:
		return TrendStableNegative
	}
}

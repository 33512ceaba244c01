package emotion

import (
	"math"
	"time"
)

// DefaultConfidence is the weight assumed for a reading that carries no
// confidence of its own.
const DefaultConfidence = 0.5

// Observation is one scored emotion reading from any source: a text-model
// call, a voice-model call, or a journal self-report. Observations are
// immutable once built; aggregation always derives fresh summaries.
type Observation struct {
	Emotion    string    `json:"emotion"`
	Confidence *float64  `json:"confidence,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Content    string    `json:"content,omitempty"`
}

// Weight returns the observation's aggregation weight: the confidence
// clamped to [0,1], or DefaultConfidence when absent or NaN.
func (o Observation) Weight() float64 {
	if o.Confidence == nil {
		return DefaultConfidence
	}
	w := *o.Confidence
	if math.IsNaN(w) {
		return DefaultConfidence
	}
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// Conf wraps a confidence value for Observation literals.
func Conf(v float64) *float64 {
	return &v
}

// SourceLabels records the dominant labels of the two sides that fed a
// fused summary
type SourceLabels struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Summary is the uniform aggregation output at every granularity: a single
// message, a time segment, a day, or a week.
type Summary struct {
	DominantEmotion Canonical         `json:"dominant_emotion"`
	MoodScore       int               `json:"mood_score"`
	EmotionCounts   map[Canonical]int `json:"emotion_counts"`
	SampleSize      int               `json:"sample_size"`
	// Sources is set only on summaries produced by blending in Fuse
	Sources *SourceLabels `json:"sources,omitempty"`
}

// NeutralSummary is the zero-data baseline: Neutral at score 50.
func NeutralSummary() Summary {
	return Summary{
		DominantEmotion: Neutral,
		MoodScore:       NeutralScore,
		EmotionCounts:   map[Canonical]int{},
		SampleSize:      0,
	}
}

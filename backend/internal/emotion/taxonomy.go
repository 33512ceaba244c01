package emotion

import "strings"

// Canonical is one of the seven emotion labels every reading is reduced to
type Canonical string

const (
	Anger    Canonical = "anger"
	Disgust  Canonical = "disgust"
	Fear     Canonical = "fear"
	Joy      Canonical = "joy"
	Neutral  Canonical = "neutral"
	Sadness  Canonical = "sadness"
	Surprise Canonical = "surprise"
)

// Canon lists every canonical emotion in its fixed declaration order.
// Weighted votes break ties by walking this slice and taking the first
// maximum, so the order is part of the contract.
var Canon = []Canonical{Anger, Disgust, Fear, Joy, Neutral, Sadness, Surprise}

// aliases maps the labels upstream models and users actually produce onto
// the canonical vocabulary. Keys are lower-case; the voice classifier's
// native labels (happy, sad, angry, calm) are covered here too.
var aliases = map[string]Canonical{
	"happy":      Joy,
	"happiness":  Joy,
	"excited":    Joy,
	"joyful":     Joy,
	"sad":        Sadness,
	"depressed":  Sadness,
	"melancholy": Sadness,
	"angry":      Anger,
	"frustrated": Anger,
	"mad":        Anger,
	"anxious":    Fear,
	"worried":    Fear,
	"fearful":    Fear,
	"scared":     Fear,
	"surprised":  Surprise,
	"shocked":    Surprise,
	"disgusted":  Disgust,
	"calm":       Neutral,
	"relaxed":    Neutral,
	"peaceful":   Neutral,
}

// baseScores is the fixed emotion-to-mood table used everywhere a score is
// computed. Confidence never rescales a base score; it only weights
// aggregation across readings.
var baseScores = map[Canonical]int{
	Anger:    20,
	Disgust:  18,
	Fear:     25,
	Joy:      85,
	Neutral:  50,
	Sadness:  30,
	Surprise: 70,
}

// positive marks the emotions counted as positive by trend detection
var positive = map[Canonical]bool{
	Joy:      true,
	Surprise: true,
}

// Normalize reduces a raw label to its canonical emotion. Canonical names
// pass through, known aliases resolve through the table, and anything
// else, including the empty string, falls back to Neutral. Total: every
// input maps to a canonical value.
func Normalize(raw string) Canonical {
	label := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := baseScores[Canonical(label)]; ok {
		return Canonical(label)
	}
	if c, ok := aliases[label]; ok {
		return c
	}
	return Neutral
}

// BaseScore returns the fixed mood score for a canonical emotion. Unknown
// values score as Neutral so the function stays total.
func BaseScore(c Canonical) int {
	if s, ok := baseScores[c]; ok {
		return s
	}
	return baseScores[Neutral]
}

// IsPositive reports whether the emotion counts as positive for trend
// classification.
func IsPositive(c Canonical) bool {
	return positive[c]
}

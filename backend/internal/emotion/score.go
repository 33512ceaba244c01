package emotion

import (
	"math"
	"strings"
)

// NeutralScore is the baseline mood score reported when no usable
// observations exist.
const NeutralScore = 50

// usable drops observations that carry no emotion label at all. A missing
// confidence never excludes a reading; it defaults to 0.5 in Weight.
func usable(obs []Observation) []Observation {
	kept := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if strings.TrimSpace(o.Emotion) == "" {
			continue
		}
		kept = append(kept, o)
	}
	return kept
}

// ScoreOne returns the base mood score of a single reading's normalized
// emotion, clamped to [0,100].
func ScoreOne(o Observation) int {
	return clampScore(BaseScore(Normalize(o.Emotion)))
}

// ScoreMany reduces a set of readings to one mood score: the confidence
// weighted mean of each reading's base score, rounded and clamped to
// [0,100]. No usable readings, or an all-zero weight sum, yields the
// neutral baseline.
func ScoreMany(obs []Observation) int {
	kept := usable(obs)
	if len(kept) == 0 {
		return NeutralScore
	}

	var weighted, total float64
	for _, o := range kept {
		w := o.Weight()
		weighted += float64(BaseScore(Normalize(o.Emotion))) * w
		total += w
	}
	if total == 0 {
		return NeutralScore
	}

	return clampScore(int(math.Round(weighted / total)))
}

// Dominant picks the emotion with the largest accumulated weight across
// the readings. Exact ties resolve to the emotion appearing first in
// Canon, so the result is deterministic. No usable readings yields
// Neutral.
func Dominant(obs []Observation) Canonical {
	kept := usable(obs)
	if len(kept) == 0 {
		return Neutral
	}

	votes := make(map[Canonical]float64, len(Canon))
	for _, o := range kept {
		votes[Normalize(o.Emotion)] += o.Weight()
	}

	best := Neutral
	bestWeight := -1.0
	for _, c := range Canon {
		w, seen := votes[c]
		if !seen {
			continue
		}
		if w > bestWeight {
			best = c
			bestWeight = w
		}
	}
	return best
}

// Summarize reduces a set of readings to the uniform summary shape:
// dominant emotion, weighted mood score, per-emotion tallies, and the
// number of readings that contributed.
func Summarize(obs []Observation) Summary {
	kept := usable(obs)
	counts := make(map[Canonical]int, len(Canon))
	for _, o := range kept {
		counts[Normalize(o.Emotion)]++
	}

	return Summary{
		DominantEmotion: Dominant(kept),
		MoodScore:       ScoreMany(kept),
		EmotionCounts:   counts,
		SampleSize:      len(kept),
	}
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

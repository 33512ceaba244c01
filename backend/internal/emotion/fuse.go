package emotion

import "math"

// Fuse reconciles two independently derived summaries of the same window,
// for example a journal self-report against the message-derived daily
// summary, or a voice-model reading against the transcript-derived one.
//
// A side with no data passes the other side through unchanged. Otherwise
// the score is a fixed 50/50 blend of the two scores regardless of sample
// sizes, and side A keeps label priority: its dominant emotion wins
// whenever it has one. Blended outputs carry Sources provenance; passed
// through summaries are returned exactly as given.
func Fuse(a, b Summary) Summary {
	if a.SampleSize == 0 {
		return b
	}
	if b.SampleSize == 0 {
		return a
	}

	label := a.DominantEmotion
	if label == "" {
		label = b.DominantEmotion
	}

	counts := make(map[Canonical]int, len(a.EmotionCounts)+len(b.EmotionCounts))
	for c, n := range a.EmotionCounts {
		counts[c] += n
	}
	for c, n := range b.EmotionCounts {
		counts[c] += n
	}

	return Summary{
		DominantEmotion: label,
		MoodScore:       clampScore(int(math.Round(float64(a.MoodScore+b.MoodScore) / 2))),
		EmotionCounts:   counts,
		SampleSize:      a.SampleSize + b.SampleSize,
		Sources: &SourceLabels{
			A: string(a.DominantEmotion),
			B: string(b.DominantEmotion),
		},
	}
}

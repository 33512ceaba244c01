package ingest

import (
	"strings"
	"time"

	"moodlens/backend/internal/emotion"
	"moodlens/backend/internal/store"
)

// RawRecord is the loosely shaped reading that arrives from providers
// and legacy storage rows. The same concept travels under four field
// names in the wild; this is the one place they collapse to a single
// vocabulary.
type RawRecord struct {
	Emotion             string   `json:"emotion,omitempty"`
	PrimaryEmotion      string   `json:"primary_emotion,omitempty"`
	DominantEmotion     string   `json:"dominant_emotion,omitempty"`
	PrimaryEmotionCamel string   `json:"primaryEmotion,omitempty"`
	Confidence          *float64 `json:"confidence,omitempty"`
	Timestamp           string   `json:"timestamp,omitempty"`
	Content             string   `json:"content,omitempty"`
}

// Label picks the populated emotion field, preferring the canonical name
// over the legacy aliases.
func (r RawRecord) Label() string {
	for _, label := range []string{r.Emotion, r.PrimaryEmotion, r.DominantEmotion, r.PrimaryEmotionCamel} {
		if strings.TrimSpace(label) != "" {
			return label
		}
	}
	return ""
}

// ToObservation collapses a raw record to the canonical observation
// shape. Confidence stays optional here; the scoring engine applies the
// 0.5 default in exactly one place. Timestamps parse as RFC 3339 or a
// bare date; anything else takes the caller's fallback instant.
func ToObservation(rec RawRecord, fallback time.Time) emotion.Observation {
	return emotion.Observation{
		Emotion:    rec.Label(),
		Confidence: rec.Confidence,
		Timestamp:  parseTimestamp(rec.Timestamp, fallback),
		Content:    rec.Content,
	}
}

// FromMessages bridges stored messages into core observations
func FromMessages(msgs []store.Message) []emotion.Observation {
	obs := make([]emotion.Observation, 0, len(msgs))
	for _, m := range msgs {
		obs = append(obs, emotion.Observation{
			Emotion:    m.Emotion,
			Confidence: m.Confidence,
			Timestamp:  m.CreatedAt,
			Content:    m.Content,
		})
	}
	return obs
}

// FromJournals bridges stored journal entries into core observations.
// A user-picked emotion counts as an explicit self-report at full
// confidence; otherwise the model-derived label carries its own
// confidence. Entries with neither label stay in the slice and fall out
// at scoring time.
func FromJournals(entries []store.JournalEntry) []emotion.Observation {
	obs := make([]emotion.Observation, 0, len(entries))
	for _, e := range entries {
		o := emotion.Observation{
			Timestamp: e.CreatedAt,
			Content:   e.Content,
		}
		if e.SelfEmotion != "" {
			o.Emotion = e.SelfEmotion
			o.Confidence = emotion.Conf(1.0)
		} else {
			o.Emotion = e.DerivedEmotion
			o.Confidence = e.Confidence
		}
		obs = append(obs, o)
	}
	return obs
}

func parseTimestamp(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts
	}
	return fallback
}

package store

import (
	"fmt"
	"time"
)

// Message sources
const (
	SourceText  = "text"
	SourceVoice = "voice"
)

// Message is one analyzed chat or voice message. Emotion holds the raw
// label the analysis produced; normalization to the canonical vocabulary
// happens at read time in the ingest layer.
type Message struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Content    string    `json:"content"`
	Source     string    `json:"source"`
	Emotion    string    `json:"emotion"`
	Confidence *float64  `json:"confidence,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks if the Message is storable
func (m *Message) Validate() error {
	if m.UserID == "" {
		return ErrInvalidRecord{Record: "message", Field: "user_id", Reason: "cannot be empty"}
	}
	if m.Source != SourceText && m.Source != SourceVoice {
		return ErrInvalidRecord{Record: "message", Field: "source", Reason: fmt.Sprintf("must be %q or %q", SourceText, SourceVoice)}
	}
	return nil
}

// JournalEntry is one journal note. SelfEmotion is the label the user
// picked, if any; DerivedEmotion is what the language model read out of
// the text. Self-report wins at aggregation time.
type JournalEntry struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Content        string    `json:"content"`
	SelfEmotion    string    `json:"self_emotion,omitempty"`
	DerivedEmotion string    `json:"derived_emotion,omitempty"`
	Confidence     *float64  `json:"confidence,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validate checks if the JournalEntry is storable
func (j *JournalEntry) Validate() error {
	if j.UserID == "" {
		return ErrInvalidRecord{Record: "journal entry", Field: "user_id", Reason: "cannot be empty"}
	}
	if j.Content == "" {
		return ErrInvalidRecord{Record: "journal entry", Field: "content", Reason: "cannot be empty"}
	}
	return nil
}

// Errors

type ErrInvalidRecord struct {
	Record string
	Field  string
	Reason string
}

func (e ErrInvalidRecord) Error() string {
	return fmt.Sprintf("invalid %s: %s - %s", e.Record, e.Field, e.Reason)
}

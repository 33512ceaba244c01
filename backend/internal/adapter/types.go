package adapter

// Reading is the raw emotion signal a provider returns, before any
// normalization or aggregation happens downstream
type Reading struct {
	Emotion    string             `json:"emotion"`
	Confidence *float64           `json:"confidence,omitempty"`
	Scores     map[string]float64 `json:"scores,omitempty"`
	Model      string             `json:"model,omitempty"`
}

// Transcript is the speech-to-text result for one voice note
type Transcript struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

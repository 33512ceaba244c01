package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	apperrors "moodlens/backend/pkg/errors"
	"moodlens/backend/pkg/logger"
)

// STTClient calls the speech-to-text service
type STTClient struct {
	client  *resty.Client
	retries int
	logger  *zap.Logger
}

// NewSTTClient creates a speech-to-text client
func NewSTTClient(baseURL string, retries int, timeout time.Duration) *STTClient {
	if retries <= 0 {
		retries = 3
	}

	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	if retries > 1 {
		c.SetRetryCount(retries - 1).SetRetryWaitTime(time.Second)
	}

	return &STTClient{
		client:  c,
		retries: retries,
		logger:  logger.Named("stt"),
	}
}

type transcribeResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Transcribe uploads the audio and returns the recognized text. A
// successful call with no words in it is reported as ErrEmptyTranscript
// so callers can skip text analysis instead of scoring silence.
func (c *STTClient) Transcribe(ctx context.Context, filename string, audio []byte) (*Transcript, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(audio)).
		Post("/transcribe")
	if err != nil {
		return nil, apperrors.NewTranscriptionFailed("stt", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apperrors.NewTranscriptionFailed("stt", fmt.Errorf("status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String())))
	}

	var out transcribeResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, apperrors.NewTranscriptionFailed("stt", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return nil, apperrors.ErrEmptyTranscript
	}

	c.logger.Debug("Audio transcribed",
		zap.String("language", out.Language),
		zap.Float64("duration", out.Duration),
		zap.Int("chars", len(out.Text)),
	)

	return &Transcript{
		Text:     out.Text,
		Language: out.Language,
		Duration: out.Duration,
	}, nil
}

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

// VoiceEmotionClient calls the speech emotion recognition service, which
// classifies tone directly from audio without transcribing it
type VoiceEmotionClient struct {
	client  *resty.Client
	retries int
	logger  *zap.Logger
}

// NewVoiceEmotionClient creates a voice emotion client
func NewVoiceEmotionClient(baseURL string, retries int, timeout time.Duration) *VoiceEmotionClient {
	if retries <= 0 {
		retries = 3
	}

	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	if retries > 1 {
		c.SetRetryCount(retries - 1).SetRetryWaitTime(time.Second)
	}

	return &VoiceEmotionClient{
		client:  c,
		retries: retries,
		logger:  logger.Named("voice-emotion"),
	}
}

type voiceResponse struct {
	Success    bool               `json:"success"`
	Emotion    string             `json:"emotion"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores,omitempty"`
	Model      string             `json:"model,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Analyze uploads the audio and returns the tone reading
func (c *VoiceEmotionClient) Analyze(ctx context.Context, filename string, audio []byte) (*Reading, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(audio)).
		Post("/analyze")
	if err != nil {
		return nil, apperrors.NewProviderFailed("voice-emotion", c.retries, true, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apperrors.NewProviderBadResponse("voice-emotion", resp.StatusCode(), fmt.Errorf("%s", strings.TrimSpace(resp.String())))
	}

	var out voiceResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, apperrors.NewProviderBadResponse("voice-emotion", resp.StatusCode(), err)
	}
	if !out.Success {
		return nil, apperrors.NewProviderBadResponse("voice-emotion", resp.StatusCode(), fmt.Errorf("%s", out.Error))
	}
	if strings.TrimSpace(out.Emotion) == "" {
		return nil, apperrors.ErrNoEmotionDetected
	}

	c.logger.Debug("Voice emotion analyzed",
		zap.String("emotion", out.Emotion),
		zap.Float64("confidence", out.Confidence),
		zap.String("model", out.Model),
	)

	confidence := out.Confidence
	return &Reading{
		Emotion:    out.Emotion,
		Confidence: &confidence,
		Scores:     out.Scores,
		Model:      out.Model,
	}, nil
}

package adapter

import (
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

// TextEmotionClient calls a HuggingFace-style text classification endpoint
type TextEmotionClient struct {
	client  *resty.Client
	model   string
	retries int
	logger  *zap.Logger
}

// NewTextEmotionClient creates a classifier client. An empty apiToken is
// fine for self-hosted inference servers.
func NewTextEmotionClient(baseURL, model, apiToken string, retries int, timeout time.Duration) *TextEmotionClient {
	if retries <= 0 {
		retries = 3
	}

	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if apiToken != "" {
		c.SetAuthToken(apiToken)
	}
	if retries > 1 {
		c.SetRetryCount(retries - 1).SetRetryWaitTime(time.Second)
	}

	return &TextEmotionClient{
		client:  c,
		model:   model,
		retries: retries,
		logger:  logger.Named("text-emotion"),
	}
}

type classifyRequest struct {
	Inputs string `json:"inputs"`
}

type classifyScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the classifier's top label for the given text along
// with the full score distribution.
func (c *TextEmotionClient) Classify(ctx context.Context, text string) (*Reading, error) {
	reqBody := classifyRequest{Inputs: text}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/models/" + c.model)
	if err != nil {
		return nil, apperrors.NewProviderFailed("text-emotion", c.retries, true, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apperrors.NewProviderBadResponse("text-emotion", resp.StatusCode(), fmt.Errorf("%s", strings.TrimSpace(resp.String())))
	}

	// The inference API nests results one level deep: [[{label, score}, ...]]
	var results [][]classifyScore
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		return nil, apperrors.NewProviderBadResponse("text-emotion", resp.StatusCode(), err)
	}
	if len(results) == 0 || len(results[0]) == 0 {
		return nil, apperrors.ErrNoEmotionDetected
	}

	scores := make(map[string]float64, len(results[0]))
	best := results[0][0]
	for _, s := range results[0] {
		scores[s.Label] = s.Score
		if s.Score > best.Score {
			best = s
		}
	}
	if strings.TrimSpace(best.Label) == "" {
		return nil, apperrors.ErrNoEmotionDetected
	}

	c.logger.Debug("Text emotion classified",
		zap.String("label", best.Label),
		zap.Float64("score", best.Score),
	)

	confidence := best.Score
	return &Reading{
		Emotion:    best.Label,
		Confidence: &confidence,
		Scores:     scores,
		Model:      c.model,
	}, nil
}

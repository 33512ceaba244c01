package adapter

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	apperrors "moodlens/backend/pkg/errors"
	"moodlens/backend/pkg/logger"
)

const reportEmotionTool = "report_emotion"

// emotionReport is the payload the model must produce through the forced
// tool call
type emotionReport struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// LLMAnalyzer classifies text emotion through an OpenAI-compatible gateway
type LLMAnalyzer struct {
	client  *openai.Client
	model   string
	mu      sync.RWMutex // Protects model field for concurrent access
	retries int
	params  map[string]interface{}
	logger  *zap.Logger
}

// NewLLMAnalyzer creates a new LLM analyzer
func NewLLMAnalyzer(baseURL, apiKey, modelID string, retries int) (*LLMAnalyzer, error) {
	// For LiteLLM-style gateways a dummy API key is accepted
	if apiKey == "" {
		apiKey = "dummy-key"
	}
	if retries <= 0 {
		retries = 3
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL + "/v1"

	schema, err := GenerateSchema[emotionReport]()
	if err != nil {
		return nil, err
	}
	params, err := schemaToMap(schema)
	if err != nil {
		return nil, err
	}

	return &LLMAnalyzer{
		client:  openai.NewClientWithConfig(config),
		model:   modelID,
		retries: retries,
		params:  params,
		logger:  logger.Named("llm"),
	}, nil
}

// SetModel updates the model used by this analyzer
func (a *LLMAnalyzer) SetModel(model string) {
	if model != "" {
		a.mu.Lock()
		a.model = model
		a.mu.Unlock()
		a.logger.Debug("LLM analyzer model updated", zap.String("model", model))
	}
}

// GetModel returns the current model
func (a *LLMAnalyzer) GetModel() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.model
}

// AnalyzeText asks the model for the dominant emotion of the given text.
// The tool call is forced, so a well-behaved gateway always answers with
// a structured report rather than prose.
func (a *LLMAnalyzer) AnalyzeText(ctx context.Context, text string) (*Reading, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleSystem,
			Content: "You are an emotion classifier for a mood tracking journal. " +
				"Classify the dominant emotion of the user's text and report it with the report_emotion tool. " +
				"emotion must be exactly one of: anger, disgust, fear, joy, neutral, sadness, surprise. " +
				"confidence is your certainty between 0 and 1.",
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: text,
		},
	}

	a.mu.RLock()
	currentModel := a.model
	a.mu.RUnlock()

	req := openai.ChatCompletionRequest{
		Model:    currentModel,
		Messages: messages,
		Tools: []openai.Tool{
			{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        reportEmotionTool,
					Description: "Report the dominant emotion detected in the text",
					Parameters:  a.params,
				},
			},
		},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: reportEmotionTool},
		},
		Temperature: 0.2,
	}

	// Retry logic with linear backoff
	var resp openai.ChatCompletionResponse
	var err error
	for attempt := 0; attempt < a.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			a.logger.Warn("Retrying LLM request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			time.Sleep(backoff)
		}

		resp, err = a.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		errMsg := err.Error()
		a.logger.Error("LLM request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", currentModel),
		)

		// A JSON parsing error usually means the gateway returned a non-JSON
		// error page, which tends to clear up on retry
		if strings.Contains(errMsg, "invalid character") || strings.Contains(errMsg, "json") {
			a.logger.Warn("LLM gateway returned non-JSON error response",
				zap.String("error", errMsg),
			)
		}
	}

	if err != nil {
		return nil, apperrors.NewProviderFailed("llm", a.retries, true, err)
	}

	if len(resp.Choices) == 0 {
		return nil, apperrors.ErrNoEmotionDetected
	}

	report, err := extractReport(resp.Choices[0].Message.ToolCalls)
	if err != nil {
		a.logger.Warn("LLM response carried no usable emotion report",
			zap.String("model", currentModel),
			zap.Error(err),
		)
		return nil, err
	}

	a.logger.Debug("LLM emotion report",
		zap.String("model", currentModel),
		zap.String("emotion", report.Emotion),
		zap.Float64("confidence", report.Confidence),
	)

	confidence := report.Confidence
	return &Reading{
		Emotion:    report.Emotion,
		Confidence: &confidence,
		Model:      currentModel,
	}, nil
}

// extractReport pulls the structured emotion report out of the tool calls
func extractReport(toolCalls []openai.ToolCall) (*emotionReport, error) {
	for _, tc := range toolCalls {
		if tc.Function.Name != reportEmotionTool {
			continue
		}
		var report emotionReport
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &report); err != nil {
			return nil, apperrors.NewBaseError(apperrors.ErrorTypeProvider, "failed to parse emotion report arguments", err)
		}
		if strings.TrimSpace(report.Emotion) == "" {
			return nil, apperrors.ErrNoEmotionDetected
		}
		return &report, nil
	}
	return nil, apperrors.ErrNoEmotionDetected
}

package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xaenox/bdc-edge/internal/classifier"
	"github.com/xaenox/bdc-edge/internal/metrics"
	"github.com/xaenox/bdc-edge/internal/models"
)

// PlaceholderConfidence is reported on every reply; no confidence is computed.
const PlaceholderConfidence = 0.85

type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Generator struct {
	client     ChatClient
	classifier classifier.Classifier
	timeout    time.Duration
	logger     *zap.Logger
}

type Option func(*Generator)

// WithTimeout bounds each chat-completion call; zero leaves the call unbounded
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

func WithClassifier(c classifier.Classifier) Option {
	return func(g *Generator) {
		g.classifier = c
	}
}

func NewGenerator(client ChatClient, logger *zap.Logger, opts ...Option) *Generator {
	if client == nil {
		panic("assistant: chat client cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{
		client:     client,
		classifier: classifier.NewKeywordClassifier(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewOpenAIClient returns a go-openai client, pointed at baseURL when set
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// Generate asks the chat-completion API for a reply to message and classifies the reply.
func (g *Generator) Generate(ctx context.Context, leadID, message string, conv models.ConversationContext, params models.ModelParameters) (*models.Reply, error) {
	start := time.Now()

	req := openai.ChatCompletionRequest{
		Model: params.ModelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: params.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(message, conv),
			},
		},
		Temperature: float32(params.Temperature),
		MaxTokens:   params.MaxTokens,
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(callCtx, req)
	latency := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.CompletionLatency.WithLabelValues(params.ModelName, status).Observe(latency.Seconds())

	if err != nil {
		err = upstreamError(err)
		g.logger.Error("Failed to get AI response",
			zap.Error(err),
			zap.String("lead_id", leadID),
			zap.String("model", params.ModelName))
		var upErr *UpstreamError
		if errors.As(err, &upErr) {
			return nil, err
		}
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	content := resp.Choices[0].Message.Content
	result := g.classifier.Classify(content)
	metrics.ClassificationsTotal.WithLabelValues(string(result.Sentiment), string(result.Intent)).Inc()

	reply := &models.Reply{
		Message:          content,
		Sentiment:        result.Sentiment,
		Intent:           result.Intent,
		Confidence:       PlaceholderConfidence,
		ModelUsed:        params.ModelName,
		TokensUsed:       resp.Usage.TotalTokens,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}

	g.logger.Info("Generated AI response",
		zap.String("lead_id", leadID),
		zap.String("model", params.ModelName),
		zap.Int("tokens_used", reply.TokensUsed),
		zap.String("sentiment", string(reply.Sentiment)),
		zap.String("intent", string(reply.Intent)),
		zap.Int64("processing_time_ms", reply.ProcessingTimeMs))

	return reply, nil
}

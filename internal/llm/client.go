package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jonathan/resume-matcher/internal/logger"
)

// Client is an abstraction over LLM providers.
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates JSON content using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GetModel returns the provider model name for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration.
func NewClient(ctx context.Context, config *Config, apiKey string, log *zap.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey, log)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
	log    *zap.Logger
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string, log *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
		log:    logger.Component(log, "llm"),
	}, nil
}

// GenerateContent generates text content using the specified model tier.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}
	return c.generate(ctx, model, prompt)
}

// GenerateJSON generates JSON content using the specified model tier.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}
	model.ResponseMIMEType = "application/json"

	text, err := c.generate(ctx, model, prompt)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier.
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *GeminiClient) model(tier ModelTier) (*genai.GenerativeModel, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	return model, nil
}

func (c *GeminiClient) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.log.Warn("generation failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	c.log.Debug("generation finished", zap.Duration("elapsed", time.Since(start)))

	return extractTextFromResponse(resp)
}

// extractTextFromResponse extracts text from Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

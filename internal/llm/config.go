// Package llm provides the generative model client used for skill extraction,
// fallback scoring and résumé drafting.
package llm

// ModelTier represents the capability level of a model.
type ModelTier string

const (
	// TierLite is for extraction and classification.
	TierLite ModelTier = "lite"
	// TierStandard is for structured scoring output.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for résumé drafting.
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider.
type Provider string

const (
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// Temperature is applied to every request. Zero keeps drafts reproducible.
	Temperature float32
}

// DefaultConfig returns the default configuration (currently Gemini).
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration.
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a given tier.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}

// Package llm provides centralized LLM configuration and client abstractions.
// This package enables easy switching between model tiers and keeps the text and image
// providers behind small interfaces.
package llm

import "fmt"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, extraction, basic summarization
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: parsing, structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning
	TierAdvanced ModelTier = "advanced"
)

// ParseModelTier validates a tier name. An empty name is TierStandard.
func ParseModelTier(name string) (ModelTier, error) {
	switch tier := ModelTier(name); tier {
	case "":
		return TierStandard, nil
	case TierLite, TierStandard, TierAdvanced:
		return tier, nil
	default:
		return "", fmt.Errorf("unknown model tier %q (want lite, standard or advanced)", name)
	}
}

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultImageModel is the Imagen model used for persona illustrations.
const DefaultImageModel = "imagen-3.0-generate-002"

// Config holds the model configuration for the application
type Config struct {
	Provider   Provider
	Models     map[ModelTier]string
	ImageModel string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		ImageModel: DefaultImageModel,
	}
}

// GetModel returns the model name for a given tier
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
	return "" // No model configured
}

// GetImageModel returns the image model, falling back to DefaultImageModel.
func (c *Config) GetImageModel() string {
	if c.ImageModel == "" {
		return DefaultImageModel
	}
	return c.ImageModel
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := c.clone()
	newConfig.Models[tier] = model
	return newConfig
}

// WithImageModel returns a new Config with a specific image model
func (c *Config) WithImageModel(model string) *Config {
	newConfig := c.clone()
	newConfig.ImageModel = model
	return newConfig
}

func (c *Config) clone() *Config {
	newConfig := &Config{
		Provider:   c.Provider,
		Models:     make(map[ModelTier]string, len(c.Models)),
		ImageModel: c.ImageModel,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	return newConfig
}

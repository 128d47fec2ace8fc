// Package llm wraps the generative model used to propose new skill terms during a
// vocabulary refresh.
package llm

// ModelTier represents the capability level of a model.
type ModelTier string

const (
	// TierLite is for short classification and tagging prompts
	TierLite ModelTier = "lite"
	// TierStandard is for longer structured output
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider.
type Provider string

// ProviderGemini is the Google Gemini provider.
const ProviderGemini Provider = "gemini"

// Config holds the model configuration.
type Config struct {
	Provider    Provider             `mapstructure:"provider"`
	Models      map[ModelTier]string `mapstructure:"models"`
	Temperature float32              `mapstructure:"temperature"`
	// MaxOutputTokens caps a response; 0 leaves the model default.
	MaxOutputTokens int32 `mapstructure:"max-output-tokens"`
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature:     0.1,
		MaxOutputTokens: 1024,
	}
}

// GetModel returns the model name for tier, falling back to standard then lite.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok && model != "" {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of c using model for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := &Config{
		Provider:        c.Provider,
		Models:          make(map[ModelTier]string, len(c.Models)+1),
		Temperature:     c.Temperature,
		MaxOutputTokens: c.MaxOutputTokens,
	}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	next.Models[tier] = model
	return next
}

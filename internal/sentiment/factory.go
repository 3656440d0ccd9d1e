package sentiment

import (
	"fmt"
	"strings"

	"voicepad/internal/config"
	"voicepad/internal/gcp"
)

// NewAnalyzer creates a sentiment analyzer based on configuration
func NewAnalyzer(cfg *config.Config, auth *gcp.Auth) (Analyzer, error) {
	switch strings.ToLower(cfg.SentimentProvider) {
	case "", "google":
		if auth == nil {
			return nil, fmt.Errorf("google sentiment provider requires Google credentials")
		}
		return NewGoogleAnalyzer(auth), nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("openai sentiment provider requires OPENAI_API_KEY")
		}
		return NewOpenAIAnalyzer(cfg.OpenAIKey), nil
	default:
		return nil, fmt.Errorf("unsupported sentiment provider: %s. Supported: google, openai", cfg.SentimentProvider)
	}
}

package stt

import (
	"fmt"
	"strings"

	"voicepad/internal/config"
	"voicepad/internal/gcp"
)

// NewProvider creates an STT provider based on configuration
func NewProvider(cfg *config.Config, auth *gcp.Auth) (Provider, error) {
	switch strings.ToLower(cfg.STTProvider) {
	case "", "google":
		if auth == nil {
			return nil, fmt.Errorf("google stt provider requires Google credentials")
		}
		return NewGoogleProvider(auth, cfg.SampleRate, cfg.LanguageCode), nil
	case "whisper":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("whisper stt provider requires OPENAI_API_KEY")
		}
		return NewWhisperProvider(cfg.OpenAIKey, cfg.LanguageCode), nil
	default:
		return nil, fmt.Errorf("unsupported STT provider: %s. Supported: google, whisper", cfg.STTProvider)
	}
}

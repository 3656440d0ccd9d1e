package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Artifact directories
	UploadDir string
	TTSDir    string

	// Audio normalization target for the transcription path
	FFmpegPath string
	SampleRate int
	MP3Bitrate string

	// Capability providers
	STTProvider       string // google, whisper
	SentimentProvider string // google, openai
	LanguageCode      string

	GoogleAPIKey  string
	GoogleKeyFile string
	OpenAIKey     string

	// Bound on every external call (transcoder spawn included)
	CallTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		TTSDir:            getEnv("TTS_DIR", "tts"),
		FFmpegPath:        getEnv("FFMPEG_PATH", "ffmpeg"),
		SampleRate:        getEnvInt("SAMPLE_RATE", 16000),
		MP3Bitrate:        getEnv("MP3_BITRATE", "128k"),
		STTProvider:       getEnv("STT_PROVIDER", "google"),
		SentimentProvider: getEnv("SENTIMENT_PROVIDER", "google"),
		LanguageCode:      getEnv("LANGUAGE_CODE", "en-US"),
		GoogleAPIKey:      os.Getenv("GOOGLE_API_KEY"),
		GoogleKeyFile:     os.Getenv("GOOGLE_KEY_FILE"),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		CallTimeout:       getEnvDuration("CALL_TIMEOUT", 60*time.Second),
	}

	// Synthesis is Google-backed, so Google credentials are always needed.
	if cfg.GoogleAPIKey == "" && cfg.GoogleKeyFile == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY or GOOGLE_KEY_FILE is required")
	}
	if cfg.STTProvider == "whisper" || cfg.SentimentProvider == "openai" {
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when an openai-backed provider is selected")
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

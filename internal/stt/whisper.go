package stt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// WhisperProvider implements STT using the OpenAI audio transcription API
type WhisperProvider struct {
	client   *openai.Client
	language string // two-letter code, e.g. "en"
}

// NewWhisperProvider creates a new Whisper STT provider. languageCode is a
// BCP-47 tag; whisper only takes the primary subtag.
func NewWhisperProvider(apiKey, languageCode string) *WhisperProvider {
	lang, _, _ := strings.Cut(languageCode, "-")
	return &WhisperProvider{
		client:   openai.NewClient(apiKey),
		language: lang,
	}
}

// Name returns the provider name
func (p *WhisperProvider) Name() string {
	return "whisper"
}

func (p *WhisperProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat audio file: %w", err)
	}
	if info.Size() < minAudioBytes {
		return nil, fmt.Errorf("audio file too small (%d bytes), may be empty or corrupted", info.Size())
	}

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Language: p.language,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 400 &&
			strings.Contains(strings.ToLower(apiErr.Message), "audio") {
			return nil, ErrNoSpeech
		}
		return nil, fmt.Errorf("whisper request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, ErrNoSpeech
	}

	// Whisper returns one blob; keep it as a single ordered segment.
	return &Result{
		Segments: []string{text},
		Provider: p.Name(),
	}, nil
}

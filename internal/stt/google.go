package stt

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"voicepad/internal/gcp"
)

const googleSpeechEndpoint = "https://speech.googleapis.com/v1/speech:recognize"

// Uploads smaller than this are almost certainly empty or truncated; reject
// them before spending an API call.
const minAudioBytes = 1000

// GoogleProvider implements STT using the Google Cloud Speech-to-Text REST API
type GoogleProvider struct {
	auth         *gcp.Auth
	sampleRate   int
	languageCode string
}

// NewGoogleProvider creates a new Google STT provider
func NewGoogleProvider(auth *gcp.Auth, sampleRate int, languageCode string) *GoogleProvider {
	return &GoogleProvider{
		auth:         auth,
		sampleRate:   sampleRate,
		languageCode: languageCode,
	}
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

type googleSTTRequest struct {
	Config googleSTTConfig `json:"config"`
	Audio  googleSTTAudio  `json:"audio"`
}

type googleSTTConfig struct {
	Encoding                   string `json:"encoding"`
	SampleRateHertz            int    `json:"sampleRateHertz"`
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
}

type googleSTTAudio struct {
	Content string `json:"content"` // Base64 encoded
}

type googleSTTResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Transcribe sends a single synchronous recognition request for a mono
// LINEAR16 WAV at the configured sample rate.
func (p *GoogleProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	audioBytes, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	if len(audioBytes) < minAudioBytes {
		return nil, fmt.Errorf("audio file too small (%d bytes), may be empty or corrupted", len(audioBytes))
	}

	reqBody := googleSTTRequest{
		Config: googleSTTConfig{
			Encoding:                   "LINEAR16",
			SampleRateHertz:            p.sampleRate,
			LanguageCode:               p.languageCode,
			EnableAutomaticPunctuation: true,
		},
		Audio: googleSTTAudio{
			Content: base64.StdEncoding.EncodeToString(audioBytes),
		},
	}

	var sttResp googleSTTResponse
	if err := p.auth.PostJSON(ctx, p.auth.Endpoint(googleSpeechEndpoint), reqBody, &sttResp); err != nil {
		return nil, fmt.Errorf("speech recognition request failed: %w", err)
	}

	result := &Result{Provider: p.Name()}
	for _, r := range sttResp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		best := r.Alternatives[0]
		if text := strings.TrimSpace(best.Transcript); text != "" {
			result.Segments = append(result.Segments, text)
			if result.Confidence == 0 {
				result.Confidence = best.Confidence
			}
		}
	}

	if len(result.Segments) == 0 {
		return nil, ErrNoSpeech
	}
	return result, nil
}

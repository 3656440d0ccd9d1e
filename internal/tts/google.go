package tts

import (
	"context"
	"encoding/base64"
	"fmt"

	"voicepad/internal/gcp"
)

const googleTTSEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"

// GoogleSynthesizer implements speech synthesis using the Google Cloud
// Text-to-Speech REST API.
type GoogleSynthesizer struct {
	auth         *gcp.Auth
	languageCode string
}

// NewGoogleSynthesizer creates a new Google TTS synthesizer
func NewGoogleSynthesizer(auth *gcp.Auth, languageCode string) *GoogleSynthesizer {
	return &GoogleSynthesizer{
		auth:         auth,
		languageCode: languageCode,
	}
}

// Name returns the provider name
func (s *GoogleSynthesizer) Name() string {
	return "google"
}

type googleTTSRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		SSMLGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type googleTTSResponse struct {
	AudioContent string `json:"audioContent"` // Base64 encoded
}

// Synthesize renders text to MP3 with a neutral voice in the configured
// locale. One request, no streaming.
func (s *GoogleSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	var reqBody googleTTSRequest
	reqBody.Input.Text = text
	reqBody.Voice.LanguageCode = s.languageCode
	reqBody.Voice.SSMLGender = "NEUTRAL"
	reqBody.AudioConfig.AudioEncoding = "MP3"

	var ttsResp googleTTSResponse
	if err := s.auth.PostJSON(ctx, s.auth.Endpoint(googleTTSEndpoint), reqBody, &ttsResp); err != nil {
		return nil, fmt.Errorf("speech synthesis request failed: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(ttsResp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio content: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("synthesis returned empty audio")
	}
	return audio, nil
}

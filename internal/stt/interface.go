package stt

import (
	"context"
	"errors"
	"strings"
)

// ErrNoSpeech reports that the recognizer ran successfully but found no
// speech in the audio. Distinct from a transport or API failure so callers
// can message it differently.
var ErrNoSpeech = errors.New("no speech detected in audio")

// Result represents the result of a speech-to-text transcription
type Result struct {
	Segments   []string // Recognized segments in spoken order
	Confidence float64  // Confidence of the first segment, 0 if not provided
	Provider   string   // The provider used (e.g., "google", "whisper")
}

// Transcript joins the recognized segments into one text blob.
func (r *Result) Transcript() string {
	return strings.TrimSpace(strings.Join(r.Segments, "\n"))
}

// Provider defines the interface for speech-to-text providers
type Provider interface {
	// Transcribe transcribes a PCM WAV file. Returns ErrNoSpeech when the
	// recognizer produced no segments.
	Transcribe(ctx context.Context, audioPath string) (*Result, error)

	// Name returns the name of the provider (e.g., "google", "whisper")
	Name() string
}

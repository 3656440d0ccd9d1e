package tts

import "context"

// Synthesizer defines the interface for text-to-speech providers
type Synthesizer interface {
	// Synthesize renders text to encoded audio bytes (MP3). An empty
	// payload from the backing service is reported as an error, never as
	// a zero-byte success.
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// Name returns the name of the provider
	Name() string
}

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicepad/internal/sentiment"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	base := t.TempDir()
	s, err := NewStore(filepath.Join(base, "uploads"), filepath.Join(base, "tts"))
	require.NoError(t, err)
	return s
}

func TestIsAudioFile(t *testing.T) {
	t.Parallel()

	accepted := []string{"a.wav", "a.mp3", "a.webm", "A.WAV", "clip.Mp3", "x.WEBM"}
	for _, name := range accepted {
		assert.True(t, IsAudioFile(name), name)
	}

	rejected := []string{"a.ogg", "a.m4a", "a.txt", "wav", "noext", "a.", "a.wav.exe"}
	for _, name := range rejected {
		assert.False(t, IsAudioFile(name), name)
	}
}

func TestSaveUploadAndResolve(t *testing.T) {
	s := newTestStore(t)

	path, err := s.SaveUpload(strings.NewReader("RIFFdata"), "20250101-010203PM", ".webm")
	require.NoError(t, err)
	assert.Equal(t, "20250101-010203PM.webm", filepath.Base(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "RIFFdata", string(content))
}

func TestResolveRoutesByExtension(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(s.uploadDir, "a.wav"), []byte("wav"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.uploadDir, "a.mp3"), []byte("derived"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.ttsDir, "b.mp3"), []byte("tts"), 0o644))

	wavPath, err := s.Resolve("a.wav")
	require.NoError(t, err)
	assert.Equal(t, s.uploadDir, filepath.Dir(wavPath))

	ttsPath, err := s.Resolve("b.mp3")
	require.NoError(t, err)
	assert.Equal(t, s.ttsDir, filepath.Dir(ttsPath))

	// Derived MP3s live beside their WAV and are still servable.
	derivedPath, err := s.Resolve("a.mp3")
	require.NoError(t, err)
	assert.Equal(t, s.uploadDir, filepath.Dir(derivedPath))

	_, err = s.Resolve("missing.mp3")
	assert.Error(t, err)

	// Path traversal is neutralized to a plain basename lookup.
	_, err = s.Resolve("../../etc/passwd")
	assert.Error(t, err)
}

func TestWriteArtifactsAndList(t *testing.T) {
	s := newTestStore(t)
	id := "20250101-010203PM"

	_, err := s.SaveUpload(strings.NewReader("audio"), id, "wav")
	require.NoError(t, err)

	name, err := s.WriteTranscript(id, "hello world")
	require.NoError(t, err)
	assert.Equal(t, id+".txt", name)

	rec := sentiment.NewRecord("hello world", &sentiment.Score{
		Label: sentiment.Positive, Score: 0.5, Magnitude: 0.6,
	})
	name, err = s.WriteUploadSentiment(id, rec)
	require.NoError(t, err)
	assert.Equal(t, id+"_sentiment.txt", name)

	recordings, err := s.ListRecordings()
	require.NoError(t, err)
	require.Len(t, recordings, 1)
	assert.Equal(t, id+".wav", recordings[0].Audio)
	assert.Equal(t, id+".txt", recordings[0].Transcript)
	assert.Equal(t, id+"_sentiment.txt", recordings[0].Sentiment)
	assert.Empty(t, recordings[0].MP3)
}

func TestWriteSynthesis(t *testing.T) {
	s := newTestStore(t)
	id := "20250101-040506PM"

	name, err := s.WriteSynthesis(id, []byte("mp3-bytes"))
	require.NoError(t, err)
	assert.Equal(t, id+".mp3", name)

	files, err := s.ListSynthesized()
	require.NoError(t, err)
	assert.Equal(t, []string{id + ".mp3"}, files)

	rec := sentiment.NewRecord("text", &sentiment.Score{Label: sentiment.Neutral})
	_, err = s.WriteSynthesisSentiment(id, rec)
	require.NoError(t, err)
}

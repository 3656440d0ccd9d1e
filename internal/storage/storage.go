// Package storage is the filesystem-backed artifact store. Each pipeline run
// is keyed by a timestamp-derived identifier; the audio file, transcript and
// sentiment record of one run share that identifier with fixed suffixes.
package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"voicepad/internal/sentiment"
)

// idFormat matches the original artifact naming so existing folders stay
// browsable. Second granularity: concurrent uploads inside one second
// collide and the last write wins, an accepted limitation.
const idFormat = "20060102-030405PM"

const (
	transcriptSuffix = ".txt"
	sentimentSuffix  = "_sentiment.txt"
)

// Store persists artifacts under two directories: one for uploaded/derived
// audio, one for synthesized speech.
type Store struct {
	uploadDir string
	ttsDir    string
}

// NewStore creates both directories if needed.
func NewStore(uploadDir, ttsDir string) (*Store, error) {
	for _, dir := range []string{uploadDir, ttsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
		}
	}
	return &Store{uploadDir: uploadDir, ttsDir: ttsDir}, nil
}

// NewID derives an artifact identifier from the current wall clock.
func NewID() string {
	return time.Now().Format(idFormat)
}

// IsAudioFile reports whether name has a supported upload extension.
// Accepted: wav, mp3, webm (case-insensitive).
func IsAudioFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".mp3", ".webm":
		return true
	default:
		return false
	}
}

// SaveUpload streams an uploaded payload to {id}.{ext} in the upload
// directory and returns the stored path.
func (s *Store) SaveUpload(src io.Reader, id, ext string) (string, error) {
	path := filepath.Join(s.uploadDir, id+"."+strings.ToLower(strings.TrimPrefix(ext, ".")))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return path, nil
}

// WriteTranscript persists the transcript for id and returns its filename.
func (s *Store) WriteTranscript(id, text string) (string, error) {
	name := id + transcriptSuffix
	if err := os.WriteFile(filepath.Join(s.uploadDir, name), []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}
	return name, nil
}

// WriteUploadSentiment persists the sentiment record for an upload run.
func (s *Store) WriteUploadSentiment(id string, rec *sentiment.Record) (string, error) {
	return writeSentiment(s.uploadDir, id, rec)
}

// WriteSynthesisSentiment persists the sentiment record next to a
// synthesized clip.
func (s *Store) WriteSynthesisSentiment(id string, rec *sentiment.Record) (string, error) {
	return writeSentiment(s.ttsDir, id, rec)
}

func writeSentiment(dir, id string, rec *sentiment.Record) (string, error) {
	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode sentiment record: %w", err)
	}
	name := id + sentimentSuffix
	if err := os.WriteFile(filepath.Join(dir, name), payload, 0o644); err != nil {
		return "", fmt.Errorf("failed to write sentiment record: %w", err)
	}
	return name, nil
}

// WriteSynthesis persists synthesized audio as {id}.mp3 in the tts directory.
func (s *Store) WriteSynthesis(id string, audio []byte) (string, error) {
	name := id + ".mp3"
	if err := os.WriteFile(filepath.Join(s.ttsDir, name), audio, 0o644); err != nil {
		return "", fmt.Errorf("failed to write synthesized audio: %w", err)
	}
	return name, nil
}

// Resolve maps an artifact filename to its on-disk path. WAV files live in
// the upload area; everything else is looked up in the tts area first with a
// fallback to uploads, where derived MP3s sit next to their WAVs.
func (s *Store) Resolve(filename string) (string, error) {
	filename = filepath.Base(filename)
	if strings.HasSuffix(strings.ToLower(filename), ".wav") {
		return existingPath(filepath.Join(s.uploadDir, filename))
	}
	if path, err := existingPath(filepath.Join(s.ttsDir, filename)); err == nil {
		return path, nil
	}
	return existingPath(filepath.Join(s.uploadDir, filename))
}

func existingPath(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("artifact not found: %w", err)
	}
	return path, nil
}

// Recording describes one artifact family for the index page.
type Recording struct {
	Audio      string // WAV filename
	MP3        string // derived MP3 filename, empty if absent
	Transcript string // transcript filename, empty if not transcribed
	Sentiment  string // sentiment record filename, empty if absent
}

// ListRecordings enumerates upload-side artifact families, newest first.
func (s *Store) ListRecordings() ([]Recording, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	var recordings []Recording
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".wav") {
			continue
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		rec := Recording{Audio: name}
		if fileExists(filepath.Join(s.uploadDir, id+".mp3")) {
			rec.MP3 = id + ".mp3"
		}
		if fileExists(filepath.Join(s.uploadDir, id+transcriptSuffix)) {
			rec.Transcript = id + transcriptSuffix
		}
		if fileExists(filepath.Join(s.uploadDir, id+sentimentSuffix)) {
			rec.Sentiment = id + sentimentSuffix
		}
		recordings = append(recordings, rec)
	}

	sort.Slice(recordings, func(i, j int) bool {
		return recordings[i].Audio > recordings[j].Audio
	})
	return recordings, nil
}

// ListSynthesized enumerates synthesized MP3 filenames, newest first.
func (s *Store) ListSynthesized() ([]string, error) {
	entries, err := os.ReadDir(s.ttsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list synthesized audio: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".mp3") {
			files = append(files, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

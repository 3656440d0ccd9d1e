// Package pipeline sequences the audio processing stages: format conversion,
// noise reduction, transcription, sentiment analysis and synthesis, together
// with artifact naming and per-stage failure handling.
package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"voicepad/internal/logger"
	"voicepad/internal/sentiment"
	"voicepad/internal/storage"
	"voicepad/internal/stt"
	"voicepad/internal/transcode"
	"voicepad/internal/tts"
)

// Converter abstracts the transcoder adapter so tests can substitute it.
type Converter interface {
	Convert(ctx context.Context, srcPath string, opts transcode.Options) (string, error)
}

// DenoiseFunc is the noise filter contract: best effort, in place.
type DenoiseFunc func(path string) error

// Pipeline holds the injected capabilities for both processing paths. All
// clients are constructed once at startup and reused across requests.
type Pipeline struct {
	Transcoder Converter
	Denoise    DenoiseFunc
	STT        stt.Provider
	Sentiment  sentiment.Analyzer
	TTS        tts.Synthesizer
	Store      *storage.Store
	Log        *logger.Logger

	SampleRate  int
	MP3Bitrate  string
	CallTimeout time.Duration
}

// UploadResult reports the artifacts of one audio-in run. On partial
// failures the file fields name whatever was persisted before the abort.
type UploadResult struct {
	ID             string
	WAVFile        string
	MP3File        string
	TranscriptFile string
	SentimentFile  string
	Transcript     string
	Sentiment      *sentiment.Score
}

// TextResult reports the artifacts of one text-in run.
type TextResult struct {
	ID            string
	AudioFile     string
	SentimentFile string
	Sentiment     *sentiment.Score
}

func (p *Pipeline) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.CallTimeout)
}

// ProcessUpload runs the audio-in path on a stored raw upload:
// convert to WAV, denoise, then MP3 conversion and transcription in
// parallel, then sentiment, then persistence.
//
// Failure semantics are asymmetric: conversion failures abort with nothing
// derived, a noise filter failure only logs, a transcription failure leaves
// the MP3 in place, and a sentiment failure leaves both the MP3 and the
// transcript persisted.
func (p *Pipeline) ProcessUpload(ctx context.Context, rawPath string) (*UploadResult, error) {
	id := strings.TrimSuffix(filepath.Base(rawPath), filepath.Ext(rawPath))
	log := p.Log.WithField("run_id", id)
	result := &UploadResult{ID: id}

	// Received -> Converted(WAV). The raw upload is deleted once the
	// normalized WAV exists, never before.
	convCtx, cancel := p.callCtx(ctx)
	wavPath, err := p.Transcoder.Convert(convCtx, rawPath, transcode.Options{
		Format:       transcode.FormatWAV,
		SampleRate:   p.SampleRate,
		Channels:     1,
		RemoveSource: true,
	})
	cancel()
	if err != nil {
		return result, stageErr(KindConversion, "convert-wav", err)
	}
	result.WAVFile = filepath.Base(wavPath)
	log.Info("audio normalized to wav")

	// Converted(WAV) -> Filtered. Best effort: a failure here downgrades
	// to the unfiltered audio.
	if err := p.Denoise(wavPath); err != nil {
		log.WithError(err).Warn("noise reduction failed, continuing with unfiltered audio")
	}

	// Two branches read the same immutable filtered WAV: the playable MP3
	// and the transcription. Joined before anything is persisted.
	var (
		mp3Path   string
		mp3Err    error
		sttResult *stt.Result
		sttErr    error
	)
	var g errgroup.Group
	g.Go(func() error {
		mp3Ctx, cancel := p.callCtx(ctx)
		defer cancel()
		mp3Path, mp3Err = p.Transcoder.Convert(mp3Ctx, wavPath, transcode.Options{
			Format:     transcode.FormatMP3,
			SampleRate: p.SampleRate,
			Channels:   1,
			Bitrate:    p.MP3Bitrate,
		})
		return nil
	})
	g.Go(func() error {
		sttCtx, cancel := p.callCtx(ctx)
		defer cancel()
		sttResult, sttErr = p.STT.Transcribe(sttCtx, wavPath)
		return nil
	})
	_ = g.Wait()

	if mp3Path != "" {
		result.MP3File = filepath.Base(mp3Path)
	}

	// The caller expects a playable artifact: a failed MP3 conversion
	// aborts the run even when transcription succeeded.
	if mp3Err != nil {
		return result, stageErr(KindConversion, "convert-mp3", mp3Err)
	}
	if sttErr != nil {
		if errors.Is(sttErr, stt.ErrNoSpeech) {
			return result, stageErr(KindNoSpeech, "transcribe", sttErr)
		}
		return result, stageErr(KindTranscription, "transcribe", sttErr)
	}

	transcript := sttResult.Transcript()
	if transcript == "" {
		return result, stageErr(KindNoSpeech, "transcribe", stt.ErrNoSpeech)
	}
	result.Transcript = transcript
	log.WithField("segments", len(sttResult.Segments)).Info("transcription completed")

	name, err := p.Store.WriteTranscript(id, transcript)
	if err != nil {
		return result, stageErr(KindStorage, "persist-transcript", err)
	}
	result.TranscriptFile = name

	// Transcribed -> Analyzed. The transcript and MP3 stay persisted even
	// when sentiment fails.
	sentCtx, cancel := p.callCtx(ctx)
	score, err := p.Sentiment.Analyze(sentCtx, transcript)
	cancel()
	if err != nil {
		return result, stageErr(KindSentiment, "analyze", err)
	}
	result.Sentiment = score

	name, err = p.Store.WriteUploadSentiment(id, sentiment.NewRecord(transcript, score))
	if err != nil {
		return result, stageErr(KindStorage, "persist-sentiment", err)
	}
	result.SentimentFile = name

	log.WithField("label", score.Label).Info("run completed")
	return result, nil
}

// ProcessText runs the text-in path: sentiment, synthesis, persistence.
// Nothing is written unless both external calls succeed.
func (p *Pipeline) ProcessText(ctx context.Context, text string) (*TextResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, stageErr(KindInvalidInput, "validate", errors.New("no text provided"))
	}

	sentCtx, cancel := p.callCtx(ctx)
	score, err := p.Sentiment.Analyze(sentCtx, text)
	cancel()
	if err != nil {
		return nil, stageErr(KindSentiment, "analyze", err)
	}

	synthCtx, cancel := p.callCtx(ctx)
	audio, err := p.TTS.Synthesize(synthCtx, text)
	cancel()
	if err != nil {
		return nil, stageErr(KindSynthesis, "synthesize", err)
	}

	id := storage.NewID()
	result := &TextResult{ID: id, Sentiment: score}

	name, err := p.Store.WriteSynthesis(id, audio)
	if err != nil {
		return nil, stageErr(KindStorage, "persist-audio", err)
	}
	result.AudioFile = name

	name, err = p.Store.WriteSynthesisSentiment(id, sentiment.NewRecord(text, score))
	if err != nil {
		return nil, stageErr(KindStorage, "persist-sentiment", err)
	}
	result.SentimentFile = name

	p.Log.WithField("run_id", id).WithField("label", score.Label).Info("synthesis completed")
	return result, nil
}

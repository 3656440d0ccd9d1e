package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure for callers. Every external-call site
// is a guarded boundary: failures come back as a *StageError, never a panic.
type Kind string

const (
	KindInvalidInput  Kind = "invalid_input"
	KindConversion    Kind = "conversion_error"
	KindFilter        Kind = "filter_warning"
	KindTranscription Kind = "transcription_error"
	KindNoSpeech      Kind = "no_speech"
	KindSentiment     Kind = "sentiment_error"
	KindSynthesis     Kind = "synthesis_error"
	KindStorage       Kind = "storage_error"
)

// StageError reports which stage of a run failed and how.
type StageError struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s at stage %s", e.Kind, e.Stage)
	}
	return fmt.Sprintf("%s at stage %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(kind Kind, stage string, err error) *StageError {
	return &StageError{Kind: kind, Stage: stage, Err: err}
}

// KindOf extracts the failure kind from err, or "" if err is not a pipeline
// error.
func KindOf(err error) Kind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

package sentiment

import "context"

// Label classifies a sentiment score.
type Label string

const (
	Positive Label = "Positive"
	Neutral  Label = "Neutral"
	Negative Label = "Negative"
)

// positiveThreshold and negativeThreshold are exclusive bounds: a score of
// exactly 0.25 or -0.25 is still Neutral.
const (
	positiveThreshold = 0.25
	negativeThreshold = -0.25
)

// LabelFor maps a numeric score in [-1,1] to a label.
func LabelFor(score float64) Label {
	switch {
	case score > positiveThreshold:
		return Positive
	case score < negativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// Score is the result of analyzing one text.
type Score struct {
	Label     Label   `json:"label"`
	Score     float64 `json:"score"`
	Magnitude float64 `json:"magnitude"`
}

// Record is the persisted form of a sentiment analysis. The analyzed text is
// copied into the record so it stays readable even if the source artifact is
// removed.
type Record struct {
	Text      string  `json:"text"`
	Label     Label   `json:"label"`
	Score     float64 `json:"score"`
	Magnitude float64 `json:"magnitude"`
}

// NewRecord binds a score to the text it was computed from.
func NewRecord(text string, s *Score) *Record {
	return &Record{
		Text:      text,
		Label:     s.Label,
		Score:     s.Score,
		Magnitude: s.Magnitude,
	}
}

// Analyzer defines the interface for sentiment providers
type Analyzer interface {
	// Analyze scores a non-empty text. Callers are responsible for
	// rejecting empty input before invoking the provider.
	Analyze(ctx context.Context, text string) (*Score, error)

	// Name returns the name of the provider (e.g., "google", "openai")
	Name() string
}

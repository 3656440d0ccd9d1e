package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		score float64
		want  Label
	}{
		{"clearly positive", 0.30, Positive},
		{"clearly negative", -0.30, Negative},
		{"zero", 0.0, Neutral},
		{"positive boundary is exclusive", 0.25, Neutral},
		{"negative boundary is exclusive", -0.25, Neutral},
		{"just above boundary", 0.2500001, Positive},
		{"just below boundary", -0.2500001, Negative},
		{"max", 1.0, Positive},
		{"min", -1.0, Negative},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LabelFor(tc.score))
		})
	}
}

func TestNewRecordEmbedsText(t *testing.T) {
	t.Parallel()

	s := &Score{Label: Positive, Score: 0.8, Magnitude: 0.9}
	rec := NewRecord("I love this!", s)

	assert.Equal(t, "I love this!", rec.Text)
	assert.Equal(t, Positive, rec.Label)
	assert.InDelta(t, 0.8, rec.Score, 1e-9)
	assert.InDelta(t, 0.9, rec.Magnitude, 1e-9)
}

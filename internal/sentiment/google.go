package sentiment

import (
	"context"
	"fmt"

	"voicepad/internal/gcp"
)

const googleNLEndpoint = "https://language.googleapis.com/v1/documents:analyzeSentiment"

// GoogleAnalyzer implements sentiment analysis using the Google Cloud
// Natural Language REST API.
type GoogleAnalyzer struct {
	auth *gcp.Auth
}

// NewGoogleAnalyzer creates a new Google sentiment analyzer
func NewGoogleAnalyzer(auth *gcp.Auth) *GoogleAnalyzer {
	return &GoogleAnalyzer{auth: auth}
}

// Name returns the provider name
func (a *GoogleAnalyzer) Name() string {
	return "google"
}

type googleNLRequest struct {
	Document     googleNLDocument `json:"document"`
	EncodingType string           `json:"encodingType"`
}

type googleNLDocument struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type googleNLResponse struct {
	DocumentSentiment struct {
		Score     float64 `json:"score"`
		Magnitude float64 `json:"magnitude"`
	} `json:"documentSentiment"`
}

// Analyze scores text with the analyzeSentiment endpoint. The numeric score
// is mapped to a label locally; magnitude is passed through unmodified.
func (a *GoogleAnalyzer) Analyze(ctx context.Context, text string) (*Score, error) {
	reqBody := googleNLRequest{
		Document: googleNLDocument{
			Type:    "PLAIN_TEXT",
			Content: text,
		},
		EncodingType: "UTF8",
	}

	var nlResp googleNLResponse
	if err := a.auth.PostJSON(ctx, a.auth.Endpoint(googleNLEndpoint), reqBody, &nlResp); err != nil {
		return nil, fmt.Errorf("natural language request failed: %w", err)
	}

	score := nlResp.DocumentSentiment.Score
	return &Score{
		Label:     LabelFor(score),
		Score:     score,
		Magnitude: nlResp.DocumentSentiment.Magnitude,
	}, nil
}

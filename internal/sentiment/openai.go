package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const sentimentSystemPrompt = `You are a sentiment scoring service. ` +
	`Given a text, respond with a JSON object {"score": s, "magnitude": m} ` +
	`where score is the overall polarity in [-1.0, 1.0] and magnitude is the ` +
	`total emotional intensity (>= 0). Respond with JSON only.`

// OpenAIAnalyzer scores sentiment with a chat completion constrained to a
// JSON response.
type OpenAIAnalyzer struct {
	client *openai.Client
}

// NewOpenAIAnalyzer creates a new OpenAI sentiment analyzer
func NewOpenAIAnalyzer(apiKey string) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{client: openai.NewClient(apiKey)}
}

// Name returns the provider name
func (a *OpenAIAnalyzer) Name() string {
	return "openai"
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, text string) (*Score, error) {
	req := openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	var parsed struct {
		Score     float64 `json:"score"`
		Magnitude float64 `json:"magnitude"`
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse sentiment response %q: %w", content, err)
	}

	return &Score{
		Label:     LabelFor(parsed.Score),
		Score:     parsed.Score,
		Magnitude: parsed.Magnitude,
	}, nil
}

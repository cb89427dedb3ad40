package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You strictly output JSON and only use provided bird names."

// OpenAIOption configures an OpenAI classifier.
type OpenAIOption func(*OpenAI)

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(u string) OpenAIOption {
	return func(o *OpenAI) {
		if u != "" {
			o.cfg.BaseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel selects the chat model.
func WithModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		if model != "" {
			o.model = model
		}
	}
}

// OpenAI classifies descriptions with a chat completion model. The model is
// shown the catalog names and asked for a JSON list of the three likeliest.
type OpenAI struct {
	cfg    openai.ClientConfig
	client *openai.Client
	model  string
	names  []string
}

// NewOpenAI creates a classifier limited to names.
func NewOpenAI(apiKey string, names []string, opts ...OpenAIOption) *OpenAI {
	o := &OpenAI{
		cfg:   openai.DefaultConfig(apiKey),
		model: openai.GPT4oMini,
		names: names,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.client = openai.NewClientWithConfig(o.cfg)
	return o
}

// Classify implements Classifier.
func (o *OpenAI) Classify(ctx context.Context, description string) ([]Candidate, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmpty
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: o.prompt(description)},
		},
		// The request field is omitempty, so an exact zero would be dropped.
		Temperature: math.SmallestNonzeroFloat32,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrMalformed)
	}
	return ParseCandidates(resp.Choices[0].Message.Content)
}

func (o *OpenAI) prompt(description string) string {
	list, _ := json.Marshal(o.names)
	var b strings.Builder
	b.WriteString("You are an expert ornithologist for birds found in Central Park, NYC.\n\n")
	fmt.Fprintf(&b, "A user described a bird as:\n%q\n\n", description)
	fmt.Fprintf(&b, "Choose ONLY from this list of birds:\n%s\n\n", list)
	b.WriteString("Select the 3 most likely birds and give each a confidence between 0 and 1. ")
	b.WriteString("Confidences do not need to sum to 1. Never invent names. ")
	b.WriteString("Reply with JSON only, no prose and no markdown, in this shape:\n")
	b.WriteString(`[{"bird": "Name from list", "confidence": 0.6}, {"bird": "Name from list", "confidence": 0.3}, {"bird": "Name from list", "confidence": 0.1}]`)
	return b.String()
}

// ParseCandidates decodes a JSON candidate list, tolerating a surrounding
// markdown code fence.
func ParseCandidates(content string) ([]Candidate, error) {
	body := stripFence(strings.TrimSpace(content))
	var out []Candidate
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return out, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:] // language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

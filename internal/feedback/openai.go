package feedback

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/mindmap"
)

// DefaultOpenAIModel is used when OPENAI_MODEL is unset.
const DefaultOpenAIModel = "gpt-4o-mini"

const systemPrompt = "You are a writing tutor reviewing a student's mind map and essay. " +
	"Give short, specific feedback on the most recent changes: structure, missing links, " +
	"and whether the essay reflects the map. Use at most five sentences."

// ChatCompleter is the subset of *openai.Client used here.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGenerator asks a chat completion model for feedback.
type OpenAIGenerator struct {
	client ChatCompleter
	model  string
}

// NewOpenAIGenerator wraps an existing client.
func NewOpenAIGenerator(client ChatCompleter, model string) *OpenAIGenerator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIGenerator{client: client, model: model}
}

// NewOpenAIGeneratorFromEnv builds a generator from OPENAI_API_KEY and
// OPENAI_MODEL. modelOverride wins over the environment when set.
func NewOpenAIGeneratorFromEnv(modelOverride string) (*OpenAIGenerator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	model := modelOverride
	if model == "" {
		model = os.Getenv("OPENAI_MODEL")
	}
	if model == "" {
		logging.Warn("OPENAI_MODEL not set, defaulting to %s", DefaultOpenAIModel)
	}

	return NewOpenAIGenerator(openai.NewClient(apiKey), model), nil
}

func (g *OpenAIGenerator) Name() string { return "openai:" + g.model }

// Generate sends the map, essay and change summary as one user message.
func (g *OpenAIGenerator) Generate(ctx context.Context, m *mindmap.Map, req Request) (string, error) {
	logging.Debug("Requesting feedback from OpenAI model %s for map %s", g.model, logging.FormatMapID(m.ID))

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(m, req)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// BuildPrompt renders the map and recent changes as plain text.
func BuildPrompt(m *mindmap.Map, req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Map: %s\n\nNodes:\n", m.Title)
	for _, n := range m.Nodes {
		fmt.Fprintf(&b, "- %s: %s\n", n.ID, n.Label)
	}
	b.WriteString("\nConnections:\n")
	for _, e := range m.Edges {
		fmt.Fprintf(&b, "- %s\n", e)
	}
	fmt.Fprintf(&b, "\nEssay:\n%s\n\nRecent changes:\n%s\n", m.Essay, req.Summary)
	return b.String()
}

package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3.2"

	// adviceTemperature keeps local models close to the counts they are given.
	adviceTemperature = 0.2
)

// OllamaClient talks to a local Ollama server through langchaingo.
type OllamaClient struct {
	backend *ollama.LLM
	model   string
	baseURL string
}

// NewOllamaClient creates an Ollama client. Empty model and baseURL fall
// back to the [llm] defaults.
func NewOllamaClient(model, baseURL string) (*OllamaClient, error) {
	if model == "" {
		model = defaultOllamaModel
	}
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	backend, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("creating ollama client for %s: %w", model, err)
	}
	return &OllamaClient{backend: backend, model: model, baseURL: baseURL}, nil
}

// Chat returns the model's free-text reply.
func (c *OllamaClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.generate(ctx, messages)
}

// ChatJSON asks for a JSON reply and decodes it into result.
func (c *OllamaClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.generate(ctx, messages, llms.WithJSONMode())
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

func (c *OllamaClient) generate(ctx context.Context, messages []Message, opts ...llms.CallOption) (string, error) {
	opts = append(opts, llms.WithModel(c.model), llms.WithTemperature(adviceTemperature))
	resp, err := c.backend.GenerateContent(ctx, langChainContent(messages), opts...)
	if err != nil {
		return "", fmt.Errorf("ollama %s at %s: %w", c.model, c.baseURL, err)
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return resp.Choices[0].Content, nil
}

var langChainRoles = map[string]llms.ChatMessageType{
	RoleSystem:    llms.ChatMessageTypeSystem,
	RoleUser:      llms.ChatMessageTypeHuman,
	RoleAssistant: llms.ChatMessageTypeAI,
}

func langChainContent(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		out[i] = llms.TextParts(langChainRoles[msg.normalizedRole()], msg.Content)
	}
	return out
}

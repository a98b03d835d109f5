package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultLMStudioBaseURL = "http://localhost:1234/v1"
	defaultOpenAIBaseURL   = "https://api.openai.com/v1"
)

// OpenAIClient implements the Client interface against any OpenAI-compatible
// chat completions endpoint. LM Studio serves the same API locally.
type OpenAIClient struct {
	client   openai.Client
	provider string
	model    string
	baseURL  string
}

// NewOpenAIClient creates a client for the OpenAI API. OPENAI_API_KEY must be set.
func NewOpenAIClient(model, baseURL string) (*OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return newOpenAICompatClient(ProviderOpenAI, model, baseURL, apiKey)
}

// NewLMStudioClient creates a client for LM Studio's local server.
func NewLMStudioClient(model, baseURL string) (*OpenAIClient, error) {
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}
	apiKey := os.Getenv("LMSTUDIO_API_KEY")
	if apiKey == "" {
		apiKey = "lm-studio"
	}
	return newOpenAICompatClient(ProviderLMStudio, model, baseURL, apiKey)
}

func newOpenAICompatClient(provider, model, baseURL, apiKey string) (*OpenAIClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%s model is required", provider)
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIClient{
		client:   client,
		provider: provider,
		model:    model,
		baseURL:  baseURL,
	}, nil
}

// Chat sends messages to the LLM and returns the response.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatJSON sends messages and parses the response as JSON into the provided type.
func (c *OpenAIClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.normalizedRole() {
		case RoleSystem:
			out[i] = openai.SystemMessage(msg.Content)
		case RoleAssistant:
			out[i] = openai.AssistantMessage(msg.Content)
		default:
			out[i] = openai.UserMessage(msg.Content)
		}
	}
	return out
}

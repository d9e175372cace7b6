package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gopenai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/reibun/reibunbot/internal/config"
)

const chatCompletionsPath = "/chat/completions"

// openAIClient talks to any OpenAI-compatible chat completions endpoint.
type openAIClient struct {
	client      *gopenai.Client
	baseURL     string
	model       string
	temperature *float32
	log         *slog.Logger
}

func newOpenAIClient(cfg config.AIConfig, log *slog.Logger) (*openAIClient, error) {
	token := strings.TrimSpace(strings.TrimPrefix(cfg.Token, "Bearer "))
	if token == "" {
		return nil, errors.New("AI token is required")
	}

	aiConfig := gopenai.DefaultConfig(token)
	if cfg.BaseURL != "" {
		aiConfig.BaseURL = BaseURL(cfg.BaseURL)
	}
	aiConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &openAIClient{
		client:      gopenai.NewClientWithConfig(aiConfig),
		baseURL:     aiConfig.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		log:         log,
	}, nil
}

// BaseURL accepts either an API base (https://host/v1) or a full chat
// completions endpoint and returns the base the SDK appends paths to.
func BaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	return strings.TrimSuffix(base, chatCompletionsPath)
}

func (c *openAIClient) Complete(ctx context.Context, req Request) (string, error) {
	startTime := time.Now()

	messages := make([]gopenai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, gopenai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	request := gopenai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		ResponseFormat: &gopenai.ChatCompletionResponseFormat{
			Type: gopenai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &gopenai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      openAISchema(req.Schema),
				Strict:      true,
			},
		},
	}
	if c.temperature != nil {
		request.Temperature = *c.temperature
	}

	c.log.DebugContext(ctx, "Sending chat completion request", "model", c.model, "message_count", len(messages))

	resp, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		var apiErr *gopenai.APIError
		if errors.As(err, &apiErr) {
			c.log.ErrorContext(ctx, "Chat completion rejected", "status", apiErr.HTTPStatusCode, "type", apiErr.Type, "error", apiErr.Message)
		}
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrEmptyResponse)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: finish reason %q", ErrEmptyResponse, resp.Choices[0].FinishReason)
	}

	c.log.DebugContext(ctx, "Chat completion received",
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"duration", time.Since(startTime))

	return content, nil
}

func openAISchema(s ObjectSchema) *jsonschema.Definition {
	def := &jsonschema.Definition{
		Type:                 jsonschema.Object,
		Properties:           make(map[string]jsonschema.Definition, len(s.Fields)),
		Required:             make([]string, 0, len(s.Fields)),
		AdditionalProperties: false,
	}
	for _, f := range s.Fields {
		def.Properties[f.Name] = jsonschema.Definition{
			Type:        jsonschema.String,
			Description: f.Description,
		}
		def.Required = append(def.Required, f.Name)
	}
	return def
}

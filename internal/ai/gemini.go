package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/reibun/reibunbot/internal/config"
)

type geminiClient struct {
	genaiClient *genai.Client
	model       string
	temperature *float32
	log         *slog.Logger
}

func newGeminiClient(ctx context.Context, cfg config.AIConfig, log *slog.Logger) (*geminiClient, error) {
	if cfg.Token == "" {
		return nil, errors.New("gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.Token,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" && cfg.BaseURL != config.DefaultAIBaseURL {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	gi, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiClient{
		genaiClient: gi,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		log:         log,
	}, nil
}

func (c *geminiClient) Complete(ctx context.Context, req Request) (string, error) {
	system, contents := geminiContents(req.Messages)

	genCfg := &genai.GenerateContentConfig{
		Temperature:      c.temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiSchema(req.Schema),
	}
	if system != "" {
		genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	c.log.DebugContext(ctx, "Sending Gemini request", "model", c.model, "content_count", len(contents))

	resp, err := c.genaiClient.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reason := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reason = resp.PromptFeedback.BlockReasonMessage
		}
		return "", fmt.Errorf("gemini request blocked: %s", reason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", ErrEmptyResponse)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned empty text", ErrEmptyResponse)
	}
	return text, nil
}

// geminiContents folds system messages into one system instruction and maps
// assistant turns to the model role.
func geminiContents(messages []Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))

	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	return strings.Join(system, "\n\n"), contents
}

func geminiSchema(s ObjectSchema) *genai.Schema {
	schema := &genai.Schema{
		Type:        genai.TypeObject,
		Description: s.Description,
		Properties:  make(map[string]*genai.Schema, len(s.Fields)),
	}
	for _, f := range s.Fields {
		schema.Properties[f.Name] = &genai.Schema{Type: genai.TypeString, Description: f.Description}
		schema.Required = append(schema.Required, f.Name)
	}
	return schema
}

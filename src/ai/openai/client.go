package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/truthlens/truthlens/src/ai/core"
)

func init() {
	core.RegisterProvider("openai", newClient, "gpt")
}

// Client wraps the go-openai chat completion API.
type Client struct {
	api   *goopenai.Client
	model string
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}

	model := cfg.Model
	if model == "" {
		model = goopenai.GPT4oMini
	}

	return &Client{
		api:   goopenai.NewClient(cfg.OpenAIKey),
		model: model,
	}, nil
}

// Generate sends a prompt as a single chat completion turn.
func (c *Client) Generate(ctx context.Context, prompt string, opts core.Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.model
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if opts.SystemPrompt != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: opts.SystemPrompt,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: prompt,
	})

	req := goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(opts.Temperature),
	}
	if opts.MaxCompletionTokens > 0 {
		req.MaxTokens = opts.MaxCompletionTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}

	return resp.Choices[0].Message.Content, nil
}

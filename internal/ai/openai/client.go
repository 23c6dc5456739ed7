package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/actnova/resume-referee/internal/ai"
	"github.com/actnova/resume-referee/internal/logger"
)

const defaultModel = "gpt-4o"

// chatCompleter is the narrow slice of the go-openai client used by Client.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Client implements ai.Generator on top of the OpenAI chat completions API.
type Client struct {
	api       chatCompleter
	model     string
	logger    *zap.Logger
	maxLogLen int
}

// NewClient creates a Client for the given API key and model.
func NewClient(apiKey, model string, maxLogLength int, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxLogLength <= 0 {
		maxLogLength = 200
	}

	return &Client{
		api:       goopenai.NewClient(apiKey),
		model:     model,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}, nil
}

// GenerateContent sends a system+user message pair and returns the first
// choice's text.
func (c *Client) GenerateContent(ctx context.Context, req ai.Request) (string, error) {
	if c == nil || c.api == nil {
		return "", errors.New("openai client is not initialized")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if system := strings.TrimSpace(req.System); system != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: prompt,
	})

	c.logger.Debug("openai chat completion request",
		zap.String("model", c.model),
		zap.Float64("temperature", float64(req.Temperature)),
		zap.Int("max_tokens", req.MaxOutputTokens),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, c.maxLogLen)),
	)

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai api returned no choices")
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", errors.New("openai api returned empty response")
	}

	c.logger.Debug("openai chat completion response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", logger.TruncateForLog(output, c.maxLogLen)),
	)

	return output, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

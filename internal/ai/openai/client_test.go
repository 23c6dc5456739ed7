package openai

import (
	"context"
	"errors"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/actnova/resume-referee/internal/ai"
)

type fakeCompleter struct {
	requests []goopenai.ChatCompletionRequest
	response goopenai.ChatCompletionResponse
	err      error
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	return f.response, f.err
}

func newTestClient(api chatCompleter) *Client {
	return &Client{api: api, model: "gpt-4o", logger: zap.NewNop(), maxLogLen: 200}
}

func TestGenerateContentMapsRequest(t *testing.T) {
	fake := &fakeCompleter{
		response: goopenai.ChatCompletionResponse{
			Choices: []goopenai.ChatCompletionChoice{
				{Message: goopenai.ChatCompletionMessage{Content: "  looks great  "}},
			},
		},
	}
	client := newTestClient(fake)

	output, err := client.GenerateContent(context.Background(), ai.Request{
		System:          "you are a reviewer",
		Prompt:          "review this",
		Temperature:     0.3,
		MaxOutputTokens: 2500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != "looks great" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(fake.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(fake.requests))
	}

	req := fake.requests[0]
	if req.Model != "gpt-4o" {
		t.Fatalf("unexpected model: %q", req.Model)
	}
	if req.Temperature != 0.3 {
		t.Fatalf("unexpected temperature: %v", req.Temperature)
	}
	if req.MaxTokens != 2500 {
		t.Fatalf("unexpected max tokens: %d", req.MaxTokens)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != goopenai.ChatMessageRoleSystem || req.Messages[0].Content != "you are a reviewer" {
		t.Fatalf("unexpected system message: %+v", req.Messages[0])
	}
	if req.Messages[1].Role != goopenai.ChatMessageRoleUser || req.Messages[1].Content != "review this" {
		t.Fatalf("unexpected user message: %+v", req.Messages[1])
	}
}

func TestGenerateContentOmitsEmptySystemMessage(t *testing.T) {
	fake := &fakeCompleter{
		response: goopenai.ChatCompletionResponse{
			Choices: []goopenai.ChatCompletionChoice{
				{Message: goopenai.ChatCompletionMessage{Content: "ok"}},
			},
		},
	}
	client := newTestClient(fake)

	if _, err := client.GenerateContent(context.Background(), ai.Request{Prompt: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.requests[0].Messages) != 1 {
		t.Fatalf("expected only the user message, got %d", len(fake.requests[0].Messages))
	}
	if fake.requests[0].Messages[0].Role != goopenai.ChatMessageRoleUser {
		t.Fatalf("unexpected role: %q", fake.requests[0].Messages[0].Role)
	}
}

func TestGenerateContentErrors(t *testing.T) {
	client := newTestClient(&fakeCompleter{err: errors.New("rate limited")})
	if _, err := client.GenerateContent(context.Background(), ai.Request{Prompt: "hi"}); err == nil {
		t.Fatal("expected error from remote failure")
	}

	client = newTestClient(&fakeCompleter{})
	if _, err := client.GenerateContent(context.Background(), ai.Request{Prompt: "hi"}); err == nil {
		t.Fatal("expected error for empty choices")
	}

	client = newTestClient(&fakeCompleter{
		response: goopenai.ChatCompletionResponse{
			Choices: []goopenai.ChatCompletionChoice{
				{Message: goopenai.ChatCompletionMessage{Content: "   "}},
			},
		},
	})
	if _, err := client.GenerateContent(context.Background(), ai.Request{Prompt: "hi"}); err == nil {
		t.Fatal("expected error for empty content")
	}

	client = newTestClient(&fakeCompleter{})
	if _, err := client.GenerateContent(context.Background(), ai.Request{Prompt: "   "}); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

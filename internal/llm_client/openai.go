package llm_client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type openaiProvider struct {
	client *openai.Client
	model  string
}

const (
	openaiDefault         = "gpt-4o"
	openaiMaxTokens       = 128000
	openaiMaxOutputTokens = 16384
)

func (p *openaiProvider) Init(cfg Config) error {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}
	p.client = openai.NewClient(apiKey)
	if strings.TrimSpace(cfg.Model) != "" {
		p.model = cfg.Model
	} else {
		p.model = openaiDefault
	}
	return nil
}

func (p *openaiProvider) DefaultModel() string { return openaiDefault }

func (p *openaiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.client == nil {
		return "", ErrNotInitialized
	}
	promptTokens := EstimateTokens(prompt)
	if promptTokens >= openaiMaxTokens {
		return "", ErrPromptTooLong
	}

	budget := openaiMaxTokens - promptTokens
	if budget > openaiMaxOutputTokens {
		budget = openaiMaxOutputTokens
	}

	stream, err := p.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: budget,
		Stream:    true,
	})
	if err != nil {
		return "", fmt.Errorf("openai stream: %w", err)
	}
	defer stream.Close()

	acc := newStreamAccumulator(budget)
	for {
		resp, rerr := stream.Recv()
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return "", fmt.Errorf("openai recv: %w", rerr)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if !acc.add(resp.Choices[0].Delta.Content) {
			break
		}
	}
	return acc.text(), nil
}

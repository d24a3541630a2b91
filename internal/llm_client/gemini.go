package llm_client

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

type geminiProvider struct {
	client *genai.Client
	model  string
}

const (
	geminiDefault   = "gemini-2.0-flash"
	geminiMaxTokens = 200000
)

func (p *geminiProvider) Init(cfg Config) error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}
	c, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("gemini client init: %w", err)
	}
	p.client = c
	if strings.TrimSpace(cfg.Model) != "" {
		p.model = cfg.Model
	} else {
		p.model = geminiDefault
	}
	return nil
}

func (p *geminiProvider) DefaultModel() string { return geminiDefault }

func (p *geminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.client == nil {
		return "", ErrNotInitialized
	}
	promptTokens := EstimateTokens(prompt)
	if promptTokens >= geminiMaxTokens {
		return "", ErrPromptTooLong
	}

	acc := newStreamAccumulator(geminiMaxTokens - promptTokens)
	for resp, err := range p.client.Models.GenerateContentStream(ctx, p.model, genai.Text(prompt), nil) {
		if err != nil {
			return "", fmt.Errorf("gemini generate: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		var chunk strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			chunk.WriteString(part.Text)
		}
		if !acc.add(chunk.String()) {
			break
		}
	}
	return acc.text(), nil
}

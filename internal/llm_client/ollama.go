package llm_client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

type ollamaProvider struct {
	client *api.Client
	model  string
}

const (
	ollamaDefault   = "mistral-nemo"
	ollamaMaxTokens = 128000
)

// errStopStream aborts the streaming callback once the accumulator is
// satisfied; it is not a real failure.
var errStopStream = errors.New("stop stream")

func (p *ollamaProvider) Init(cfg Config) error {
	c, err := api.ClientFromEnvironment()
	if err != nil {
		host := cfg.OllamaHost
		if host == "" {
			host = "http://localhost:11434"
		}
		u, uerr := url.Parse(host)
		if uerr != nil {
			return fmt.Errorf("ollama: bad host %q: %w", host, uerr)
		}
		c = api.NewClient(u, nil)
	}
	p.client = c
	if strings.TrimSpace(cfg.Model) != "" {
		p.model = cfg.Model
	} else {
		p.model = ollamaDefault
	}
	return nil
}

func (p *ollamaProvider) DefaultModel() string { return ollamaDefault }

func (p *ollamaProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.client == nil {
		return "", ErrNotInitialized
	}
	promptTokens := EstimateTokens(prompt)
	if promptTokens >= ollamaMaxTokens {
		return "", ErrPromptTooLong
	}

	acc := newStreamAccumulator(ollamaMaxTokens - promptTokens)
	stream := true
	req := &api.GenerateRequest{
		Model:  p.model,
		Prompt: prompt,
		Stream: &stream,
	}
	err := p.client.Generate(ctx, req, func(gr api.GenerateResponse) error {
		if !acc.add(gr.Response) {
			return errStopStream
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopStream) {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return acc.text(), nil
}

package llm_client

import (
	"context"
	"fmt"
	"strings"
)

type Config struct {
	Backend    string
	Model      string
	OllamaHost string
}

// Provider is the uniform boundary over the LLM backends. Generate
// blocks until the response is complete: adapters stream tokens
// internally, stop at the end-of-output marker and cap accumulated
// output against the backend's context budget.
type Provider interface {
	Init(cfg Config) error
	DefaultModel() string
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	active   Provider
	activeID string
)

// Init selects and initializes the backend. Credential problems surface
// here, once, at session start.
func Init(cfg Config) error {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = "ollama"
	}
	var p Provider
	switch backend {
	case "ollama":
		p = &ollamaProvider{}
	case "gemini":
		p = &geminiProvider{}
	case "openai":
		p = &openaiProvider{}
	default:
		return fmt.Errorf("unsupported LLM backend: %s", cfg.Backend)
	}
	if err := p.Init(cfg); err != nil {
		return err
	}
	active = p
	activeID = backend
	return nil
}

func ActiveBackend() string {
	if active == nil {
		return ""
	}
	return activeID
}

// Active returns the initialized provider, or nil before Init.
func Active() Provider {
	return active
}

func Generate(ctx context.Context, prompt string) (string, error) {
	if active == nil {
		return "", ErrNotInitialized
	}
	return active.Generate(ctx, prompt)
}

package config

// Config is the full application configuration, loaded from forge.yaml
// when present and filled with defaults otherwise.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Gates    GatesConfig    `yaml:"gates"`
	Loop     LoopConfig     `yaml:"loop"`
	LogFile  string         `yaml:"log_file"`
}

// ProviderConfig selects and tunes the LLM backend.
type ProviderConfig struct {
	// Backend: ollama, gemini or openai.
	Backend string `yaml:"backend"`
	Model   string `yaml:"model,omitempty"`
	// OllamaHost overrides OLLAMA_HOST for the ollama backend.
	OllamaHost string `yaml:"ollama_host,omitempty"`
}

// GatesConfig is the quality gate threshold policy. The source material
// for these numbers varied between revisions; this is the one canonical,
// overridable policy.
type GatesConfig struct {
	MinLintScore  float64 `yaml:"min_lint_score"`
	MaxComplexity int     `yaml:"max_complexity"`
	MinCoverage   int     `yaml:"min_coverage"`
}

type LoopConfig struct {
	// MaxAttempts bounds each improvement phase. Reaching it is a normal
	// terminal state, not an error.
	MaxAttempts int `yaml:"max_attempts"`
}

func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Backend: "ollama",
		},
		Gates: GatesConfig{
			MinLintScore:  7.0,
			MaxComplexity: 15,
			MinCoverage:   80,
		},
		Loop: LoopConfig{
			MaxAttempts: 3,
		},
		LogFile: "forge.log",
	}
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "forge.yaml"

// Load reads forge.yaml from the working directory (or the explicit path
// when given) on top of the defaults. A missing file is not an error; the
// config file is optional.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("could not read config file %s: %w", path, err)
	}

	// Allow ${VAR} references in the file, e.g. for the ollama host.
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Gates.MinLintScore < 0 || c.Gates.MinLintScore > 10 {
		return fmt.Errorf("gates.min_lint_score must be within [0,10], got %v", c.Gates.MinLintScore)
	}
	if c.Gates.MaxComplexity < 0 {
		return fmt.Errorf("gates.max_complexity must be >= 0, got %d", c.Gates.MaxComplexity)
	}
	if c.Gates.MinCoverage < 0 || c.Gates.MinCoverage > 100 {
		return fmt.Errorf("gates.min_coverage must be within [0,100], got %d", c.Gates.MinCoverage)
	}
	if c.Loop.MaxAttempts <= 0 {
		return fmt.Errorf("loop.max_attempts must be positive, got %d", c.Loop.MaxAttempts)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (REPOTRONIUM_*) and credentials
// (OPENAI_API_KEY, GITHUB_TOKEN).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: REPOTRONIUM_PORT -> port, etc.
	if err := k.Load(env.Provider("REPOTRONIUM_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "REPOTRONIUM_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Credentials are env-only and never persisted with the config file.
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")

	return cfg, nil
}

// Save writes the configuration to the given YAML file path. Credential
// fields are excluded by their yaml tags.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openai, ollama", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative")
	}

	if c.CloneTimeoutSecs <= 0 {
		return fmt.Errorf("clone_timeout_secs must be positive")
	}

	if c.MaxComplexityFiles < 0 {
		return fmt.Errorf("max_complexity_files must be non-negative")
	}

	if c.GitHubAPIBaseURL == "" {
		return fmt.Errorf("github_api_base_url is required")
	}

	return nil
}

package cmd

import (
	"fmt"
	"time"

	"github.com/cybrdelic/repotronium/internal/complexity"
	"github.com/cybrdelic/repotronium/internal/config"
	"github.com/cybrdelic/repotronium/internal/fetcher"
	"github.com/cybrdelic/repotronium/internal/github"
	"github.com/cybrdelic/repotronium/internal/insight"
	"github.com/cybrdelic/repotronium/internal/llm"
	"github.com/cybrdelic/repotronium/internal/pipeline"
	"github.com/cybrdelic/repotronium/internal/scanner"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `repotronium init` to create a config file", err)
	}
	return cfg, nil
}

// createGeneratorFromConfig creates an insight.Generator, or nil with an
// error when the configured provider cannot be constructed.
func createGeneratorFromConfig(cfg *config.Config) (*insight.Generator, error) {
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return insight.NewGenerator(provider, cfg.Model), nil
}

// createPipelineFromConfig wires the analysis pipeline from config. The
// generator may be nil when report generation is not wanted.
func createPipelineFromConfig(cfg *config.Config, generator *insight.Generator) *pipeline.Pipeline {
	f := fetcher.New(cfg.GitHubToken,
		fetcher.WithTimeout(time.Duration(cfg.CloneTimeoutSecs)*time.Second))

	gh := github.New(cfg.GitHubAPIBaseURL, cfg.GitHubToken)

	sc := scanner.New(
		scanner.WithConcurrency(cfg.MaxConcurrency),
		scanner.WithFilters(cfg.Include, cfg.Exclude),
	)

	return pipeline.New(f, gh, sc, complexity.NewKeywordHeuristic(), generator, cfg.MaxComplexityFiles)
}

package config

// DefaultExcludes are glob patterns excluded from analysis by default.
var DefaultExcludes = []string{
	"node_modules/**",
	"vendor/**",
	".git/**",
	"dist/**",
	"build/**",
	"*.min.js",
	"*.min.css",
	"*.lock",
	"go.sum",
	"package-lock.json",
	"yarn.lock",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:           ProviderOpenAI,
		Model:              "gpt-4o",
		Port:               8080,
		DataDir:            ".repotronium",
		MaxConcurrency:     8,
		CloneTimeoutSecs:   60,
		MaxComplexityFiles: 50,
		RequestsPerMinute:  0,
		Include:            []string{"**"},
		Exclude:            DefaultExcludes,
		GitHubAPIBaseURL:   "https://api.github.com",
	}
}

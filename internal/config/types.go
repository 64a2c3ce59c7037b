package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level repotronium configuration, corresponding to
// .repotronium.yml. Credentials are never written back to the file; they
// are overlaid from the environment on load.
type Config struct {
	Provider ProviderType `yaml:"provider" koanf:"provider"`
	Model    string       `yaml:"model" koanf:"model"`

	// OpenAIAPIKey and GitHubToken come from OPENAI_API_KEY and
	// GITHUB_TOKEN. They are held on the config object and passed into
	// constructors explicitly instead of being read from the process
	// environment at call time.
	OpenAIAPIKey string `yaml:"-" koanf:"-"`
	GitHubToken  string `yaml:"-" koanf:"-"`

	Port            int    `yaml:"port" koanf:"port"`
	DataDir         string `yaml:"data_dir" koanf:"data_dir"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`

	// MaxConcurrency bounds the scanner's per-file fan-out.
	MaxConcurrency int `yaml:"max_concurrency" koanf:"max_concurrency"`

	// CloneTimeoutSecs is the wall-clock ceiling for a git clone.
	CloneTimeoutSecs int `yaml:"clone_timeout_secs" koanf:"clone_timeout_secs"`

	// MaxComplexityFiles caps how many files the complexity scorer samples.
	MaxComplexityFiles int `yaml:"max_complexity_files" koanf:"max_complexity_files"`

	// RequestsPerMinute rate-limits LLM calls (0 disables the limiter).
	RequestsPerMinute int `yaml:"requests_per_minute" koanf:"requests_per_minute"`

	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`

	GitHubAPIBaseURL string `yaml:"github_api_base_url" koanf:"github_api_base_url"`
}

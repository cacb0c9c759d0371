package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredential is returned when the API credential for the configured
// provider is absent. It is fatal at startup.
var ErrMissingCredential = errors.New("missing api credential")

// Provider is the language model provider backing the agents.
type Provider = string

const (
	OpenAI    Provider = "openai"
	Anthropic Provider = "anthropic"
	Cohere    Provider = "cohere"
)

// Search backends for the web research step.
const (
	GeminiBackend  = "gemini"
	SearxngBackend = "searxng"
)

// SearchConfig configures the web research backend.
type SearchConfig struct {
	// Backend selects how queries are researched.
	Backend string `yaml:"backend" validate:"oneof=gemini searxng"`
	// GeminiModel is the model used for grounded search on the gemini backend.
	GeminiModel string `yaml:"gemini_model"`
	// SearxngURL is the base URL of the SearxNG instance.
	SearxngURL string `yaml:"searxng_url" validate:"omitempty,url"`
	// MaxResults caps the search results kept per query on the searxng backend.
	MaxResults int `yaml:"max_results" validate:"gte=0"`
	// FetchPages is how many top result pages to download per query.
	FetchPages int `yaml:"fetch_pages" validate:"gte=0"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr" validate:"required"`
}

// Config holds the runtime parameters of the research agent. Values are
// layered: built-in defaults, then the optional YAML file, then environment
// variables.
type Config struct {
	// Provider is the language model provider for the agents.
	Provider Provider `yaml:"provider" validate:"required,oneof=openai anthropic cohere"`
	// Model is the model used for query formulation, reflection and synthesis.
	Model string `yaml:"model" validate:"required"`
	// Temperature for agent completions.
	Temperature float32 `yaml:"temperature" validate:"gte=0,lte=2"`
	// MaxTokens caps completion length, zero for the provider default.
	MaxTokens int `yaml:"max_tokens" validate:"gte=0"`
	// InitialQueries is the number of search queries generated per turn.
	InitialQueries int `yaml:"initial_queries" validate:"gte=1"`
	// MaxResearchLoops bounds the research loop per turn.
	MaxResearchLoops int `yaml:"max_research_loops" validate:"gte=1"`
	// MaxRetries is the per-call retry budget for model and search calls.
	MaxRetries int `yaml:"max_retries" validate:"gte=0"`
	// Search configures the web research backend.
	Search SearchConfig `yaml:"search"`
	// Server configures the HTTP surface.
	Server ServerConfig `yaml:"server"`

	apiKey       string
	geminiAPIKey string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider:         OpenAI,
		Model:            "gpt-4o-mini",
		Temperature:      0.5,
		InitialQueries:   3,
		MaxResearchLoops: 2,
		MaxRetries:       2,
		Search: SearchConfig{
			Backend:     GeminiBackend,
			GeminiModel: "gemini-2.0-flash",
			MaxResults:  5,
			FetchPages:  0,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and environment variables, then validates it. A missing credential
// for the selected provider or search backend is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		bs, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(bs, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Provider, "RESEARCH_PROVIDER")
	setString(&c.Model, "RESEARCH_MODEL")
	setInt(&c.InitialQueries, "RESEARCH_INITIAL_QUERIES")
	setInt(&c.MaxResearchLoops, "RESEARCH_MAX_LOOPS")
	setInt(&c.MaxRetries, "RESEARCH_MAX_RETRIES")
	setString(&c.Search.Backend, "RESEARCH_SEARCH_BACKEND")
	setString(&c.Search.SearxngURL, "SEARXNG_URL")
	setString(&c.Server.Addr, "RESEARCH_ADDR")
	c.apiKey = os.Getenv(CredentialEnv(c.Provider))
	c.geminiAPIKey = os.Getenv("GEMINI_API_KEY")
}

// Validate checks field constraints and credential presence.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.apiKey == "" {
		return fmt.Errorf("%w: %s", ErrMissingCredential, CredentialEnv(c.Provider))
	}
	switch c.Search.Backend {
	case GeminiBackend:
		if c.geminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingCredential)
		}
	case SearxngBackend:
		if c.Search.SearxngURL == "" {
			return errors.New("invalid configuration: search.searxng_url is required for the searxng backend")
		}
	}
	return nil
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey() string {
	return c.apiKey
}

// GeminiAPIKey returns the credential for grounded search.
func (c *Config) GeminiAPIKey() string {
	return c.geminiAPIKey
}

// CredentialEnv returns the environment variable carrying the credential for
// the given provider.
func CredentialEnv(provider Provider) string {
	switch provider {
	case Anthropic:
		return "ANTHROPIC_API_KEY"
	case Cohere:
		return "COHERE_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// defaultModels is the model used when model.name is not set.
var defaultModels = map[string]string{
	ProviderGemini: "gemini-2.5-pro",
	ProviderOpenAI: "gpt-4o-mini",
}

// ErrMissingAPIKey is returned by Validate when the key for the selected provider is not set.
var ErrMissingAPIKey = errors.New("api key is not set")

// ChatboatConfig holds the configuration for the application.
type ChatboatConfig struct {
	Model   ModelConfig   `mapstructure:"model" yaml:"model"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Tracing TracingConfig `mapstructure:"tracing" yaml:"tracing"`

	GeminiAPIKey    string `mapstructure:"gemini_api_key" yaml:"-"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key" yaml:"-"`
	LangSmithAPIKey string `mapstructure:"langsmith_api_key" yaml:"-"`
}

type ModelConfig struct {
	Provider    string        `mapstructure:"provider" yaml:"provider"` // gemini or openai
	Name        string        `mapstructure:"name" yaml:"name"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxRetries  int           `mapstructure:"max_retries" yaml:"max_retries"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url,omitempty"` // OpenAI-compatible gateways only
}

type ServerConfig struct {
	Addr       string  `mapstructure:"addr" yaml:"addr"`
	Stylesheet string  `mapstructure:"stylesheet" yaml:"stylesheet"`
	RateLimit  float64 `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second per session
	RateBurst  int     `mapstructure:"rate_burst" yaml:"rate_burst"`
}

type SessionConfig struct {
	IdleTTL time.Duration `mapstructure:"idle_ttl" yaml:"idle_ttl"`
}

type TracingConfig struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Project  string `mapstructure:"project" yaml:"project"`
}

// APIKey returns the key of the selected provider.
func (c ChatboatConfig) APIKey() string {
	if c.Model.Provider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// TracingEnabled reports whether runs should be sent to LangSmith.
func (c ChatboatConfig) TracingEnabled() bool {
	return c.LangSmithAPIKey != ""
}

// Validate checks that the application can start.
func (c ChatboatConfig) Validate() error {
	switch c.Model.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY: %w", ErrMissingAPIKey)
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY: %w", ErrMissingAPIKey)
		}
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}
	if c.Model.MaxRetries < 0 {
		return fmt.Errorf("model.max_retries must not be negative, got %d", c.Model.MaxRetries)
	}
	return nil
}

// cfg holds the loaded configuration.
var cfg ChatboatConfig

func defaultConfig() ChatboatConfig {
	return ChatboatConfig{
		Model: ModelConfig{
			Provider:    ProviderGemini,
			Name:        defaultModels[ProviderGemini],
			Temperature: 1.0,
			MaxRetries:  2,
			Timeout:     120 * time.Second,
		},
		Server: ServerConfig{
			Addr:       ":8501",
			Stylesheet: "style.css",
			RateLimit:  1,
			RateBurst:  3,
		},
		Session: SessionConfig{
			IdleTTL: 2 * time.Hour,
		},
		Tracing: TracingConfig{
			Endpoint: "https://api.smith.langchain.com",
			Project:  "default",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig()
	v.SetDefault("model.provider", d.Model.Provider)
	v.SetDefault("model.temperature", d.Model.Temperature)
	v.SetDefault("model.max_retries", d.Model.MaxRetries)
	v.SetDefault("model.timeout", d.Model.Timeout)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.stylesheet", d.Server.Stylesheet)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.rate_burst", d.Server.RateBurst)
	v.SetDefault("session.idle_ttl", d.Session.IdleTTL)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.project", d.Tracing.Project)
}

// InitConfig initializes the configuration using Viper.
// reader may be nil when there is no config file.
func InitConfig(reader io.Reader) error {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	// Bind environment variables
	envs := map[string]string{
		"gemini_api_key":    "GEMINI_API_KEY",
		"openai_api_key":    "OPENAI_API_KEY",
		"langsmith_api_key": "LANGSMITH_API_KEY",
		"tracing.project":   "LANGSMITH_PROJECT",
	}
	for key, env := range envs {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind environment variable %s: %w", env, err)
		}
	}

	if reader != nil {
		if err := v.ReadConfig(reader); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var loaded ChatboatConfig
	if err := v.Unmarshal(&loaded); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if loaded.Model.Name == "" {
		loaded.Model.Name = defaultModels[loaded.Model.Provider]
	}
	cfg = loaded
	log.Printf("[config] provider=%s model=%s tracing=%v", cfg.Model.Provider, cfg.Model.Name, cfg.TracingEnabled())
	return nil
}

// GetConfig returns the loaded configuration.
func GetConfig() ChatboatConfig {
	return cfg
}

// CreateDefaultConfigFile writes the default configuration as YAML. API keys are left to the environment.
func CreateDefaultConfigFile(w io.Writer) error {
	out, err := yaml.Marshal(defaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"overviewly/internal/core"
)

// Config is an immutable snapshot of application configuration. It is
// loaded once per invocation and passed explicitly into the generator and
// schema deriver rather than read ad hoc from global state.
type Config struct {
	App     App     `mapstructure:"app"`
	AI      AI      `mapstructure:"ai"`
	Content Content `mapstructure:"content"`
	Schema  Schema  `mapstructure:"schema"`
	Site    Site    `mapstructure:"site"`
	Store   Store   `mapstructure:"store"`
	Server  Server  `mapstructure:"server"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
}

// AI holds LLM provider configuration
type AI struct {
	Provider        string       `mapstructure:"provider"`
	Gemini          GeminiConfig `mapstructure:"gemini"`
	OpenAI          OpenAIConfig `mapstructure:"openai"`
	GenerateTimeout string       `mapstructure:"generate_timeout"`
	TestTimeout     string       `mapstructure:"test_timeout"`
	Temperature     float32      `mapstructure:"temperature"`
	MaxTokens       int32        `mapstructure:"max_tokens"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	TestModel string `mapstructure:"test_model"`
	BaseURL   string `mapstructure:"base_url"`
}

// Content holds defaults applied to generated articles
type Content struct {
	PostStatus  string `mapstructure:"post_status"`
	ContentType string `mapstructure:"content_type"`
	Category    string `mapstructure:"category"`
	AuthorName  string `mapstructure:"author_name"`
}

// Schema holds structured-data configuration
type Schema struct {
	Kinds []string `mapstructure:"kinds"`
}

// Site holds site identity used in derived schema objects
type Site struct {
	Name    string `mapstructure:"name"`
	URL     string `mapstructure:"url"`
	IconURL string `mapstructure:"icon_url"`
	LogoURL string `mapstructure:"logo_url"`
}

// Store holds document store configuration
type Store struct {
	Directory string `mapstructure:"directory"`
}

// Server holds HTTP server configuration
type Server struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	CORSEnabled    bool     `mapstructure:"cors_enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load loads the configuration from the config file, environment and
// defaults. A .env file in the working directory is honored if present.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".overviewly")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.App.DataDir != "" {
		config.App.DataDir = expandPath(config.App.DataDir)
	}
	if config.Store.Directory == "" {
		config.Store.Directory = config.App.DataDir
	} else {
		config.Store.Directory = expandPath(config.Store.Directory)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaults sets default configuration values. The content and schema
// defaults match the options the original settings surface seeds on
// activation: draft status, FAQ content, FAQ schema only.
func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".overviewly")

	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.model", "gemini-2.0-flash-exp")
	viper.SetDefault("ai.openai.model", "gpt-4")
	viper.SetDefault("ai.openai.test_model", "gpt-3.5-turbo")
	viper.SetDefault("ai.openai.base_url", "")
	viper.SetDefault("ai.generate_timeout", "120s")
	viper.SetDefault("ai.test_timeout", "15s")
	viper.SetDefault("ai.temperature", 0.7)
	viper.SetDefault("ai.max_tokens", 8000)

	viper.SetDefault("content.post_status", "draft")
	viper.SetDefault("content.content_type", "faq")
	viper.SetDefault("content.category", "Uncategorized")
	viper.SetDefault("content.author_name", "")

	viper.SetDefault("schema.kinds", []string{"faq"})

	viper.SetDefault("site.name", "Overviewly")
	viper.SetDefault("site.url", "http://localhost:8080")
	viper.SetDefault("site.icon_url", "")
	viper.SetDefault("site.logo_url", "")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.cors_enabled", false)
	viper.SetDefault("server.allowed_origins", []string{"*"})
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys("ai.openai.api_key", []string{
		"OPENAI_API_KEY",
	})

	bindEnvKeys("ai.provider", []string{
		"OVERVIEWLY_PROVIDER",
		"AI_PROVIDER",
	})

	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"OVERVIEWLY_DEBUG",
	})

	bindEnvKeys("site.url", []string{
		"OVERVIEWLY_SITE_URL",
		"SITE_URL",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// validateConfig ensures the configuration is internally consistent.
// API keys are deliberately not required here: key resolution happens at
// call time and can be satisfied by a per-call override.
func validateConfig(config *Config) error {
	var errors []string

	switch core.ProviderID(config.AI.Provider) {
	case core.ProviderGemini, core.ProviderOpenAI:
	default:
		errors = append(errors, fmt.Sprintf("unknown AI provider: %s. Supported: gemini, openai", config.AI.Provider))
	}

	durations := map[string]string{
		"ai.generate_timeout": config.AI.GenerateTimeout,
		"ai.test_timeout":     config.AI.TestTimeout,
	}
	for key, duration := range durations {
		if duration != "" {
			if _, err := time.ParseDuration(duration); err != nil {
				errors = append(errors, fmt.Sprintf("invalid duration for %s: %s", key, duration))
			}
		}
	}

	for _, kind := range config.Schema.Kinds {
		switch core.SchemaKind(kind) {
		case core.SchemaKindFAQ, core.SchemaKindHowTo, core.SchemaKindArticle, core.SchemaKindBreadcrumb:
		default:
			errors = append(errors, fmt.Sprintf("unknown schema kind: %s. Supported: faq, howto, article, breadcrumb", kind))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Provider returns the configured provider as a typed ID.
func (c *Config) Provider() core.ProviderID {
	return core.ProviderID(c.AI.Provider)
}

// APIKeyFor returns the stored API key for a provider, or empty.
func (c *Config) APIKeyFor(provider core.ProviderID) string {
	switch provider {
	case core.ProviderGemini:
		return c.AI.Gemini.APIKey
	case core.ProviderOpenAI:
		return c.AI.OpenAI.APIKey
	}
	return ""
}

// GenerateTimeout returns the generation call timeout as a duration.
func (c *Config) GenerateTimeout() time.Duration {
	return parseDurationOr(c.AI.GenerateTimeout, 120*time.Second)
}

// TestTimeout returns the connectivity test timeout as a duration.
func (c *Config) TestTimeout() time.Duration {
	return parseDurationOr(c.AI.TestTimeout, 15*time.Second)
}

// SchemaKinds returns the enabled schema kinds as typed values.
func (c *Config) SchemaKinds() []core.SchemaKind {
	kinds := make([]core.SchemaKind, 0, len(c.Schema.Kinds))
	for _, k := range c.Schema.Kinds {
		kinds = append(kinds, core.SchemaKind(k))
	}
	return kinds
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// Reset clears viper state (useful for testing)
func Reset() {
	viper.Reset()
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Mock    MockConfig    `mapstructure:"mock"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Env          string        `mapstructure:"env"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CheckUpdates bool          `mapstructure:"check_updates"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MockConfig holds the placeholder credentials used when a request carries none.
type MockConfig struct {
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
}

type AuthConfig struct {
	// RequireKey rejects requests without an API key header. The value is never verified.
	RequireKey bool `mapstructure:"require_key"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
	Path      string `mapstructure:"path"`
}

// IsProduction reports whether the server runs with env=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.check_updates", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("mock.openai_api_key", "sk-key")
	v.SetDefault("mock.anthropic_api_key", "cl-key")

	v.SetDefault("auth.require_key", false)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "llm-mock-api")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "llm")
	v.SetDefault("metrics.subsystem", "mock")
	v.SetDefault("metrics.path", "/metrics")
}

// LoadConfig reads configuration from file or environment variables.
// CONFIG_FILE points at an explicit file, otherwise config.yaml is searched
// in the usual locations.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("./internal/config")
	}

	setDefaults(v)

	// SERVER_PORT overrides server.port and so on.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		cfg.Metrics.Path = "/" + cfg.Metrics.Path
	}

	return &cfg, nil
}

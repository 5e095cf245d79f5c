// Package config loads application configuration from an optional config
// file and environment variables, with sane defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration. It is constructed once in main
// and passed explicitly to the components that need it.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Log      LogConfig      `mapstructure:"log"`
	Images   ImagesConfig   `mapstructure:"images"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string   `mapstructure:"address"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LLMConfig selects and configures the completion provider.
type LLMConfig struct {
	Provider string        `mapstructure:"provider"` // "openrouter" or "gemini"
	APIURL   string        `mapstructure:"api_url"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// ImagesConfig holds recipe picture storage settings.
type ImagesConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from config.yaml (if present) and RECIPESHARE_*
// environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RECIPESHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine: defaults + env carry the load.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("database.url", "postgres://localhost:5432/recipeshare?sslmode=disable")
	v.SetDefault("llm.provider", "openrouter")
	v.SetDefault("llm.api_url", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("llm.model", "deepseek/deepseek-r1:free")
	v.SetDefault("llm.timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("images.dir", "images")
}

// Package config provides configuration loading and validation for the
// tianqibot application. Values come from defaults, an optional config.yaml,
// and BOT_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration parameters for all components
// of the bot: logging, HTTP server, LINE messaging, Gemini AI integration,
// CWA weather provider access, and conversation history storage.
type Config struct {
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogJSON  bool   `mapstructure:"log_json"`

	ListenAddr string `mapstructure:"listen_addr" validate:"required"`

	LineChannelToken  string `mapstructure:"line_channel_token"  validate:"required"`
	LineChannelSecret string `mapstructure:"line_channel_secret" validate:"required"`

	GeminiAPIKey          string        `mapstructure:"gemini_api_key"           validate:"required"`
	GeminiBaseURL         string        `mapstructure:"gemini_base_url"          validate:"omitempty,url"`
	GeminiModel           string        `mapstructure:"gemini_model"             validate:"required"`
	GeminiTemperature     float32       `mapstructure:"gemini_temperature"       validate:"min=0,max=2"`
	GeminiMaxOutputTokens int32         `mapstructure:"gemini_max_output_tokens" validate:"min=1"`
	GeminiTimeout         time.Duration `mapstructure:"gemini_timeout"           validate:"min=1s,max=10m"`

	CWAAPIKey  string        `mapstructure:"cwa_api_key"  validate:"required"`
	CWABaseURL string        `mapstructure:"cwa_base_url" validate:"url"`
	CWATimeout time.Duration `mapstructure:"cwa_timeout"  validate:"min=1s,max=10m"`

	HistoryBackend string `mapstructure:"history_backend" validate:"oneof=file sqlite"`
	HistoryPath    string `mapstructure:"history_path"    validate:"required"`
	DBPath         string `mapstructure:"db_path"         validate:"required"`

	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// SchedulerConfig holds the configuration for scheduled maintenance tasks,
// keyed by task name as registered in the task registry.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a single scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// Load loads and validates configuration from:
// 1. Default values
// 2. The config file at configPath (optional)
// 3. BOT_* environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow a missing config file; environment variables and defaults
	// are enough to run.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)

	v.SetDefault("listen_addr", ":8080")

	// Secrets have no usable defaults; empty values fail validation.
	v.SetDefault("line_channel_token", "")
	v.SetDefault("line_channel_secret", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("cwa_api_key", "")

	// Empty base URL means the SDK's default endpoint.
	v.SetDefault("gemini_base_url", "")
	v.SetDefault("gemini_model", "gemini-1.5-flash")
	v.SetDefault("gemini_temperature", 0.7)
	v.SetDefault("gemini_max_output_tokens", 200)
	v.SetDefault("gemini_timeout", 10*time.Second)

	v.SetDefault("cwa_base_url", "https://opendata.cwa.gov.tw/api")
	v.SetDefault("cwa_timeout", 10*time.Second)

	v.SetDefault("history_backend", "file")
	v.SetDefault("history_path", "chat_history.json")
	v.SetDefault("db_path", "history.db")

	v.SetDefault("scheduler.tasks.history_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.history_maintenance.schedule", "0 0 4 * * *")
}

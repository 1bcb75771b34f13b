package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setRequiredEnv sets the secrets that have no defaults. Tests using it
// cannot run in parallel because environment variables are process-wide.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_LINE_CHANNEL_TOKEN", "token")
	t.Setenv("BOT_LINE_CHANNEL_SECRET", "secret")
	t.Setenv("BOT_GEMINI_API_KEY", "gemini-key")
	t.Setenv("BOT_CWA_API_KEY", "cwa-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.GeminiModel != "gemini-1.5-flash" {
		t.Errorf("GeminiModel = %q, want gemini-1.5-flash", cfg.GeminiModel)
	}
	if cfg.GeminiTemperature != 0.7 {
		t.Errorf("GeminiTemperature = %v, want 0.7", cfg.GeminiTemperature)
	}
	if cfg.GeminiMaxOutputTokens != 200 {
		t.Errorf("GeminiMaxOutputTokens = %d, want 200", cfg.GeminiMaxOutputTokens)
	}
	if cfg.CWABaseURL != "https://opendata.cwa.gov.tw/api" {
		t.Errorf("CWABaseURL = %q", cfg.CWABaseURL)
	}
	if cfg.CWATimeout != 10*time.Second {
		t.Errorf("CWATimeout = %v, want 10s", cfg.CWATimeout)
	}
	if cfg.HistoryBackend != "file" {
		t.Errorf("HistoryBackend = %q, want file", cfg.HistoryBackend)
	}
	if cfg.HistoryPath != "chat_history.json" {
		t.Errorf("HistoryPath = %q, want chat_history.json", cfg.HistoryPath)
	}

	task, ok := cfg.Scheduler.Tasks["history_maintenance"]
	if !ok {
		t.Fatal("default scheduler tasks missing history_maintenance")
	}
	if !task.Enabled {
		t.Error("history_maintenance default should be enabled")
	}
	if task.Schedule == "" {
		t.Error("history_maintenance default schedule is empty")
	}
}

func TestLoadMissingSecrets(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{name: "missing line token", omit: "BOT_LINE_CHANNEL_TOKEN"},
		{name: "missing line secret", omit: "BOT_LINE_CHANNEL_SECRET"},
		{name: "missing gemini key", omit: "BOT_GEMINI_API_KEY"},
		{name: "missing cwa key", omit: "BOT_CWA_API_KEY"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.omit, "")

			if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
				t.Error("Load succeeded without a required secret")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	setRequiredEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `log_level: debug
listen_addr: ":9000"
gemini_model: gemini-2.0-flash
history_backend: sqlite
scheduler:
  tasks:
    history_maintenance:
      enabled: false
      schedule: "0 0 3 * * *"
`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want :9000", cfg.ListenAddr)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("GeminiModel = %q, want gemini-2.0-flash", cfg.GeminiModel)
	}
	if cfg.HistoryBackend != "sqlite" {
		t.Errorf("HistoryBackend = %q, want sqlite", cfg.HistoryBackend)
	}
	if cfg.Scheduler.Tasks["history_maintenance"].Enabled {
		t.Error("file should have disabled history_maintenance")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOT_LOG_LEVEL", "warn")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("log_level: debug\n"), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want env override warn", cfg.LogLevel)
	}
}

func TestLoadValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		content string
	}{
		{
			name:    "bad log level",
			content: "log_level: loud\n",
		},
		{
			name:    "bad history backend",
			content: "history_backend: redis\n",
		},
		{
			name:    "bad base url",
			content: "cwa_base_url: not-a-url\n",
		},
		{
			name:    "temperature out of range",
			content: "gemini_temperature: 5.0\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)

			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tc.content), 0o600); err != nil {
				t.Fatalf("writing config file: %v", err)
			}

			if _, err := Load(configPath); err == nil {
				t.Error("Load succeeded with invalid configuration")
			}
		})
	}
}

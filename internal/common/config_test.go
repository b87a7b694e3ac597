package common

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Server.Addr != ":5001" {
		t.Errorf("Addr = %q, want :5001", cfg.Server.Addr)
	}
	if cfg.AI.Service != "ollama" {
		t.Errorf("AI.Service = %q, want ollama", cfg.AI.Service)
	}
	if cfg.AI.Timeout != 120*time.Second {
		t.Errorf("AI.Timeout = %v, want 120s", cfg.AI.Timeout)
	}
	if cfg.Uploads.MaxFileSize != 10<<20 {
		t.Errorf("MaxFileSize = %d, want 10MiB", cfg.Uploads.MaxFileSize)
	}
	if cfg.JWT.ExpiresIn != 7*24*time.Hour {
		t.Errorf("ExpiresIn = %v, want 168h", cfg.JWT.ExpiresIn)
	}
	if cfg.Worker.Workers != 4 || cfg.Worker.QueueSize != 256 {
		t.Errorf("Worker = %+v", cfg.Worker)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("AI_SERVICE", "huggingface")
	t.Setenv("AI_TIMEOUT", "30s")
	t.Setenv("WORKERS", "2")
	t.Setenv("MAX_FILE_SIZE", "1048576")

	cfg := LoadConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.AI.Service != "huggingface" {
		t.Errorf("AI.Service = %q", cfg.AI.Service)
	}
	if cfg.AI.Timeout != 30*time.Second {
		t.Errorf("AI.Timeout = %v", cfg.AI.Timeout)
	}
	if cfg.Worker.Workers != 2 {
		t.Errorf("Workers = %d", cfg.Worker.Workers)
	}
	if cfg.Uploads.MaxFileSize != 1<<20 {
		t.Errorf("MaxFileSize = %d", cfg.Uploads.MaxFileSize)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{DSN: "postgres://localhost/budgetwise"},
			JWT:      JWTConfig{Secret: "secret"},
			AI:       AIConfig{Service: "ollama", BaseURL: "http://localhost:11434"},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }},
		{"missing jwt secret", func(c *Config) { c.JWT.Secret = "" }},
		{"bad ai service", func(c *Config) { c.AI.Service = "openai" }},
		{"missing ai base url", func(c *Config) { c.AI.BaseURL = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("want validation error")
			}
		})
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("READ_TIMEOUT", "10s")
	t.Setenv("WRITE_TIMEOUT", "20s")
	t.Setenv("IDLE_TIMEOUT", "30s")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MODEL_NAME", "gpt-4o-mini")
	t.Setenv("OPENAI_TIMEOUT", "2m")
	t.Setenv("WORKER_POOL_SIZE", "8")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Errorf("expected 9090, got %s", cfg.ServerPort)
	}
	if cfg.ReadTimeout != 10*time.Second {
		t.Errorf("expected 10s, got %s", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout != 20*time.Second {
		t.Errorf("expected 20s, got %s", cfg.WriteTimeout)
	}
	if cfg.IdleTimeout != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.IdleTimeout)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("expected sk-test, got %s", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("expected gpt-4o-mini, got %s", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.Timeout != 2*time.Minute {
		t.Errorf("expected 2m, got %s", cfg.OpenAI.Timeout)
	}
	if cfg.Workers != 8 {
		t.Errorf("expected 8, got %d", cfg.Workers)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MODEL_NAME", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPEN_API_KEY", "sk-legacy")
	t.Setenv("WORKER_POOL_SIZE", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.OpenAI.Model != "gpt-5" {
		t.Errorf("expected gpt-5, got %s", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.APIKey != "sk-legacy" {
		t.Errorf("expected the OPEN_API_KEY fallback, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.Workers != 40 {
		t.Errorf("expected 40, got %d", cfg.Workers)
	}
	if cfg.Transcript.BaseURL != "https://www.youtube.com" {
		t.Errorf("unexpected transcript base URL %s", cfg.Transcript.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ServerPort:      "8080",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			IdleTimeout:     time.Second,
			ShutdownTimeout: time.Second,
			OpenAI:          OpenAIConfig{Model: "gpt-5", Timeout: time.Second},
			Transcript:      TranscriptConfig{BaseURL: "https://www.youtube.com", Timeout: time.Second},
			Workers:         1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.ServerPort = "" }, true},
		{"zero read timeout", func(c *Config) { c.ReadTimeout = 0 }, true},
		{"missing model", func(c *Config) { c.OpenAI.Model = "" }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"missing transcript base url", func(c *Config) { c.Transcript.BaseURL = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

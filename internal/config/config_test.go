package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			App:      AppConfig{PageSize: 20, ScrollThreshold: 0.8},
			Upstream: UpstreamConfig{BaseURL: "http://localhost:9000/api", Timeout: time.Second},
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero page size", mutate: func(c *Config) { c.App.PageSize = 0 }, errContains: "app.pageSize"},
		{name: "threshold above one", mutate: func(c *Config) { c.App.ScrollThreshold = 1.5 }, errContains: "app.scrollThreshold"},
		{name: "negative threshold", mutate: func(c *Config) { c.App.ScrollThreshold = -0.1 }, errContains: "app.scrollThreshold"},
		{name: "missing upstream", mutate: func(c *Config) { c.Upstream.BaseURL = "" }, errContains: "upstream.baseURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errContains == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.errContains)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.App.ScrollThreshold != 0.8 {
		t.Errorf("App.ScrollThreshold = %v, want 0.8", cfg.App.ScrollThreshold)
	}
	if cfg.Upstream.Timeout != 10*time.Second {
		t.Errorf("Upstream.Timeout = %v, want 10s", cfg.Upstream.Timeout)
	}
	if got := cfg.GetServerAddr(); got != ":8080" {
		t.Errorf("GetServerAddr() = %q, want %q", got, ":8080")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LISTINGS_SERVER_PORT", "9191")
	t.Setenv("LISTINGS_UPSTREAM_BASEURL", "https://profiles.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("Server.Port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.Upstream.BaseURL != "https://profiles.example.com" {
		t.Errorf("Upstream.BaseURL = %q", cfg.Upstream.BaseURL)
	}
}

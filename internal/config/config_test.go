package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Backend != "google" {
		t.Errorf("expected google backend, got %q", cfg.Backend)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.Timeout)
	}
	if cfg.Cache.Enabled {
		t.Error("expected cache disabled by default")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("TRANSTASK_BACKEND", "MyMemory")
	t.Setenv("TRANSTASK_TIMEOUT", "5s")
	t.Setenv("TRANSTASK_MYMEMORY_EMAIL", "me@example.com")
	t.Setenv("TRANSTASK_CACHE_ENABLED", "true")

	cfg, err := Load(newViper(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Backend != "mymemory" {
		t.Errorf("expected mymemory backend, got %q", cfg.Backend)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.Timeout)
	}
	if !cfg.Cache.Enabled {
		t.Error("expected cache enabled from env")
	}
	if sc := cfg.ServiceConfig(); sc.Email != "me@example.com" {
		t.Errorf("expected email in service config, got %+v", sc)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transtask.yaml")
	content := `backend: ollama
timeout: 2m
ollama:
  url: http://ollama:11434
  model: gemma2:2b
log:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	v := newViper(t)
	if err := ReadFile(v, path); err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	sc := cfg.ServiceConfig()
	if sc.BaseURL != "http://ollama:11434" || sc.Model != "gemma2:2b" {
		t.Errorf("unexpected ollama service config: %+v", sc)
	}
	if sc.Timeout != 2*time.Minute {
		t.Errorf("expected 2m timeout, got %s", sc.Timeout)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected json log format, got %q", cfg.Log.Format)
	}
}

func TestReadFile_MissingExplicitFile(t *testing.T) {
	v := newViper(t)
	if err := ReadFile(v, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Backend: "google",
		Timeout: time.Second,
		Cache:   CacheConfig{DBPath: "x.db"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "babelfish" }, wantErr: "unknown backend"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: "timeout"},
		{name: "cache without path", mutate: func(c *Config) { c.Cache = CacheConfig{Enabled: true} }, wantErr: "cache.db"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log level"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestServiceConfig_Google(t *testing.T) {
	cfg := Config{
		Backend: "google",
		Google:  GoogleConfig{Credentials: "/etc/creds.json", ProjectID: "proj"},
		Systran: SystranConfig{APIKey: "systran-key"},
	}

	sc := cfg.ServiceConfig()
	if sc.Credentials != "/etc/creds.json" || sc.ProjectID != "proj" {
		t.Errorf("unexpected google service config: %+v", sc)
	}
	if sc.APIKey != "" {
		t.Errorf("expected other backends' keys to be ignored, got %q", sc.APIKey)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	log, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("expected info message to be filtered")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"key":"value"`) {
		t.Errorf("expected JSON warn line, got %q", out)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := expandHome("~/data/t.db"); got != filepath.Join(home, "data/t.db") {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("./data/t.db"); got != "./data/t.db" {
		t.Errorf("expected relative path unchanged, got %q", got)
	}
}

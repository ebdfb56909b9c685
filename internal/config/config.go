// Package config loads transtask settings from a config file, TRANSTASK_*
// environment variables and command-line flags through viper.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/transtask/internal/translator"
)

const EnvPrefix = "TRANSTASK"

type Config struct {
	Backend  string         `mapstructure:"backend"`
	Timeout  time.Duration  `mapstructure:"timeout"`
	Google   GoogleConfig   `mapstructure:"google"`
	MyMemory MyMemoryConfig `mapstructure:"mymemory"`
	Systran  SystranConfig  `mapstructure:"systran"`
	Ollama   OllamaConfig   `mapstructure:"ollama"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

type GoogleConfig struct {
	Credentials string `mapstructure:"credentials"`
	APIKey      string `mapstructure:"api_key"`
	ProjectID   string `mapstructure:"project_id"`
}

type MyMemoryConfig struct {
	Email string `mapstructure:"email"`
}

type SystranConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type OllamaConfig struct {
	URL   string `mapstructure:"url"`
	Model string `mapstructure:"model"`
}

type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every key so that environment variables are seen
// by Unmarshal even when no config file sets them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend", translator.BackendGoogle)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("google.credentials", "")
	v.SetDefault("google.api_key", "")
	v.SetDefault("google.project_id", "")
	v.SetDefault("mymemory.email", "")
	v.SetDefault("systran.api_key", "")
	v.SetDefault("ollama.url", "http://localhost:11434")
	v.SetDefault("ollama.model", "")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.db", "./data/transtask.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadFile reads cfgFile, or $HOME/.transtask.yaml when cfgFile is empty.
// A missing default file is not an error.
func ReadFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigName(".transtask")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	known := false
	for _, name := range translator.Names() {
		if c.Backend == name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown backend %q (available: %s)", c.Backend, strings.Join(translator.Names(), ", "))
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.DBPath) == "" {
		return fmt.Errorf("cache.db is required when the cache is enabled")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}

// ServiceConfig maps the section of the selected backend onto the flat
// settings the translator factory takes.
func (c Config) ServiceConfig() translator.ServiceConfig {
	sc := translator.ServiceConfig{Timeout: c.Timeout}
	switch c.Backend {
	case translator.BackendGoogle:
		sc.Credentials = expandHome(c.Google.Credentials)
		sc.APIKey = c.Google.APIKey
		sc.ProjectID = c.Google.ProjectID
	case translator.BackendMyMemory:
		sc.Email = c.MyMemory.Email
	case translator.BackendSystran:
		sc.APIKey = c.Systran.APIKey
	case translator.BackendOllama:
		sc.BaseURL = c.Ollama.URL
		sc.Model = c.Ollama.Model
	}
	return sc
}

// CachePath is the cache database path with a leading ~ expanded.
func (c Config) CachePath() string {
	return expandHome(c.Cache.DBPath)
}

// NewLogger builds the slog logger described by c.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

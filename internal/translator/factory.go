package translator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/valpere/transtask/internal/detector"
)

const (
	BackendGoogle   = "google"
	BackendMyMemory = "mymemory"
	BackendSystran  = "systran"
	BackendOllama   = "ollama"
)

// Names lists the backends New can build.
func Names() []string {
	names := []string{BackendGoogle, BackendMyMemory, BackendSystran, BackendOllama}
	sort.Strings(names)
	return names
}

// New builds the named backend. It fails when the backend is unknown or
// cannot be acquired with cfg, e.g. missing credentials or API key.
func New(ctx context.Context, name string, cfg ServiceConfig) (TranslationService, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case BackendGoogle:
		svc, err := NewGoogleService(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("google: %w", err)
		}
		return svc, nil
	case BackendMyMemory:
		return NewMyMemoryService(cfg.Email, nil, cfg.Timeout), nil
	case BackendSystran:
		svc, err := NewSystranService(cfg.APIKey, detector.New(), cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("systran: %w", err)
		}
		return svc, nil
	case BackendOllama:
		var models []string
		if cfg.Model != "" {
			models = []string{cfg.Model}
		}
		return NewOllamaTranslator(cfg.BaseURL, models, detector.New(), cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (available: %s)", name, strings.Join(Names(), ", "))
	}
}

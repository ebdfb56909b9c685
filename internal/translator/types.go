package translator

import (
	"context"
	"time"
)

// ServiceConfig carries the settings a backend needs at construction time.
// Fields a backend does not use are ignored.
type ServiceConfig struct {
	Credentials string        `mapstructure:"credentials" json:"credentials"`
	APIKey      string        `mapstructure:"api_key" json:"api_key"`
	Email       string        `mapstructure:"email" json:"email"`
	Model       string        `mapstructure:"model" json:"model"`
	BaseURL     string        `mapstructure:"base_url" json:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
	ProjectID   string        `mapstructure:"project_id" json:"project_id"`
}

// TranslateRequest is a single translation call. An empty or "auto"
// SourceLang asks the backend to detect the source language.
type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type ServiceResult struct {
	ServiceName        string            `json:"service_name"`
	TranslatedText     string            `json:"translated_text"`
	DetectedSourceLang string            `json:"detected_source_lang"`
	Confidence         float64           `json:"confidence"`
	Metadata           map[string]string `json:"metadata"`
	Latency            time.Duration     `json:"latency"`
	Error              string            `json:"error,omitempty"`
}

// TranslationService is a translation backend. Implementations in this
// package are safe for concurrent use.
type TranslationService interface {
	Name() string
	Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error)
	IsAvailable(ctx context.Context) error
	SupportedLanguages(ctx context.Context) ([]string, error)
	Close() error
}

func isAutoSource(lang string) bool {
	return lang == "" || lang == "auto"
}

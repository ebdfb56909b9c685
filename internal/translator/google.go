package translator

import (
	"context"
	"fmt"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleService translates through the Google Cloud Translation API. The
// client is created once and shared by all calls.
type GoogleService struct {
	client *translate.Client
}

// NewGoogleService creates the API client. It fails when no credentials can
// be found: neither cfg.Credentials, cfg.APIKey nor application default
// credentials.
func NewGoogleService(ctx context.Context, cfg ServiceConfig) (*GoogleService, error) {
	opts := []option.ClientOption{}
	if cfg.Credentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Credentials))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(cfg.ProjectID))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &GoogleService{client: client}, nil
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	targetLangTag, err := language.Parse(req.TargetLang)
	if err != nil {
		result.Error = fmt.Sprintf("invalid target language: %v", err)
		return result, fmt.Errorf("invalid target language: %w", err)
	}

	opts := &translate.Options{Format: translate.Text}
	if !isAutoSource(req.SourceLang) {
		sourceLangTag, err := language.Parse(req.SourceLang)
		if err != nil {
			result.Error = fmt.Sprintf("invalid source language: %v", err)
			return result, fmt.Errorf("invalid source language: %w", err)
		}
		opts.Source = sourceLangTag
	}

	translations, err := s.client.Translate(ctx, []string{req.Text}, targetLangTag, opts)
	if err != nil {
		result.Error = fmt.Sprintf("translation failed: %v", err)
		return result, fmt.Errorf("translation failed: %w", err)
	}

	if len(translations) == 0 {
		result.Error = "no translation returned"
		return result, fmt.Errorf("no translation returned")
	}

	tr := translations[0]
	result.TranslatedText = tr.Text
	result.DetectedSourceLang = baseLanguage(tr.Source)
	if result.DetectedSourceLang == "" && !isAutoSource(req.SourceLang) {
		result.DetectedSourceLang = req.SourceLang
	}
	result.Confidence = 1.0
	if tr.Model != "" {
		result.Metadata = map[string]string{"model": tr.Model}
	}

	return result, nil
}

func (s *GoogleService) IsAvailable(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("google client not initialised")
	}
	return nil
}

func (s *GoogleService) SupportedLanguages(ctx context.Context) ([]string, error) {
	langs, err := s.client.SupportedLanguages(ctx, language.English)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}

	codes := make([]string, 0, len(langs))
	for _, l := range langs {
		codes = append(codes, l.Tag.String())
	}
	return codes, nil
}

func (s *GoogleService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// baseLanguage reduces a tag such as "fr-CA" to "fr". Undetermined tags
// yield "".
func baseLanguage(tag language.Tag) string {
	if tag == language.Und {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

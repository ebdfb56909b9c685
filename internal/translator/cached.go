package translator

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/valpere/transtask/internal/store"
)

// Memory is the subset of the translation memory store used by Cached.
type Memory interface {
	GetCachedTranslation(ctx context.Context, sourceText, sourceLang, targetLang string) (*store.MemoryEntry, bool, error)
	SaveToMemory(ctx context.Context, sourceText, sourceLang, targetLang, finalText, detectedLang, serviceUsed string) error
	SaveRequest(ctx context.Context, rec store.RequestRecord) error
}

// Cached answers from the translation memory when it can and records
// every non-empty backend result. Memory failures are logged and never
// fail a translation.
type Cached struct {
	next   TranslationService
	memory Memory
	log    *slog.Logger
}

func NewCached(next TranslationService, memory Memory, log *slog.Logger) *Cached {
	if log == nil {
		log = slog.Default()
	}
	return &Cached{next: next, memory: memory, log: log}
}

func (c *Cached) Name() string {
	return c.next.Name()
}

func (c *Cached) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	sourceKey := req.SourceLang
	if isAutoSource(sourceKey) {
		sourceKey = "auto"
	}

	rec := store.RequestRecord{
		ID:          uuid.New().String(),
		SourceText:  req.Text,
		SourceLang:  sourceKey,
		TargetLang:  req.TargetLang,
		ServiceName: c.next.Name(),
	}

	entry, found, err := c.memory.GetCachedTranslation(ctx, req.Text, sourceKey, req.TargetLang)
	if err != nil {
		c.log.Warn("translation_memory_lookup_error", "error", err.Error())
	}
	if err == nil && found {
		rec.CacheHit = true
		c.saveRequest(ctx, rec)
		c.log.Debug("translation_memory_hit", "id", entry.ID, "target", req.TargetLang)
		return &ServiceResult{
			ServiceName:        entry.ServiceUsed,
			TranslatedText:     entry.FinalText,
			DetectedSourceLang: entry.DetectedLang,
			Confidence:         1.0,
			Metadata:           map[string]string{"cache": "hit", "memory_id": entry.ID},
		}, nil
	}

	res, err := c.next.Translate(ctx, req)
	if err != nil {
		rec.Error = err.Error()
		c.saveRequest(ctx, rec)
		return res, err
	}

	c.saveRequest(ctx, rec)
	if res == nil || res.TranslatedText == "" {
		return res, nil
	}
	if err := c.memory.SaveToMemory(ctx, req.Text, sourceKey, req.TargetLang, res.TranslatedText, res.DetectedSourceLang, res.ServiceName); err != nil {
		c.log.Warn("translation_memory_save_error", "error", err.Error())
	}
	return res, nil
}

func (c *Cached) saveRequest(ctx context.Context, rec store.RequestRecord) {
	if err := c.memory.SaveRequest(ctx, rec); err != nil {
		c.log.Warn("translation_request_log_error", "error", err.Error())
	}
}

func (c *Cached) IsAvailable(ctx context.Context) error {
	return c.next.IsAvailable(ctx)
}

func (c *Cached) SupportedLanguages(ctx context.Context) ([]string, error) {
	return c.next.SupportedLanguages(ctx)
}

// Close closes the wrapped backend. The memory is owned by the caller.
func (c *Cached) Close() error {
	return c.next.Close()
}

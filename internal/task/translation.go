package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/valpere/transtask/internal/translator"
)

const (
	// InputDelimiter separates the text from the destination language in
	// the raw input, e.g. "Bonjour le monde$#en".
	InputDelimiter = "$#"
	// DefaultDestination is used when the destination field is empty.
	DefaultDestination = "en"
)

var translationDescriptor = Descriptor{
	Name:         "google_translator",
	ChatName:     "GoogleTranslator",
	Description:  "Translates queries between different languages.",
	Dependencies: []string{},
	Inputs:       []string{"text to be translated", "destination language"},
	Outputs:      []string{},
	OutputType:   false,
}

const translationExplanation = "This task uses google translate to translate between languages"

// Backend is the translation capability the task needs. Every
// translator.TranslationService satisfies it.
type Backend interface {
	Name() string
	Translate(ctx context.Context, req translator.TranslateRequest) (*translator.ServiceResult, error)
}

// BackendFactory acquires a backend. It is called exactly once, when the
// task is constructed.
type BackendFactory func() (Backend, error)

// Result is a complete translation: never one field without the other.
type Result struct {
	Text       string `json:"text" yaml:"text"`
	SourceLang string `json:"source_lang" yaml:"source_lang"`
}

// TranslationTask adapts a translation backend to the Task contract. It
// holds no per-call state; it is as safe for concurrent use as its backend.
type TranslationTask struct {
	backend Backend
	log     *slog.Logger
	timeout time.Duration
}

type Option func(*TranslationTask)

func WithLogger(log *slog.Logger) Option {
	return func(t *TranslationTask) {
		if log != nil {
			t.log = log
		}
	}
}

// WithTimeout bounds each backend call. Zero means no bound beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(t *TranslationTask) { t.timeout = d }
}

// NewTranslationTask acquires the backend through factory. Any failure is
// returned as a *ConfigurationError and no task is created.
func NewTranslationTask(factory BackendFactory, opts ...Option) (*TranslationTask, error) {
	if factory == nil {
		return nil, &ConfigurationError{Hint: InstallHint, Err: errors.New("no backend factory")}
	}
	backend, err := factory()
	if err != nil {
		return nil, &ConfigurationError{Hint: InstallHint, Err: err}
	}
	return NewTranslationTaskWithBackend(backend, opts...)
}

// NewTranslationTaskWithBackend builds the task around an already acquired
// backend.
func NewTranslationTaskWithBackend(backend Backend, opts ...Option) (*TranslationTask, error) {
	if backend == nil {
		return nil, &ConfigurationError{Hint: InstallHint, Err: errors.New("no backend")}
	}
	t := &TranslationTask{backend: backend, log: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *TranslationTask) Descriptor() Descriptor {
	return translationDescriptor.clone()
}

func (t *TranslationTask) Explain() string {
	return translationExplanation
}

// ParseInput splits raw at the delimiter into the text to translate and the
// destination language, both trimmed. The delimiter must occur exactly once.
// An empty destination is returned as is; Execute applies the default.
func ParseInput(raw string) (text, destination string, err error) {
	text, destination, found := strings.Cut(raw, InputDelimiter)
	if !found {
		return "", "", &InvalidInputError{
			Input:  raw,
			Reason: fmt.Sprintf("missing %q between text and destination language", InputDelimiter),
		}
	}
	if strings.Contains(destination, InputDelimiter) {
		return "", "", &InvalidInputError{
			Input:  raw,
			Reason: fmt.Sprintf("delimiter %q must appear exactly once", InputDelimiter),
		}
	}
	return strings.TrimSpace(text), strings.TrimSpace(destination), nil
}

// Execute translates the text in raw into its destination language and
// returns the translation with the source language the backend detected.
func (t *TranslationTask) Execute(ctx context.Context, raw string) (Result, error) {
	text, dest, err := ParseInput(raw)
	if err != nil {
		return Result{}, err
	}
	if text == "" {
		return Result{}, &InvalidInputError{Input: raw, Reason: "no text to translate"}
	}
	if dest == "" {
		dest = DefaultDestination
	}
	if _, err := language.Parse(dest); err != nil {
		return Result{}, &InvalidInputError{
			Input:  raw,
			Reason: fmt.Sprintf("invalid destination language %q", dest),
			Err:    err,
		}
	}

	t.log.Debug("translate_inputs",
		"backend", t.backend.Name(),
		"text_len", len(text),
		"destination", dest,
	)

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	res, err := t.backend.Translate(ctx, translator.TranslateRequest{
		Text:       text,
		SourceLang: "auto",
		TargetLang: dest,
	})
	if err == nil && (res == nil || res.TranslatedText == "") {
		err = errors.New("empty translation returned")
	}
	if err != nil {
		return Result{}, &TranslationBackendError{
			Backend:     t.backend.Name(),
			Text:        text,
			Destination: dest,
			Err:         err,
		}
	}

	source := strings.ToLower(res.DetectedSourceLang)
	if source == "" {
		source = language.Und.String()
	}

	t.log.Debug("translate_done",
		"backend", res.ServiceName,
		"source", source,
		"destination", dest,
		"latency_ms", res.Latency.Milliseconds(),
	)

	return Result{Text: res.TranslatedText, SourceLang: source}, nil
}

// Run implements Task. It returns the translated text and the source
// language, in that order.
func (t *TranslationTask) Run(ctx context.Context, input string) ([]string, error) {
	res, err := t.Execute(ctx, input)
	if err != nil {
		return nil, err
	}
	return []string{res.Text, res.SourceLang}, nil
}

// Close releases the backend when it holds resources.
func (t *TranslationTask) Close() error {
	if c, ok := t.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var _ Task = (*TranslationTask)(nil)

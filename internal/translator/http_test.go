package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/valpere/transtask/internal/detector"
)

func newTestMyMemory(t *testing.T, handler http.HandlerFunc) *MyMemoryService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewMyMemoryService("test@example.com", detector.New(), 0)
	svc.baseURL = server.URL
	svc.client = server.Client()
	return svc
}

func TestMyMemoryService_Translate_Success(t *testing.T) {
	svc := newTestMyMemory(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get" {
			t.Errorf("expected path /get, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("langpair"); got != "fr|en" {
			t.Errorf("expected langpair fr|en, got %q", got)
		}
		if got := r.URL.Query().Get("de"); got != "test@example.com" {
			t.Errorf("expected email parameter, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"responseData":{"translatedText":"Hello the world","match":0.98},"responseStatus":200}`))
	})

	result, err := svc.Translate(context.Background(), TranslateRequest{
		Text:       "Bonjour le monde",
		SourceLang: "fr",
		TargetLang: "en",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "Hello the world" {
		t.Errorf("expected 'Hello the world', got %q", result.TranslatedText)
	}
	if result.DetectedSourceLang != "fr" {
		t.Errorf("expected source 'fr', got %q", result.DetectedSourceLang)
	}
	if result.Confidence != 0.98 {
		t.Errorf("expected confidence 0.98, got %f", result.Confidence)
	}
}

func TestMyMemoryService_Translate_DetectsSource(t *testing.T) {
	svc := newTestMyMemory(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("langpair"); got != "fr|en" {
			t.Errorf("expected detected langpair fr|en, got %q", got)
		}
		w.Write([]byte(`{"responseData":{"translatedText":"Hello, this is a test in French.","match":1},"responseStatus":200}`))
	})

	result, err := svc.Translate(context.Background(), TranslateRequest{
		Text:       "Bonjour, ceci est un test en français.",
		TargetLang: "en",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DetectedSourceLang != "fr" {
		t.Errorf("expected detected source 'fr', got %q", result.DetectedSourceLang)
	}
}

func TestMyMemoryService_Translate_APIErrorStatus(t *testing.T) {
	svc := newTestMyMemory(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseData":{"translatedText":"","match":0},"responseStatus":"403","responseDetails":"INVALID TARGET LANGUAGE"}`))
	})

	result, err := svc.Translate(context.Background(), TranslateRequest{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "xx",
	})
	if err == nil {
		t.Fatal("expected error for API error status")
	}
	if !strings.Contains(result.Error, "INVALID TARGET LANGUAGE") {
		t.Errorf("expected details in result error, got %q", result.Error)
	}
}

func TestMyMemoryService_Translate_HTTPError(t *testing.T) {
	svc := newTestMyMemory(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.Translate(context.Background(), TranslateRequest{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "fr",
	})
	if err == nil {
		t.Fatal("expected error for non-OK status")
	}
}

func TestMyMemoryService_Translate_UndetectableSource(t *testing.T) {
	svc := newTestMyMemory(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called when the source is unknown")
	})

	_, err := svc.Translate(context.Background(), TranslateRequest{
		Text:       "   ",
		TargetLang: "en",
	})
	if err == nil {
		t.Fatal("expected error when source language cannot be detected")
	}
}

func TestMyMemoryService_Translate_SameLanguagePassthrough(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		sourceLang string
		targetLang string
	}{
		{name: "explicit source", text: "Hello", sourceLang: "en", targetLang: "en"},
		{name: "regional target", text: "Hello", sourceLang: "en", targetLang: "en-GB"},
		{name: "detected source", text: "Hello, this is a simple sentence written in English.", targetLang: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestMyMemory(t, func(w http.ResponseWriter, r *http.Request) {
				t.Errorf("API should not be called for a same-language pair, got langpair %q", r.URL.Query().Get("langpair"))
			})

			result, err := svc.Translate(context.Background(), TranslateRequest{
				Text:       tt.text,
				SourceLang: tt.sourceLang,
				TargetLang: tt.targetLang,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.TranslatedText != tt.text {
				t.Errorf("expected text unchanged, got %q", result.TranslatedText)
			}
			if result.DetectedSourceLang != "en" {
				t.Errorf("expected source 'en', got %q", result.DetectedSourceLang)
			}
		})
	}
}

func TestMyMemoryService_DefaultDetector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("langpair"); got != "de|en" {
			t.Errorf("expected detected langpair de|en, got %q", got)
		}
		w.Write([]byte(`{"responseData":{"translatedText":"Good morning, how are you today?","match":1},"responseStatus":200}`))
	}))
	defer server.Close()

	svc := NewMyMemoryService("", nil, 0)
	svc.baseURL = server.URL

	result, err := svc.Translate(context.Background(), TranslateRequest{
		Text:       "Guten Morgen, wie geht es dir heute?",
		TargetLang: "en",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DetectedSourceLang != "de" {
		t.Errorf("expected detected source 'de', got %q", result.DetectedSourceLang)
	}
}

func TestSameLanguage(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"en", "en", true},
		{"en", "en-US", true},
		{"pt-BR", "pt", true},
		{"fr", "en", false},
		{"und", "und", false},
		{"", "en", false},
		{"not a tag", "en", false},
	}

	for _, tt := range tests {
		if got := sameLanguage(tt.a, tt.b); got != tt.want {
			t.Errorf("sameLanguage(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMyMemoryService_IsAvailable(t *testing.T) {
	svc := NewMyMemoryService("test@example.com", nil, 0)

	err := svc.IsAvailable(context.Background())
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMyMemoryService_SupportedLanguages(t *testing.T) {
	svc := NewMyMemoryService("", nil, 0)

	langs, err := svc.SupportedLanguages(context.Background())
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(langs) == 0 {
		t.Error("expected non-empty language list")
	}
}

func TestMyMemoryService_Name(t *testing.T) {
	svc := NewMyMemoryService("", nil, 0)

	if svc.Name() != "mymemory" {
		t.Errorf("expected 'mymemory', got %q", svc.Name())
	}
}

func TestNewSystranService_NoAPIKey(t *testing.T) {
	svc, err := NewSystranService("", nil, 0)
	if err == nil {
		t.Error("expected error when no API key")
	}
	if svc != nil {
		t.Error("expected nil service")
	}
}

func TestSystranService_Translate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-RapidAPI-Key") != "test-key" {
			t.Errorf("expected API key header, got %q", r.Header.Get("X-RapidAPI-Key"))
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["source"] != "auto" {
			t.Errorf("expected source auto, got %v", body["source"])
		}
		if body["target"] != "en" {
			t.Errorf("expected target en, got %v", body["target"])
		}
		w.Write([]byte(`{"outputs":[{"output":"Hello world","detectedLanguage":"fr"}]}`))
	}))
	defer server.Close()

	svc, err := NewSystranService("test-key", nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.baseURL = server.URL
	svc.client = server.Client()

	result, err := svc.Translate(context.Background(), TranslateRequest{
		Text:       "Bonjour le monde",
		TargetLang: "en",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "Hello world" {
		t.Errorf("expected 'Hello world', got %q", result.TranslatedText)
	}
	if result.DetectedSourceLang != "fr" {
		t.Errorf("expected 'fr', got %q", result.DetectedSourceLang)
	}
}

func TestSystranService_Translate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("Forbidden"))
	}))
	defer server.Close()

	svc := &SystranService{
		apiKey:  "test-key",
		baseURL: server.URL,
		client:  server.Client(),
	}

	result, err := svc.Translate(context.Background(), TranslateRequest{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "fr",
	})

	if err == nil {
		t.Error("expected error for non-OK status")
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if !strings.Contains(result.Error, "403") {
		t.Errorf("expected status in result error, got %q", result.Error)
	}
}

func TestSystranService_Translate_EmptyOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"outputs":[]}`))
	}))
	defer server.Close()

	svc := &SystranService{apiKey: "test-key", baseURL: server.URL, client: server.Client()}

	_, err := svc.Translate(context.Background(), TranslateRequest{Text: "Hello", TargetLang: "fr"})
	if err == nil {
		t.Error("expected error for empty outputs")
	}
}

func TestSystranService_IsAvailable_WithAPIKey(t *testing.T) {
	svc, _ := NewSystranService("test-key", nil, 0)

	if err := svc.IsAvailable(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSystranService_Name(t *testing.T) {
	svc, _ := NewSystranService("test-key", nil, 0)

	if svc.Name() != "systran" {
		t.Errorf("expected 'systran', got %q", svc.Name())
	}
}

func TestOllamaTranslator_Translate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("expected /api/generate, got %s", r.URL.Path)
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["model"] != "test-model" {
			t.Errorf("expected model test-model, got %v", body["model"])
		}
		prompt, _ := body["prompt"].(string)
		if !strings.Contains(prompt, "from fr to en") {
			t.Errorf("expected language pair in prompt, got %q", prompt)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"response": "<think>easy</think>Here is the translation: \"Hello the world\"",
		})
	}))
	defer server.Close()

	svc := NewOllamaTranslator(server.URL, []string{"test-model"}, nil, 0)

	result, err := svc.Translate(context.Background(), TranslateRequest{
		Text:       "Bonjour le monde",
		SourceLang: "fr",
		TargetLang: "en",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "Hello the world" {
		t.Errorf("expected cleaned 'Hello the world', got %q", result.TranslatedText)
	}
	if result.DetectedSourceLang != "fr" {
		t.Errorf("expected 'fr', got %q", result.DetectedSourceLang)
	}
	if result.Metadata["model"] != "test-model" {
		t.Errorf("expected model metadata, got %v", result.Metadata)
	}
}

func TestOllamaTranslator_Translate_UnknownSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "Hi"})
	}))
	defer server.Close()

	svc := NewOllamaTranslator(server.URL, []string{"test-model"}, nil, 0)

	result, err := svc.Translate(context.Background(), TranslateRequest{Text: "Salut", TargetLang: "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DetectedSourceLang != "und" {
		t.Errorf("expected 'und' without a detector, got %q", result.DetectedSourceLang)
	}
}

func TestOllamaTranslator_Translate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewOllamaTranslator(server.URL, []string{"test-model"}, nil, 0)

	result, err := svc.Translate(context.Background(), TranslateRequest{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "fr",
	})
	if err == nil {
		t.Error("expected error for server error")
	}
	if result.Error == "" {
		t.Error("expected error message in result")
	}
}

func TestOllamaTranslator_Translate_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	svc := NewOllamaTranslator(server.URL, []string{"test-model"}, nil, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := svc.Translate(ctx, TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "fr"})
	if err == nil {
		t.Error("expected error when context deadline is exceeded")
	}
}

func TestOllamaTranslator_IsAvailable_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("expected /api/tags, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	svc := NewOllamaTranslator(server.URL, nil, nil, 0)

	if err := svc.IsAvailable(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOllamaTranslator_IsAvailable_NotRunning(t *testing.T) {
	svc := NewOllamaTranslator("http://127.0.0.1:1", nil, nil, 0)

	if err := svc.IsAvailable(context.Background()); err == nil {
		t.Error("expected error when Ollama is not running")
	}
}

func TestOllamaTranslator_Models_Default(t *testing.T) {
	svc := NewOllamaTranslator("", nil, nil, 0)

	if len(svc.Models()) != len(DefaultOllamaModels) {
		t.Errorf("expected default models, got %v", svc.Models())
	}
	if svc.baseURL != "http://localhost:11434" {
		t.Errorf("expected default base URL, got %q", svc.baseURL)
	}
}

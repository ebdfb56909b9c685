package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valpere/transtask/internal/detector"
)

const (
	systranHost    = "api-systran-systran-translation-v1.p.rapidapi.com"
	systranBaseURL = "https://" + systranHost
)

type SystranService struct {
	apiKey  string
	baseURL string
	det     *detector.Detector
	client  *http.Client
}

// NewSystranService requires an API key. det is consulted only when the API
// does not return a detected language. A zero timeout leaves each call
// bounded by its context alone.
func NewSystranService(apiKey string, det *detector.Detector, timeout time.Duration) (*SystranService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Systran API key required")
	}
	return &SystranService{
		apiKey:  apiKey,
		baseURL: systranBaseURL,
		det:     det,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (s *SystranService) Name() string {
	return "systran"
}

func (s *SystranService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	sourceLang := req.SourceLang
	if isAutoSource(sourceLang) {
		sourceLang = "auto"
	}

	systranReq := map[string]interface{}{
		"input":  []string{req.Text},
		"source": sourceLang,
		"target": req.TargetLang,
		"format": "text",
	}

	jsonData, err := json.Marshal(systranReq)
	if err != nil {
		result.Error = fmt.Sprintf("failed to marshal request: %v", err)
		return result, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/translation/text/translate", bytes.NewBuffer(jsonData))
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-RapidAPI-Key", s.apiKey)
	httpReq.Header.Set("X-RapidAPI-Host", systranHost)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		result.Error = fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(body))
		return result, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var systranResp struct {
		Outputs []struct {
			Output           string `json:"output"`
			DetectedLanguage string `json:"detectedLanguage"`
		} `json:"outputs"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&systranResp); err != nil {
		result.Error = fmt.Sprintf("failed to decode response: %v", err)
		return result, err
	}

	if len(systranResp.Outputs) == 0 || systranResp.Outputs[0].Output == "" {
		result.Error = "empty translation response"
		return result, fmt.Errorf("empty translation response")
	}

	out := systranResp.Outputs[0]
	result.TranslatedText = out.Output
	result.DetectedSourceLang = out.DetectedLanguage
	if result.DetectedSourceLang == "" {
		result.DetectedSourceLang = detectSource(s.det, req)
	}
	result.Confidence = 1.0

	return result, nil
}

func (s *SystranService) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" {
		return fmt.Errorf("Systran API key not configured")
	}
	return nil
}

func (s *SystranService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{"en", "fr", "es", "de", "it", "pt", "ru", "zh", "ja", "ko", "ar"}, nil
}

func (s *SystranService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// detectSource returns the request's explicit source language, or the
// locally detected one, or "und" when neither is known.
func detectSource(det *detector.Detector, req TranslateRequest) string {
	if !isAutoSource(req.SourceLang) {
		return req.SourceLang
	}
	if det != nil {
		if code, ok := det.DetectISO(req.Text); ok {
			return code
		}
	}
	return "und"
}

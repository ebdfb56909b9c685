package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/text/language"

	"github.com/valpere/transtask/internal/detector"
)

const myMemoryBaseURL = "https://api.mymemory.translated.net"

// MyMemoryService uses the free MyMemory API. MyMemory needs an explicit
// language pair, so the source language is detected locally when the
// request does not name one.
type MyMemoryService struct {
	email   string
	baseURL string
	det     *detector.Detector
	client  *http.Client
}

// myMemoryLanguages are the codes MyMemory translates between.
var myMemoryLanguages = []string{
	"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh",
	"ar", "nl", "pl", "tr", "sv", "da", "no", "fi", "el", "he",
	"th", "vi", "id", "ms", "cs", "hu", "ro", "uk", "bg", "ca",
}

// NewMyMemoryService builds the service. A nil det detects among the
// languages MyMemory supports. timeout bounds each HTTP call; zero leaves
// it to the request context.
func NewMyMemoryService(email string, det *detector.Detector, timeout time.Duration) *MyMemoryService {
	if det == nil {
		det = detector.NewForISOCodes(myMemoryLanguages...)
	}
	return &MyMemoryService{
		email:   email,
		baseURL: myMemoryBaseURL,
		det:     det,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *MyMemoryService) Name() string {
	return "mymemory"
}

func (s *MyMemoryService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	sourceLang := req.SourceLang
	if isAutoSource(sourceLang) {
		detected, ok := s.det.DetectISO(req.Text)
		if !ok {
			result.Error = "could not detect source language"
			return result, fmt.Errorf("could not detect source language")
		}
		sourceLang = detected
	}

	// MyMemory rejects a pair of identical languages.
	if sameLanguage(sourceLang, req.TargetLang) {
		result.TranslatedText = req.Text
		result.DetectedSourceLang = sourceLang
		result.Confidence = 1.0
		result.Metadata = map[string]string{"passthrough": "same_language"}
		return result, nil
	}

	params := url.Values{}
	params.Set("q", req.Text)
	params.Set("langpair", fmt.Sprintf("%s|%s", sourceLang, req.TargetLang))
	if s.email != "" {
		params.Set("de", s.email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/get?"+params.Encode(), nil)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result, err
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Sprintf("API returned status %d", resp.StatusCode)
		return result, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	// responseStatus arrives as a number on success and as a string on
	// some errors.
	var mymemResp struct {
		ResponseData struct {
			TranslatedText string  `json:"translatedText"`
			Match          float64 `json:"match"`
		} `json:"responseData"`
		ResponseStatus  json.Number `json:"responseStatus"`
		ResponseDetails string      `json:"responseDetails"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&mymemResp); err != nil {
		result.Error = fmt.Sprintf("failed to decode response: %v", err)
		return result, err
	}

	if mymemResp.ResponseStatus.String() != "200" {
		result.Error = fmt.Sprintf("API error: %s (%s)", mymemResp.ResponseDetails, mymemResp.ResponseStatus)
		return result, fmt.Errorf("API error: %s", mymemResp.ResponseDetails)
	}

	result.TranslatedText = mymemResp.ResponseData.TranslatedText
	result.DetectedSourceLang = sourceLang
	result.Confidence = mymemResp.ResponseData.Match

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}

	return result, nil
}

func (s *MyMemoryService) IsAvailable(ctx context.Context) error {
	return nil
}

func (s *MyMemoryService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return append([]string(nil), myMemoryLanguages...), nil
}

// sameLanguage reports whether two tags share a base language, so "en"
// matches "en-GB". Unparseable tags never match.
func sameLanguage(a, b string) bool {
	ta, err := language.Parse(a)
	if err != nil {
		return false
	}
	tb, err := language.Parse(b)
	if err != nil {
		return false
	}
	return baseLanguage(ta) != "" && baseLanguage(ta) == baseLanguage(tb)
}

func (s *MyMemoryService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

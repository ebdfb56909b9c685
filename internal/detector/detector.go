// Package detector guesses the language of a text for backends whose API
// does not report the source language.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over every language lingua knows. Models are loaded
// lazily on first use; reuse the instance.
func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()

	return &Detector{detector: detector}
}

// NewForLanguages restricts detection to the given languages, which is
// faster and more accurate when the candidate set is known.
func NewForLanguages(languages ...lingua.Language) *Detector {
	if len(languages) < 2 {
		return New()
	}
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		Build()

	return &Detector{detector: detector}
}

// NewForISOCodes restricts detection to the languages named by ISO 639-1
// codes. Codes lingua does not know are skipped; "no" means Bokmal.
func NewForISOCodes(codes ...string) *Detector {
	languages := make([]lingua.Language, 0, len(codes))
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "no" {
			code = "nb"
		}
		iso := lingua.GetIsoCode639_1FromValue(code)
		if iso == lingua.UnknownIsoCode639_1 {
			continue
		}
		if lang := lingua.GetLanguageFromIsoCode639_1(iso); lang != lingua.Unknown {
			languages = append(languages, lang)
		}
	}
	return NewForLanguages(languages...)
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lowercase ISO 639-1 code of the detected language,
// e.g. "fr".
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

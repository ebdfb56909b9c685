package task

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration      = errors.New("task configuration error")
	ErrInvalidInput       = errors.New("invalid task input")
	ErrTranslationBackend = errors.New("translation backend error")
)

// InstallHint is the remediation attached to every ConfigurationError.
const InstallHint = "install the required translation component"

// ConfigurationError means the translation backend could not be acquired.
// No usable task exists when it is returned.
type ConfigurationError struct {
	Hint string
	Err  error
}

func (e *ConfigurationError) Error() string {
	msg := "translation backend unavailable"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// InvalidInputError reports a malformed raw input string.
type InvalidInputError struct {
	Input  string
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	msg := fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// TranslationBackendError wraps a failed backend call together with the
// request that failed, so callers can report or retry it.
type TranslationBackendError struct {
	Backend     string
	Text        string
	Destination string
	Err         error
}

func (e *TranslationBackendError) Error() string {
	return fmt.Sprintf("%s: translating %q to %s: %v", e.Backend, e.Text, e.Destination, e.Err)
}

func (e *TranslationBackendError) Unwrap() error { return e.Err }

func (e *TranslationBackendError) Is(target error) bool { return target == ErrTranslationBackend }

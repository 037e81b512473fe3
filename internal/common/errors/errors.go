// Package errors provides standardized error handling for collaborator calls.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeQuoteFetchFailed ErrorCode = "QUOTE_FETCH_FAILED"
	ErrCodeQuoteAPITimeout  ErrorCode = "QUOTE_API_TIMEOUT"
	ErrCodeQuoteNotFound    ErrorCode = "QUOTE_NOT_FOUND"

	ErrCodeCryptoFetchFailed ErrorCode = "CRYPTO_FETCH_FAILED"
	ErrCodeCryptoAPITimeout  ErrorCode = "CRYPTO_API_TIMEOUT"

	ErrCodePageFetchFailed   ErrorCode = "PAGE_FETCH_FAILED"
	ErrCodePageEmptyContent  ErrorCode = "PAGE_EMPTY_CONTENT"
	ErrCodeAnalysisMalformed ErrorCode = "ANALYSIS_MALFORMED"

	ErrCodeLLMTimeout    ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMCallFailed ErrorCode = "LLM_CALL_FAILED"
	ErrCodeAPIKeyMissing ErrorCode = "API_KEY_MISSING"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewQuoteFetchFailedError creates a retryable quote provider error.
func NewQuoteFetchFailedError(ticker string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuoteFetchFailed,
		Message:   "Failed to fetch equity quote",
		Details:   fmt.Sprintf("ticker: %s, cause: %v", ticker, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuoteAPITimeoutError creates a retryable quote timeout error.
func NewQuoteAPITimeoutError(ticker string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuoteAPITimeout,
		Message:   "Quote provider did not respond in time",
		Details:   fmt.Sprintf("ticker: %s", ticker),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuoteNotFoundError creates a non-retryable unknown-ticker error.
func NewQuoteNotFoundError(ticker string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuoteNotFound,
		Message:   "No quote data for ticker",
		Details:   fmt.Sprintf("ticker: %s", ticker),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCryptoFetchFailedError creates a retryable crypto provider error.
func NewCryptoFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCryptoFetchFailed,
		Message:   "Failed to fetch cryptocurrency quote",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCryptoAPITimeoutError creates a retryable crypto timeout error.
func NewCryptoAPITimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeCryptoAPITimeout,
		Message:   "Crypto provider did not respond in time",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPageFetchFailedError creates a retryable page fetch error.
func NewPageFetchFailedError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePageFetchFailed,
		Message:   "Failed to fetch webpage",
		Details:   fmt.Sprintf("url: %s, cause: %v", url, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPageEmptyContentError creates a non-retryable empty-content error.
func NewPageEmptyContentError(url string) *StandardError {
	return &StandardError{
		Code:      ErrCodePageEmptyContent,
		Message:   "Webpage contained no extractable text",
		Details:   fmt.Sprintf("url: %s", url),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisMalformedError creates a non-retryable LLM output error.
func NewAnalysisMalformedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisMalformed,
		Message:   "Language model returned unusable analysis",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable language-model timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "Language model did not respond in time",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMCallFailedError creates a retryable language-model call error.
func NewLLMCallFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMCallFailed,
		Message:   "Language model call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAPIKeyMissingError creates a non-retryable configuration error. The
// distinct code lets callers advise the user to configure a key instead of
// silently skipping the LLM path.
func NewAPIKeyMissingError(feature string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAPIKeyMissing,
		Message:   "Google/Gemini API key not configured",
		Details:   fmt.Sprintf("required by: %s", feature),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Helpers
// ==========================

// codeInfo maps the sentinel error codes the collaborator clients emit to
// their human messages and retry classification.
var codeInfo = map[ErrorCode]struct {
	message   string
	retryable bool
}{
	ErrCodeQuoteFetchFailed:  {"Failed to fetch equity quote", true},
	ErrCodeQuoteAPITimeout:   {"Quote provider did not respond in time", true},
	ErrCodeQuoteNotFound:     {"No quote data for ticker", false},
	ErrCodeCryptoFetchFailed: {"Failed to fetch cryptocurrency quote", true},
	ErrCodeCryptoAPITimeout:  {"Crypto provider did not respond in time", true},
	ErrCodePageFetchFailed:   {"Failed to fetch webpage", true},
	ErrCodePageEmptyContent:  {"Webpage contained no extractable text", false},
	ErrCodeAnalysisMalformed: {"Language model returned unusable analysis", false},
	ErrCodeLLMTimeout:        {"Language model did not respond in time", true},
	ErrCodeLLMCallFailed:     {"Language model call failed", true},
	ErrCodeAPIKeyMissing:     {"Google/Gemini API key not configured", false},
}

// Normalize ensures we always have a StandardError. Collaborator clients
// return sentinel errors whose text is the code, optionally followed by
// ": cause"; those are mapped back to their code here.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}

	text := err.Error()
	code := text
	details := ""
	if i := strings.Index(text, ":"); i >= 0 {
		code = text[:i]
		details = strings.TrimSpace(text[i+1:])
	}
	if info, ok := codeInfo[ErrorCode(code)]; ok {
		return &StandardError{
			Code:      ErrorCode(code),
			Message:   info.message,
			Details:   details,
			Retryable: info.retryable,
			Timestamp: time.Now().UTC(),
		}
	}

	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Reason renders an error into the per-slot Err reason string stored on a
// result record.
func Reason(err error) string {
	std := Normalize(err)
	if std.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", std.Code, std.Message, std.Details)
	}
	return fmt.Sprintf("%s: %s", std.Code, std.Message)
}

// CodeOf extracts the error code, defaulting to INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	return Normalize(err).Code
}

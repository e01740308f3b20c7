package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
)

var (
	ErrMissingAPIKey   = errors.New("API key required")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrEmptyResponse   = errors.New("empty response")
)

// StatusError is a non-2xx reply from a provider's HTTP API
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s error (status %d)", e.Provider, e.Code)
	}
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.Code, e.Body)
}

// StatusCode extracts the HTTP status from a provider error, or 0
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	var oe *openai.Error
	if errors.As(err, &oe) {
		return oe.StatusCode
	}
	return 0
}

// IsAuth reports whether err is a rejected API key
func IsAuth(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsRateLimited reports whether err is a 429 from the provider
func IsRateLimited(err error) bool {
	return StatusCode(err) == http.StatusTooManyRequests
}

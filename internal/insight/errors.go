package insight

import (
	"net/http"
	"strings"
)

// ErrorCode classifies an upstream completion failure. The core performs no
// retries; the code tells the HTTP layer which status to surface.
type ErrorCode string

const (
	CodeBadAPIKey   ErrorCode = "bad_api_key"
	CodeRateLimited ErrorCode = "rate_limited"
	CodeTimeout     ErrorCode = "timeout"
	CodeUpstream    ErrorCode = "upstream_error"
)

// Classify maps known error-message substrings onto an ErrorCode. Anything
// unrecognized is a generic upstream error.
func Classify(err error) ErrorCode {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "invalid_api_key"):
		return CodeBadAPIKey
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429") || strings.Contains(msg, "too many requests"):
		return CodeRateLimited
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "context canceled"):
		return CodeTimeout
	default:
		return CodeUpstream
	}
}

// HTTPStatus returns the status code the API layer surfaces for a given
// classified error.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeBadAPIKey:
		return http.StatusUnauthorized
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

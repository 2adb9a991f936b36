// Package httputil provides HTTP-related constants and helpers shared by the
// parser, the seed extractor and the publish step.
package httputil

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTP Status Code Constants
const (
	StatusCodeLength = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode    = 100 // Minimum valid HTTP status code
	MaxStatusCode    = 599 // Maximum valid HTTP status code
	WildcardChar     = 'X' // Wildcard character used in status code patterns (e.g., "2XX")

	// StatusOK is the response key whose JSON schema becomes the Response declaration.
	StatusOK = "200"
)

// HTTP Method Constants, in the lowercase form used as OpenAPI path item keys.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace"
)

// MediaTypeJSON is the request/response content type that carries schemas.
const MediaTypeJSON = "application/json"

// DefaultTimeout bounds a single document download.
const DefaultTimeout = 30 * time.Second

// Methods lists every path item method key in OpenAPI order.
var Methods = []string{
	MethodGet, MethodPut, MethodPost, MethodDelete,
	MethodOptions, MethodHead, MethodPatch, MethodTrace,
}

// IsMethod reports whether key is a path item operation key.
func IsMethod(key string) bool {
	for _, m := range Methods {
		if m == key {
			return true
		}
	}
	return false
}

// ValidateStatusCode checks if a response key is valid for an OpenAPI document.
// Valid values are:
//   - "default" for default response
//   - Extension fields starting with "x-"
//   - Wildcard patterns: 1XX, 2XX, 3XX, 4XX, 5XX
//   - Numeric codes: 100-599
func ValidateStatusCode(code string) bool {
	if code == "default" || strings.HasPrefix(code, "x-") {
		return true
	}
	if len(code) != StatusCodeLength {
		return false
	}
	if code[1] == WildcardChar && code[2] == WildcardChar {
		return code[0] >= '1' && code[0] <= '5'
	}
	statusCode, err := strconv.Atoi(code)
	return err == nil && statusCode >= MinStatusCode && statusCode <= MaxStatusCode
}

// NewClient returns an HTTP client with the given timeout, or DefaultTimeout
// when timeout is not positive.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

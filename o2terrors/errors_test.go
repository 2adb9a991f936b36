package o2terrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &ParseError{
			Path:    "apifox.json",
			Line:    42,
			Column:  10,
			Message: "invalid syntax",
			Cause:   errors.New("underlying error"),
		}
		assert.Equal(t, "parse error in apifox.json at line 42, column 10: invalid syntax: underlying error", err.Error())
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		assert.Equal(t, "parse error", (&ParseError{}).Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &ParseError{Cause: cause}
		assert.ErrorIs(t, err, cause)
	})
}

func TestFetchError(t *testing.T) {
	err := &FetchError{URL: "http://127.0.0.1/doc", StatusCode: 404}
	assert.Equal(t, "fetch error for http://127.0.0.1/doc: HTTP 404", err.Error())
	assert.ErrorIs(t, err, ErrFetch)
}

func TestCompileError(t *testing.T) {
	err := &CompileError{Title: "Response", Pointer: "properties.data.$ref", Message: "unknown reference"}
	assert.Equal(t, "compile error in Response at properties.data.$ref: unknown reference", err.Error())
}

func TestMergeError(t *testing.T) {
	err := &MergeError{Paths: []string{"/a", "/b"}}
	assert.Equal(t, "merge error: 2 changed path(s) not found in either document: /a, /b", err.Error())
	assert.ErrorIs(t, err, ErrMerge)
	assert.NotErrorIs(t, err, ErrInvariant)
}

func TestInvariantError(t *testing.T) {
	err := &InvariantError{Where: "trie.Insert", Message: "seed path has no segments"}
	assert.Equal(t, "invariant violated in trie.Insert: seed path has no segments", err.Error())
}

func TestStoreError(t *testing.T) {
	cause := errors.New("disk full")
	err := &StoreError{Backend: "file", Op: "save", Cause: cause}
	assert.Equal(t, "store error (file): save: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "statuses", Value: "shipping", Message: "unknown status"}
	assert.Equal(t, "configuration error for statuses (value: shipping): unknown status", err.Error())
}

func TestSentinelsThroughWrapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"parse", &ParseError{}, ErrParse},
		{"fetch", &FetchError{}, ErrFetch},
		{"compile", &CompileError{}, ErrCompile},
		{"merge", &MergeError{}, ErrMerge},
		{"invariant", &InvariantError{}, ErrInvariant},
		{"store", &StoreError{}, ErrStore},
		{"config", &ConfigError{}, ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("generator: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
		})
	}
}

func TestErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("render: %w", &InvariantError{Where: "generator.Render"})

	var invErr *InvariantError
	if assert.ErrorAs(t, wrapped, &invErr) {
		assert.Equal(t, "generator.Render", invErr.Where)
	}
}

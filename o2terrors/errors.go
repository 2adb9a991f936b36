package o2terrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates the source document could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrFetch indicates the source document could not be downloaded.
	ErrFetch = errors.New("fetch error")

	// ErrCompile indicates a schema could not be compiled.
	ErrCompile = errors.New("compile error")

	// ErrMerge indicates changed routes could not be resolved during an incremental merge.
	ErrMerge = errors.New("merge error")

	// ErrInvariant indicates a broken construction invariant (a bug, not bad input).
	ErrInvariant = errors.New("invariant violated")

	// ErrStore indicates a snapshot store failure.
	ErrStore = errors.New("store error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to decode a source document.
type ParseError struct {
	// Path is the file path, URL or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// FetchError represents a failure to download a source document.
type FetchError struct {
	// URL is the address that was requested
	URL string
	// StatusCode is the HTTP status received (0 if the request never completed)
	StatusCode int
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *FetchError) Error() string {
	msg := "fetch error"
	if e.URL != "" {
		msg += " for " + e.URL
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": HTTP %d", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// CompileError represents a failure to compile a schema into a declaration.
type CompileError struct {
	// Title is the declaration name being compiled
	Title string
	// Pointer locates the failing fragment inside the schema (e.g. "properties.data.$ref")
	Pointer string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *CompileError) Error() string {
	msg := "compile error"
	if e.Title != "" {
		msg += " in " + e.Title
	}
	if e.Pointer != "" {
		msg += " at " + e.Pointer
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *CompileError) Is(target error) bool {
	return target == ErrCompile
}

// MergeError lists changed routes that matched neither the previous
// generation nor the freshly loaded document.
type MergeError struct {
	// Paths are the unresolved route paths in change-list order
	Paths []string
}

// Error returns a human-readable error message.
func (e *MergeError) Error() string {
	return fmt.Sprintf("merge error: %d changed path(s) not found in either document: %s",
		len(e.Paths), strings.Join(e.Paths, ", "))
}

// Is reports whether target matches this error type.
func (e *MergeError) Is(target error) bool {
	return target == ErrMerge
}

// InvariantError reports a data structure in a shape its construction code
// never produces. It signals a bug rather than bad input.
type InvariantError struct {
	// Where names the structure or operation (e.g. "trie.Insert")
	Where string
	// Message describes the broken invariant
	Message string
}

// Error returns a human-readable error message.
func (e *InvariantError) Error() string {
	msg := "invariant violated"
	if e.Where != "" {
		msg += " in " + e.Where
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

// StoreError represents a snapshot store failure.
type StoreError struct {
	// Backend names the store implementation ("file", "badger", "s3")
	Backend string
	// Op is the failing operation ("load" or "save")
	Op string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *StoreError) Error() string {
	msg := "store error"
	if e.Backend != "" {
		msg += " (" + e.Backend + ")"
	}
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

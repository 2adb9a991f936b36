// Package issues provides the issue type reported by generation passes.
package issues

import (
	"fmt"
	"strings"
)

// Severity indicates the severity level of an issue.
//
// The levels are ordered from least to most severe:
// Info < Warning < Error < Critical
type Severity int

const (
	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo Severity = iota

	// SeverityWarning indicates input that was processed with a fallback,
	// such as an unresolved reference or a response without JSON content.
	SeverityWarning

	// SeverityError indicates a problem that excluded part of the input, such
	// as a changed route that matched no document route.
	SeverityError

	// SeverityCritical indicates a failure that aborted the pass.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Issue represents a single problem found during a generation pass.
type Issue struct {
	// Path locates the problem, either a document path such as
	// "paths./users.get" or a seed path such as "/Get/users".
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity Severity
	// Context provides additional information about the issue (optional)
	Context string
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case SeverityError, SeverityCritical:
		symbol = "✗"
	case SeverityWarning:
		symbol = "⚠"
	case SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	var b strings.Builder
	if i.Path != "" {
		fmt.Fprintf(&b, "%s %s: %s", symbol, i.Path, i.Message)
	} else {
		fmt.Fprintf(&b, "%s %s", symbol, i.Message)
	}
	if i.Context != "" {
		fmt.Fprintf(&b, "\n    Context: %s", i.Context)
	}
	return b.String()
}

// Counts tallies issues per severity.
type Counts struct {
	Info     int
	Warning  int
	Error    int
	Critical int
}

// Count tallies list.
func Count(list []Issue) Counts {
	var c Counts
	for _, i := range list {
		switch i.Severity {
		case SeverityInfo:
			c.Info++
		case SeverityWarning:
			c.Warning++
		case SeverityError:
			c.Error++
		case SeverityCritical:
			c.Critical++
		}
	}
	return c
}

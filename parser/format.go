package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceFormat represents the format of the source document
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// Ext returns the file extension for the format, defaulting to yaml.
func (f SourceFormat) Ext() string {
	if f == SourceFormatJSON {
		return "json"
	}
	return "yaml"
}

// FormatBytes formats a byte count into a human-readable string using binary units (KiB, MiB, etc.)
func FormatBytes(size int64) string {
	if size < 0 {
		return fmt.Sprintf("%d B", size)
	}

	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit && exp < 5; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

func detectFormatFromPath(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

// detectFormatFromContent treats input starting with '{' or '[' as JSON.
func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) == 0 {
		return SourceFormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// detectFormatFromURL tries the URL path extension, then the Content-Type header.
func detectFormatFromURL(urlStr string, contentType string) SourceFormat {
	parsedURL, err := url.Parse(urlStr)
	if err == nil && parsedURL.Path != "" {
		if format := detectFormatFromPath(parsedURL.Path); format != SourceFormatUnknown {
			return format
		}
	}

	if contentType != "" {
		contentType = strings.ToLower(contentType)
		if idx := strings.Index(contentType, ";"); idx != -1 {
			contentType = contentType[:idx]
		}
		switch strings.TrimSpace(contentType) {
		case "application/json":
			return SourceFormatJSON
		case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
			return SourceFormatYAML
		}
	}
	return SourceFormatUnknown
}

package publish

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// Scope prefixes every package name.
	Scope = "@types/"
	// MainFile is the declaration file the manifest points at.
	MainFile = "index.d.ts"
	// ManifestFile is the manifest's file name.
	ManifestFile = "package.json"
	// License is the license written into every manifest.
	License = "MIT"
	// BaseVersion is the release the timestamp prerelease is attached to.
	BaseVersion = "1.0.0"
)

// Manifest is the package.json written next to the declarations.
// Field order is the order written.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Main    string `json:"main"`
	Author  string `json:"author"`
	License string `json:"license"`
}

// NewManifest returns the manifest for package name generated at now.
// A name that already carries the scope is not scoped twice.
func NewManifest(name, author string, now time.Time) Manifest {
	return Manifest{
		Name:    PackageName(name),
		Version: Version(now),
		Main:    MainFile,
		Author:  author,
		License: License,
	}
}

// PackageName returns the scoped package name.
func PackageName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, Scope) {
		return name
	}
	return Scope + name
}

// Version returns BaseVersion with now in unix milliseconds as prerelease.
func Version(now time.Time) string {
	return fmt.Sprintf("%s-%d", BaseVersion, now.UnixMilli())
}

// Tag returns the install spec, e.g. @types/petstore@1.0.0-1700000000000.
func (m Manifest) Tag() string {
	return m.Name + "@" + m.Version
}

// Marshal renders the manifest as JSON indented with four spaces.
func (m Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("publish: encode manifest: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

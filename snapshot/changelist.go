package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ChangeListFile is the default name of the changed route list.
const ChangeListFile = ".o2t"

// ParseChangeList reads a newline-delimited list of changed routes.
// Lines are trimmed; blank lines and lines starting with # are skipped;
// duplicates keep their first position.
func ParseChangeList(r io.Reader) ([]string, error) {
	var routes []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true
		routes = append(routes, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("snapshot: read change list: %w", err)
	}
	return routes, nil
}

// ReadChangeList parses the change list file at path.
func ReadChangeList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is user-provided CLI input
	if err != nil {
		return nil, fmt.Errorf("snapshot: open change list: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseChangeList(f)
}

package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/erraggy/o2t/internal/fileutil"
)

// WriteFiles writes all generated files to the specified output directory.
// The directory is created if it doesn't exist; otherwise every regular file
// already in it is removed first, except those named in keep.
func (r *GenerateResult) WriteFiles(outputDir string, keep ...string) error {
	if err := os.MkdirAll(outputDir, fileutil.DirMode); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if _, err := fileutil.ClearRegularFiles(outputDir, keep...); err != nil {
		return fmt.Errorf("failed to clear output directory: %w", err)
	}

	for _, file := range r.Files {
		safeName := filepath.Base(file.Name)
		if safeName != file.Name {
			return fmt.Errorf("invalid file name %q: must not contain path separators", file.Name)
		}
		filePath := filepath.Join(outputDir, safeName)
		if err := os.WriteFile(filePath, file.Content, fileutil.ReadableByAll); err != nil {
			return fmt.Errorf("failed to write file %s: %w", file.Name, err)
		}
	}

	return nil
}

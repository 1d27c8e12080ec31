package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"destructgen/internal/naming"
)

// SourceOutputPath places generated code next to the Go file it was derived
// from: foo.go -> foo_destruct_gen.go.
func SourceOutputPath(sourcePath, suffix string) string {
	base := strings.TrimSuffix(sourcePath, ".go")
	base = strings.TrimSuffix(base, "_gen")
	return base + suffix
}

// TypeOutputPath names a file after the snake-cased type name inside dir.
func TypeOutputPath(dir, typeName, suffix string) string {
	return filepath.Join(dir, naming.FileStem(typeName)+suffix)
}

// IsGenerated reports whether path is destructgen output and must not be
// read back as input.
func IsGenerated(path, suffix string) bool {
	return strings.HasSuffix(path, suffix)
}

// IgnoreInput reports whether a Go file should be skipped by the source
// front-end.
func IgnoreInput(path, suffix string) bool {
	name := filepath.Base(path)
	return !strings.HasSuffix(name, ".go") ||
		strings.HasSuffix(name, "_test.go") ||
		IsGenerated(name, suffix)
}

func SaveToFile(content []byte, filePath string) error {
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("error writing file %s: %w", filePath, err)
	}
	return nil
}

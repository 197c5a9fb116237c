package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sanitizeName makes a ticker safe for use as a file or directory name.
func sanitizeName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(name)
}

// writeFileAtomic writes data to target via a temp file and rename, so a
// crashed run never leaves a half-written artifact behind. An existing file
// at target is overwritten.
func writeFileAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

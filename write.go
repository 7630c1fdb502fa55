package packman

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile serializes the manifest and writes it to path, creating missing
// parent directories and overwriting any existing file. The full document is
// built in memory before the write, so a failed encode never leaves a
// half-written manifest behind. Returns the number of records written.
func (m *Manifest) WriteFile(path string) (int, error) {
	data, err := m.Encode()
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("create output dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("write manifest: %w", err)
	}
	return len(m.Packs), nil
}

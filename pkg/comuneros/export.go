package comuneros

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Save writes the export under dir using its attachment name. The name is
// flattened to its base so a hostile Content-Disposition cannot traverse out
// of dir. Existing files are not overwritten.
func (e Export) Save(dir string) (string, error) {
	name := filepath.Base(strings.TrimSpace(e.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", errors.New("comuneros: export has no usable filename")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("comuneros: create export dir: %w", err)
	}

	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("comuneros: write export: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := f.Write(e.Data); err != nil {
		return "", fmt.Errorf("comuneros: write export: %w", err)
	}
	return path, nil
}

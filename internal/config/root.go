package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileNames are looked up in every directory, first match wins.
var FileNames = []string{"bibfmt.toml", ".bibfmt.toml"}

// Find returns the nearest configuration file in startDir or one of its
// ancestors. ok is false when none exists up to the filesystem root.
func Find(startDir string) (path string, ok bool, err error) {
	dir, err := filepath.Abs(cmp.Or(startDir, "."))
	if err != nil {
		return "", false, fmt.Errorf("resolve %q: %w", startDir, err)
	}
	for ; ; dir = filepath.Dir(dir) {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			_, statErr := os.Stat(candidate)
			switch {
			case statErr == nil:
				return candidate, true, nil
			case !errors.Is(statErr, fs.ErrNotExist):
				return "", false, fmt.Errorf("stat %s: %w", candidate, statErr)
			}
		}
		if filepath.Dir(dir) == dir {
			return "", false, nil
		}
	}
}


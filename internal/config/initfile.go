package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// ErrExists is returned by WriteDefault when the file is already there.
var ErrExists = errors.New("config file already exists")

// DefaultFile is the content written by `bibfmt init`. Decoding it yields
// Default().
const DefaultFile = `# bibfmt configuration
# Values accept either canonical or editor-style spellings,
# e.g. surround = "braces" or "Curly braces".

[format]
tab = "2 spaces"          # keep | tab | N | "N spaces"
surround = "braces"       # keep | braces | quotes
case = "lower"            # keep | upper | lower
trailing-comma = false
align-equal = true
verify = true             # keep the input if the output does not round-trip

[sort]
enabled = false           # also sort on ` + "`bibfmt fmt`" + `
sort-by = ["year-desc"]   # field names, key, type; "-desc" reverses
first = []                # entry types that go first
duplicates = "ignore"     # ignore | comment

[align]
enabled = false           # also reorder fields on ` + "`bibfmt fmt`" + `
fields-order = []
fields-sort = false

[output]
max-diagnostics = 256
`

// WriteDefault writes DefaultFile as bibfmt.toml into dir and returns its
// path. An existing file is never overwritten.
func WriteDefault(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	st, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !st.IsDir() {
		return "", fmt.Errorf("%q is not a directory", dir)
	}
	path := filepath.Join(dir, FileNames[0])
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if err := atomic.WriteFile(path, strings.NewReader(DefaultFile)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	// atomic.WriteFile оставляет права временного файла (0600)
	if err := os.Chmod(path, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

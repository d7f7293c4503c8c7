package diagfmt

import (
	"fmt"
	"strings"
)

// PathMode selects how file paths are printed.
type PathMode uint8

const (
	// PathModeAuto печатает относительные пути как есть, длинные абсолютные
	// сокращает до имени файла.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = [...]string{"auto", "absolute", "relative", "basename"}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return fmt.Sprintf("PathMode(%d)", m)
}

// ParsePathMode accepts the String forms in any case.
func ParsePathMode(s string) (PathMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range pathModeNames {
		if s == name {
			return PathMode(i), nil
		}
	}
	return PathModeAuto, fmt.Errorf("invalid path mode %q (expected %s)", s, strings.Join(pathModeNames[:], "|"))
}

// Set and Type let *PathMode serve as a command-line flag value.
func (m *PathMode) Set(s string) error {
	v, err := ParsePathMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (*PathMode) Type() string { return "mode" }

type PrettyOpts struct {
	Color     bool
	Context   int8 // строк контекста до и после
	PathMode  PathMode
	ShowNotes bool
}

type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	Max              int // 0 = без ограничения
	IncludeNotes     bool
}
